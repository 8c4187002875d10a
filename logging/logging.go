// Package logging 创建 zerolog 日志实例
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New 按配置创建日志，format 为 json 时输出 JSON，其余输出便于阅读的控制台格式
func New(level, format string) zerolog.Logger {
	return NewWithOutput(level, format, os.Stderr)
}

// NewWithOutput 创建写入 w 的日志
func NewWithOutput(level, format string, w io.Writer) zerolog.Logger {
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel 解析日志级别，未知级别按 info 处理
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "silent":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
