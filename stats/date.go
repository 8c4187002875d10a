package stats

import (
	"time"

	"budget/models"
)

// legacyDateLayout 早期版本保存的 DD-MM-YYYY 格式
const legacyDateLayout = "02-01-2006"

// NormalizeDate 把 YYYY-MM-DD 或 DD-MM-YYYY 统一转换为 YYYY-MM-DD
// 无法识别的日期返回 false
func NormalizeDate(s string) (string, bool) {
	if len(s) != len(models.DateLayout) {
		return "", false
	}
	layout := models.DateLayout
	if s[2] == '-' && s[5] == '-' {
		layout = legacyDateLayout
	} else if s[4] != '-' || s[7] != '-' {
		return "", false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.Format(models.DateLayout), true
}
