package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"budget/config"
	"budget/database"
	"budget/ledger"
	"budget/logging"
	"budget/middleware"
	"budget/router"
	"budget/service"
	"budget/stats"
	"budget/store"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// @title 记账本 API
// @version 1.0
// @description 个人记账服务 API：收支类别、交易记录、余额与统计
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var version = "1.0.0"

var (
	configFile string
	port       string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "budget",
		Short:         "💰 个人记账服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（默认）",
		RunE:  runServe,
	}
	for _, cmd := range []*cobra.Command{root, serve} {
		cmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	}

	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移后退出",
		RunE:  runMigrate,
	}, &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("记账本 v%s\n", version)
		},
	})
	return root
}

// setup 加载配置、初始化日志并打开数据库
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("加载配置失败: %w", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	// 加载配置之后的全局日志也遵循配置
	zlog.Logger = log
	return cfg, log, nil
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("数据库迁移完成")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}
	config.PrintConfig(log, cfg)

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		return err
	}

	middleware.InitJWT(cfg)

	st := store.New(db)
	email := service.NewEmailService(&cfg.Email)
	deps := router.Deps{
		Store:    st,
		Ledger:   ledger.NewService(st, log),
		Stats:    stats.NewService(st),
		Accounts: service.NewAccountService(st, cfg, email, log),
		Email:    email,
		Log:      log,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Port).
			Str("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port)).
			Msg("💰 记账本已启动")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	log.Info().Msg("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
