package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gobinance/internal/app"
	"github.com/tradebot/gobinance/internal/controlplane/server"
	"github.com/tradebot/gobinance/pkg/config"
	"github.com/tradebot/gobinance/pkg/logger"
	"github.com/tradebot/gobinance/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "config file path (.yaml, .yml or .json)")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fatal(err)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	core, err := app.Build(cfg)
	if err != nil {
		fatal(err)
	}

	srv := server.New(core.Orders, core.Accounts, core.Trail)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Router(),
	}

	sm := shutdown.NewManager()
	sm.OnShutdown(func(ctx context.Context, _ *sync.WaitGroup) {
		if err := httpSrv.Shutdown(ctx); err != nil {
			logrus.Warnf("http shutdown: %v", err)
		}
	})
	sm.OnShutdown(func(_ context.Context, _ *sync.WaitGroup) {
		if err := core.Close(); err != nil {
			logrus.Warnf("audit close: %v", err)
		}
	})

	go func() {
		logrus.Infof("control plane listening on %s (testnet=%v)", cfg.Server.Listen, core.Client.Testnet())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sm.Shutdown(ctx)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
