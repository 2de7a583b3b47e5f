//go:build !tinygo

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajanata/ledweb-hardware/internal/config"
	"github.com/ajanata/ledweb-hardware/internal/ledctl"
	"github.com/ajanata/ledweb-hardware/internal/logger"
	"github.com/ajanata/ledweb-hardware/internal/netboot"
	"github.com/ajanata/ledweb-hardware/internal/reach"
	"github.com/ajanata/ledweb-hardware/internal/status"
	"github.com/ajanata/ledweb-hardware/internal/web"
)

// usage: ledweb [settings.yaml]
func main() {
	var settings io.Reader
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fatal(logger.New(config.DefaultLogLevel), "settings open failed", err)
		}
		defer f.Close()
		settings = f
	}

	cfg, err := config.Load(settings, os.Getenv)
	if err != nil {
		fatal(logger.New(config.DefaultLogLevel), "config load failed", err)
	}
	if err := config.Validate(cfg); err != nil {
		fatal(logger.New(config.DefaultLogLevel), "config validation failed", err)
	}

	log := logger.New(cfg.Log.Level)
	defer logger.Sync()

	var out ledctl.Output = ledctl.NewLog(log)
	if cfg.LED.Path != "" {
		out = ledctl.NewSysfs(cfg.LED.Path, log)
	}

	var static web.Files
	if st, err := os.Stat(cfg.Server.StaticDir); err == nil && st.IsDir() {
		static = web.FS(os.DirFS(cfg.Server.StaticDir))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, board{
		radio:   netboot.NewHostRadio(),
		outputs: []ledctl.Output{out},
		pinger:  reach.NewICMP(),
		sink:    status.NewLogSink(log),
		static:  static,
		reset: func() {
			// the service manager restarts us
			logger.Sync()
			os.Exit(1)
		},
		idle: 5 * time.Millisecond,
		log:  log,
	})
	if err != nil && ctx.Err() == nil {
		fatal(log, "ledweb stopped", err)
	}
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	logger.Sync()
	os.Exit(1)
}
