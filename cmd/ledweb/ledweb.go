package main

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/ajanata/ledweb-hardware/internal/config"
	"github.com/ajanata/ledweb-hardware/internal/health"
	"github.com/ajanata/ledweb-hardware/internal/httpd"
	"github.com/ajanata/ledweb-hardware/internal/ledctl"
	"github.com/ajanata/ledweb-hardware/internal/logger"
	"github.com/ajanata/ledweb-hardware/internal/netboot"
	"github.com/ajanata/ledweb-hardware/internal/reach"
	"github.com/ajanata/ledweb-hardware/internal/status"
	"github.com/ajanata/ledweb-hardware/internal/supervisor"
	"github.com/ajanata/ledweb-hardware/internal/web"
)

// board is everything that differs between targets.
type board struct {
	radio   netboot.Radio
	outputs []ledctl.Output
	pinger  reach.Pinger
	sink    status.Sink
	static  web.Files
	reset   func()
	idle    time.Duration
	log     logger.Logger
}

// run joins the network and serves forever. It only returns on startup errors.
func run(ctx context.Context, cfg *config.Config, b board) error {
	led := ledctl.New(b.outputs...)

	boot, err := netboot.New(netboot.Params{
		Address:  cfg.Network.Address,
		Netmask:  cfg.Network.Netmask,
		Gateway:  cfg.Network.Gateway,
		SSID:     cfg.WiFi.SSID,
		Password: cfg.WiFi.Password,
	}, b.radio, b.log)
	if err != nil {
		return fmt.Errorf("network config: %w", err)
	}
	binding, err := boot.Join(ctx)
	if err != nil {
		return err
	}

	handler := web.NewHandler(led, web.Config{
		Page:   web.DefaultPage(),
		Static: b.static,
	}, b.log)
	server := httpd.New(handler, httpd.DefaultOptions(), b.log)
	defer server.Close()

	target, err := netip.ParseAddr(cfg.Health.PingAddress)
	if err != nil {
		return fmt.Errorf("ping address: %w", err)
	}
	monitor := health.New(health.Config{
		Target:   target,
		Interval: cfg.Health.Interval,
		SSID:     cfg.ShownSSID(),
	}, b.pinger, b.sink, time.Now, b.log)

	sup := supervisor.New(server, monitor, supervisor.Options{
		RestartDelay: cfg.Server.RestartDelay,
		Reset:        b.reset,
		Idle:         b.idle,
	}, b.log)

	addr := net.JoinHostPort(binding.Addr.String(), strconv.Itoa(cfg.Server.Port))
	return sup.Run(ctx, addr)
}
