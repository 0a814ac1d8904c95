package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-rooms/internal/server"
)

var CLI struct {
	Config     string `short:"c" long:"config" default:"server.hcl" help:"Path to HCL configuration file"`
	Addr       string `short:"a" long:"addr" help:"Bind address host:port (overrides config)"`
	SmallBlind int    `long:"small-blind" help:"Small blind for created rooms (overrides config)"`
	BigBlind   int    `long:"big-blind" help:"Big blind for created rooms (overrides config)"`
	Seats      int    `long:"seats" help:"Seats per room (overrides config)"`
	LogLevel   string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.SmallBlind > 0 {
		cfg.Room.SmallBlind = CLI.SmallBlind
	}
	if CLI.BigBlind > 0 {
		cfg.Room.BigBlind = CLI.BigBlind
	}
	if CLI.Seats > 0 {
		cfg.Room.Seats = CLI.Seats
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unknown log level %q\n", cfg.Server.LogLevel)
		kctx.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server.Address, cfg.Defaults(), logger, quartz.NewReal())
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server exited", "error", err)
		kctx.Exit(1)
	}
}
