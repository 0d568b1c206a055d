// Package main - Entry point for the motor supply chain HTTP server
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"motor-supplychain/api"
	"motor-supplychain/core/options"
	"motor-supplychain/internal/config"
	"motor-supplychain/internal/logging"
	"motor-supplychain/internal/version"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default is $HOME/.motor-supplychain.json)")
	addr := flag.String("addr", "", "server address (default from config)")
	flag.Parse()

	path := *cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	server, err := api.NewServer(version.Version, options.FromConfig(cfg.SupplyChain))
	if err != nil {
		logging.Fatal("failed to load reference tables", zap.Error(err))
	}

	logging.Info("motor supply chain server listening",
		zap.String("addr", listen),
		zap.String("version", version.Version),
	)
	if err := server.ListenAndServe(listen); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}
