package main

import (
	"github.com/printforge/designer/config"
	"github.com/printforge/designer/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config: %v", err)
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config: %v", err)
	}

	appServer.NewServer(cfg)
}
