package main

import (
	"context"

	"github.com/s-min-sys/tourneybe/internal/config"
	"github.com/s-min-sys/tourneybe/internal/server"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libconfig"
	"github.com/sgostarter/liblogrus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

func main() {
	logger := l.NewWrapper(liblogrus.NewLogrusEx(logrus.New()))
	logger.GetLogger().SetLevel(l.LevelDebug)

	var cfg config.Config
	_, _ = libconfig.Load("config.yaml", &cfg)

	cfg.ApplyDefaults()

	d, _ := yaml.Marshal(cfg)
	logger.Debug(string(d))

	server.NewServer(context.Background(), nil, &cfg, logger).Wait()
}
