// Command resolve reads raw Vietnamese address fragments, one per line,
// from stdin and writes their resolved province/district/ward to stdout
// as tab-separated fields, in the order they were read.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/address-parser/internal/engine"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "directory to search for engine.yaml, in addition to ./config and .")
	env := flag.String("env", getEnv("APP_ENV", "development"), "development or production, controls log formatting")
	flag.Parse()

	logger := initLogger(*env)
	defer logger.Sync()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load engine config", zap.Error(err))
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := bufio.NewScanner(os.Stdin)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			logger.Info("interrupted, stopping before next line")
			return
		default:
		}

		raw := scanner.Text()
		result := eng.Resolve(ctx, raw)
		fmt.Fprintf(writer, "%s\t%s\t%s\n", result.Province, result.District, result.Ward)
	}

	if err := scanner.Err(); err != nil {
		logger.Error("error reading stdin", zap.Error(err))
		os.Exit(1)
	}
}

func initLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
