// Command worker batch-resolves an entire address file concurrently
// across a fixed pool of goroutines, one engine.Resolve call per line.
// The engine's catalog and fuzzy indexes are read-only after startup and
// its caches are internally synchronized, so sharing one *engine.Engine
// across the pool is safe without extra locking.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/address-parser/helpers/utils"
	"github.com/address-parser/internal/engine"
	"go.uber.org/zap"
)

func main() {
	inputPath := flag.String("input", "", "file of raw addresses, one per line")
	outputPath := flag.String("output", "", "file to write resolved results to (defaults to stdout)")
	workers := flag.Int("workers", 8, "number of concurrent resolver goroutines")
	flag.Parse()

	runID := utils.GenerateShortID()
	logger := initLogger().With(zap.String("run_id", runID))
	defer logger.Sync()

	if *inputPath == "" {
		logger.Fatal("-input is required")
	}

	cfg, err := engine.LoadConfig("")
	if err != nil {
		logger.Fatal("failed to load engine config", zap.Error(err))
	}
	eng, err := engine.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines, err := readLines(*inputPath)
	if err != nil {
		logger.Fatal("failed to read input", zap.Error(err))
	}

	logger.Info("starting batch resolution",
		zap.Int("lines", len(lines)), zap.Int("workers", *workers))

	results := resolveAll(ctx, eng, lines, *workers)

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal("failed to create output file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	writer := bufio.NewWriter(out)
	defer writer.Flush()
	for i, res := range results {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", lines[i], res.Province, res.District, res.Ward)
	}

	logger.Info("batch resolution complete")
}

type indexedResult struct {
	index int
	value engine.Result
}

// resolveAll fans raw lines out across workers goroutines and collects
// results back into the original line order.
func resolveAll(ctx context.Context, eng *engine.Engine, lines []string, workers int) []engine.Result {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	out := make(chan indexedResult, len(lines))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out <- indexedResult{index: i, value: eng.Resolve(ctx, lines[i])}
			}
		}()
	}

	go func() {
		for i := range lines {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]engine.Result, len(lines))
	for r := range out {
		results[r.index] = r.value
	}
	return results
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func initLogger() *zap.Logger {
	env := os.Getenv("APP_ENV")
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
