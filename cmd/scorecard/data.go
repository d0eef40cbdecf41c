package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/mocks"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-scorecard/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download daily bars into parquet files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol, repeatable",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{time.DateOnly},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{time.DateOnly},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", provider.ProviderPolygon, provider.ProviderBinance),
				Value:   string(provider.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Output directory",
				Value:   filepath.Join("data", "daily"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			// POLYGON_API_KEY may come from a .env file in the working directory
			_ = godotenv.Load()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("download"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish())

			onProgress := func(current, total float64, message string) {
				bar.Describe(message)

				if total > 0 {
					_ = bar.Set(int(min(current/total, 1) * 100))
				}
			}

			client, err := marketdata.NewClient(marketdata.ClientConfig{
				ProviderType:  provider.ProviderType(cmd.String("provider")),
				DataPath:      cmd.String("data"),
				PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
			}, onProgress, log)
			if err != nil {
				return err
			}

			paths, err := client.Download(ctx, marketdata.DownloadParams{
				Tickers:   cmd.StringSlice("ticker"),
				StartDate: cmd.Timestamp("start"),
				EndDate:   cmd.Timestamp("end"),
			})
			_ = bar.Finish()

			for _, p := range paths {
				log.Info("Downloaded", zap.String("path", p))
			}

			return err
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write synthetic daily bars for trying out a configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Parquet file to write",
				Value:   filepath.Join("data", "daily", "synthetic.parquet"),
			},
			&cli.IntFlag{
				Name:  "symbols",
				Usage: "Number of symbols",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Trading days per symbol",
				Value: 250,
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed",
				Value: 42,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			return generateData(cmd.String("output"), int(cmd.Int("symbols")), int(cmd.Int("days")), int64(cmd.Int("seed")), log)
		},
	}
}

// generateData writes n synthetic symbols named SYN001, SYN002, ...
func generateData(output string, n, days int, seed int64, log *logger.Logger) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	symbols := make([]string, n)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYN%03d", i+1)
	}

	cfg := mocks.DefaultConfig()
	cfg.Count = days
	cfg.Trend = 0.1
	universe := mocks.NewDataGenerator(seed).GenerateUniverse(symbols, cfg)

	w := writer.NewDuckDBWriter(output, log)
	if err := w.Initialize(); err != nil {
		return err
	}
	defer w.Close()

	var writeErr error

	universe.Each(func(s types.Series) {
		for _, b := range s.Bars {
			if writeErr != nil {
				return
			}

			writeErr = w.Write(s.Symbol, b)
		}
	})

	if writeErr != nil {
		return writeErr
	}

	_, err := w.Finalize()

	return err
}
