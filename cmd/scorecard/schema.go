package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-scorecard/internal/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "scorecard-config.json"
	sampleConfigName = "scorecard-config.yaml"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Write the configuration JSON schema and a sample configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the schema and sample configuration",
				Value:   "config",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Data path written into the sample configuration",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			dir := cmd.String("output")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			schemaJSON, err := config.GenerateSchemaJSON()
			if err != nil {
				return err
			}

			schemaPath := filepath.Join(dir, schemaName)
			if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
				return err
			}

			log.Info("Schema generated", zap.String("path", schemaPath))

			samplePath := filepath.Join(dir, sampleConfigName)
			if _, err := os.Stat(samplePath); err == nil {
				return nil
			}

			sample := config.Default()
			if data := cmd.String("data"); data != "" {
				sample.Data.Path = data
			}

			body, err := yaml.Marshal(sample)
			if err != nil {
				return err
			}

			body = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), body...)
			if err := os.WriteFile(samplePath, body, 0o644); err != nil {
				return err
			}

			log.Info("Sample config generated", zap.String("path", samplePath))

			return nil
		},
	}
}
