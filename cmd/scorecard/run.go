package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-scorecard/internal/backtest"
	"github.com/rxtech-lab/argo-scorecard/internal/config"
	"github.com/rxtech-lab/argo-scorecard/internal/datasource"
	"github.com/rxtech-lab/argo-scorecard/internal/indicator"
	"github.com/rxtech-lab/argo-scorecard/internal/logger"
	"github.com/rxtech-lab/argo-scorecard/internal/report"
	"github.com/rxtech-lab/argo-scorecard/internal/scorecard"
	"github.com/rxtech-lab/argo-scorecard/internal/selector"
	"github.com/rxtech-lab/argo-scorecard/internal/signal"
	"github.com/rxtech-lab/argo-scorecard/internal/target"
	"github.com/rxtech-lab/argo-scorecard/internal/types"
	"github.com/rxtech-lab/argo-scorecard/internal/watch"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "Path to the scorecard `YAML` configuration",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory for report.json, stats.yaml and trades.parquet",
			Value:   "results",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Show finished combinations live in a terminal table",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Print every combination instead of the best ones",
		},
		&cli.BoolFlag{
			Name:  "no-trades",
			Usage: "Skip the trades.parquet export",
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run every selector × signal × target combination of the configuration",
		Flags: runFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			return s.run(ctx, cmd, s.components.Selectors, s.components.Signals, s.components.Targets)
		},
	}
}

func singleCommand() *cli.Command {
	flags := append(runFlags(),
		&cli.StringFlag{Name: "selector", Usage: "Selector id", Required: true},
		&cli.StringFlag{Name: "signal", Usage: "Signal id", Required: true},
		&cli.StringFlag{Name: "target", Usage: "Target id", Required: true},
	)

	return &cli.Command{
		Name:  "single",
		Usage: "Run one selector, signal and target combination",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			sel, ok := s.components.Selector(cmd.String("selector"))
			if !ok {
				return errors.Newf(errors.ErrCodeInvalidParameter, "unknown selector %q", cmd.String("selector"))
			}

			sig, ok := s.components.Signal(cmd.String("signal"))
			if !ok {
				return errors.Newf(errors.ErrCodeInvalidParameter, "unknown signal %q", cmd.String("signal"))
			}

			tgt, ok := s.components.Target(cmd.String("target"))
			if !ok {
				return errors.Newf(errors.ErrCodeInvalidParameter, "unknown target %q", cmd.String("target"))
			}

			return s.run(ctx, cmd, []selector.Selector{sel}, []signal.Generator{sig}, []target.Target{tgt})
		},
	}
}

// session is everything a run needs, built once from the configuration.
type session struct {
	log        *logger.Logger
	cfg        *config.Config
	universe   *types.Universe
	components *config.Components
}

func newSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	components, err := config.Build(cfg, indicator.NewDefaultRegistry(), log)
	if err != nil {
		return nil, err
	}

	ds, err := datasource.NewDataSource("", log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(cfg.Data.Path); err != nil {
		return nil, err
	}

	universe, err := ds.LoadUniverse(ctx, cfg.DataFilter())
	if err != nil {
		return nil, err
	}

	return &session{log: log, cfg: cfg, universe: universe, components: components}, nil
}

func (s *session) run(ctx context.Context, cmd *cli.Command, selectors []selector.Selector, signals []signal.Generator, targets []target.Target) error {
	opts := s.cfg.ScorecardOptions()
	runner := scorecard.NewRunner(backtest.NewEngine(backtest.WithLogger(s.log)), opts, s.log)

	var (
		card types.Scorecard
		err  error
	)

	if cmd.Bool("watch") {
		card, err = s.watch(ctx, runner, opts, selectors, signals, targets)
	} else {
		card, err = runner.Run(ctx, s.universe, selectors, signals, targets, progressCallbacks())
	}

	if err != nil {
		return err
	}

	if err := s.writeOutputs(cmd, card); err != nil {
		return err
	}

	fmt.Print(report.RenderTable(card, cmd.Bool("all")))

	return nil
}

// progressCallbacks draws a progress bar over the combinations.
func progressCallbacks() scorecard.LifecycleCallbacks {
	var bar *progressbar.ProgressBar

	onStart := scorecard.OnScorecardStartCallback(func(_ string, total int) error {
		bar = progressbar.Default(int64(total), "combinations")

		return nil
	})

	onDone := scorecard.OnCombinationDoneCallback(func(_, _ int, _ types.BacktestResult) error {
		return bar.Add(1)
	})

	onEnd := scorecard.OnScorecardEndCallback(func(error) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return scorecard.LifecycleCallbacks{
		OnScorecardStart:  &onStart,
		OnCombinationDone: &onDone,
		OnScorecardEnd:    &onEnd,
	}
}

func (s *session) watch(ctx context.Context, runner *scorecard.Runner, opts scorecard.Options, selectors []selector.Selector, signals []signal.Generator, targets []target.Target) (types.Scorecard, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(watch.NewModel(cancel), tea.WithAltScreen())

	go func() {
		card, err := runner.Run(ctx, s.universe, selectors, signals, targets, watch.Callbacks(p, opts))
		p.Send(watch.RunFinishedMsg{Card: card, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return types.Scorecard{}, err
	}

	m, ok := final.(watch.Model)
	if !ok {
		return types.Scorecard{}, errors.New(errors.ErrCodeUnknown, "unexpected watch model")
	}

	if m.Err() != nil {
		return types.Scorecard{}, m.Err()
	}

	if m.Card().ID == "" {
		return types.Scorecard{}, errors.New(errors.ErrCodeCanceled, "scorecard run canceled")
	}

	return m.Card(), nil
}

func (s *session) writeOutputs(cmd *cli.Command, card types.Scorecard) error {
	out := cmd.String("output")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create output directory %s", out)
	}

	tradesPath := ""

	if !cmd.Bool("no-trades") {
		path, err := report.NewTradesWriter(filepath.Join(out, "trades.parquet"), s.log).Write(card)
		if err != nil {
			return err
		}

		tradesPath = path
	}

	if err := report.WriteStats(filepath.Join(out, "stats.yaml"), card, tradesPath); err != nil {
		return err
	}

	reportPath := filepath.Join(out, "report.json")
	if err := report.WriteJSON(reportPath, report.Build(card, s.components, s.universe)); err != nil {
		return err
	}

	s.log.Info("Scorecard written", zap.String("report", reportPath), zap.Int("combinations", len(card.Entries)))

	return nil
}
