package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bossbalance/internal/batch"
	"bossbalance/internal/combat"
	"bossbalance/internal/config"
	"bossbalance/internal/util"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "simsvc:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := config.ParseEnv()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("simsvc", flag.ContinueOnError)
	policies := strings.Join(opts.Policies, ",")
	fs.StringVar(&opts.Balance, "balance", opts.Balance, "balance YAML (empty = built-in numbers)")
	fs.StringVar(&policies, "policy", policies, "comma separated policies: "+strings.Join(combat.PolicyNames(), ", "))
	fs.IntVar(&opts.Trials, "n", opts.Trials, "number of simulations per policy")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "seed")
	fs.IntVar(&opts.Workers, "workers", opts.Workers, "parallel workers for batches")
	fs.StringVar(&opts.Out, "out", opts.Out, "output file (single) or summary file (batch)")
	fs.BoolVar(&opts.Record, "log", opts.Record, "save full event log when n==1")
	fs.StringVar(&opts.LogLevel, "v", opts.LogLevel, "log level: debug, info, warn, error")
	dump := fs.Bool("dump-balance", false, "write the effective balance as YAML to -out and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Policies = strings.Split(policies, ",")

	logger, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	bal, err := config.LoadOrDefault(opts.Balance)
	if err != nil {
		return err
	}
	if *dump {
		doc, err := config.MarshalBalance(bal)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Out, doc, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.Out, err)
		}
		logger.Info("balance written", zap.String("path", opts.Out))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := message.NewPrinter(language.English)

	if opts.Trials <= 1 {
		policy, err := combat.PolicyByName(opts.Policies[0], bal)
		if err != nil {
			return err
		}
		sim := combat.NewSimulator(bal, combat.WithLogger(logger), combat.WithEvents(opts.Record))
		res, err := sim.Run(ctx, util.New(opts.Seed), policy)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Out, combat.MarshalPretty(res), 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.Out, err)
		}
		verdict := "defeat"
		if res.Win() {
			verdict = "victory"
		}
		p.Printf("Single run finished. %s on turn %d, policy=%s -> %s\n",
			verdict, res.Turn, policy.Name(), opts.Out)
		return nil
	}

	sim := combat.NewSimulator(bal, combat.WithLogger(logger.Named("sim").WithOptions(zap.IncreaseLevel(zapcore.InfoLevel))))
	runner := &batch.Runner{Sim: sim, Workers: opts.Workers, Seed: opts.Seed, Logger: logger}
	summaries := make([]batch.Summary, 0, len(opts.Policies))
	for _, name := range opts.Policies {
		policy, err := combat.PolicyByName(name, bal)
		if err != nil {
			return err
		}
		sum, err := runner.Run(ctx, opts.Trials, policy)
		if err != nil {
			return fmt.Errorf("%s batch: %w", policy.Name(), err)
		}
		summaries = append(summaries, sum)
		p.Printf("%-10s victory rate %.1f%% (%d/%d), mean turn %.2f\n",
			sum.Policy, sum.WinRate*100, sum.Wins, sum.Runs, sum.MeanTurn)
	}

	report := map[string]any{
		"seed":      opts.Seed,
		"runs":      opts.Trials,
		"balance":   bal,
		"summaries": summaries,
	}
	if err := os.WriteFile(opts.Out, combat.MarshalPretty(report), 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}
	p.Printf("Batch of %d runs per policy done -> %s\n", opts.Trials, filepath.Base(opts.Out))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.Config{
		Level:       lvl,
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}
