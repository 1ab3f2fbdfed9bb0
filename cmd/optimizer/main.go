package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedule-optimizer/internal/config"
	"schedule-optimizer/internal/geo"
	"schedule-optimizer/internal/league"
	"schedule-optimizer/internal/schedule"
	"schedule-optimizer/internal/solver"
	"schedule-optimizer/internal/sqlite"
)

// Exit codes: 1 load/configuration error, 2 infeasible model,
// 3 time budget exhausted without an incumbent.
const (
	exitLoadError  = 1
	exitInfeasible = 2
	exitNoSolution = 3
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var (
		inputPath     = flag.String("input", "", "teams file (.csv or .json)")
		countriesPath = flag.String("countries", "", "country-code table JSON (optional, built-in table by default)")
		timeLimitSecs = flag.Int("time-limit", cfg.TimeLimitSecs, "solver wall-clock budget in seconds")
		format        = flag.String("format", cfg.OutputFormat, "output format: text or json")
		dbPath        = flag.String("db", cfg.DBPath, "SQLite path for distance cache and run history (optional)")
		verbose       = flag.Bool("verbose", cfg.Verbose, "verbose solver logging")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required -input flag")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", *format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := league.DefaultCountryTable()
	if *countriesPath != "" {
		if table, err = league.LoadCountryTable(*countriesPath); err != nil {
			return err
		}
	}

	registry, err := league.LoadTeams(*inputPath, table)
	if err != nil {
		return err
	}

	calc := geo.NewHaversineCalculator()
	var store *sqlite.Store
	if *dbPath != "" {
		if store, err = sqlite.New(*dbPath); err != nil {
			return err
		}
		defer store.Close()
		calc = geo.NewCachedCalculator(calc, store.DistanceCache())
	}

	matrix, err := league.BuildDistanceMatrix(ctx, registry, calc)
	if err != nil {
		return err
	}

	optimizer := schedule.NewOptimizer(solver.NewBranchAndBound())
	if store != nil {
		optimizer = optimizer.WithRunStore(store.Runs())
	}

	result, _, err := optimizer.Optimize(ctx, schedule.Request{
		Registry:  registry,
		Matrix:    matrix,
		Format:    schedule.DefaultFormat(),
		TimeLimit: time.Duration(*timeLimitSecs) * time.Second,
		Verbose:   *verbose,
	})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	default:
		fmt.Print(schedule.RenderText(result))
	}

	return nil
}

func exitCode(err error) int {
	var infeasibleFormat *schedule.ErrInfeasibleFormat
	var infeasible *schedule.ErrInfeasible
	var noIncumbent *schedule.ErrNoIncumbent

	switch {
	case errors.As(err, &infeasibleFormat), errors.As(err, &infeasible):
		return exitInfeasible
	case errors.As(err, &noIncumbent):
		return exitNoSolution
	default:
		return exitLoadError
	}
}
