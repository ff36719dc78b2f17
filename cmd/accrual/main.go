// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rayforge/accrual/api"
	"github.com/rayforge/accrual/config"
	"github.com/rayforge/accrual/engine"
	"github.com/rayforge/accrual/ident"
	"github.com/rayforge/accrual/keeper"
	"github.com/rayforge/accrual/log"
	"github.com/rayforge/accrual/lvldb"
	"github.com/rayforge/accrual/metrics"
	"github.com/rayforge/accrual/reverts"
	"github.com/rayforge/accrual/store"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	common := []cli.Flag{configFlag, dataDirFlag, verbosityFlag, logJSONFlag}

	app := cli.App{
		Version: fullVersion(),
		Name:    "accrual",
		Usage:   "Time weighted reward accrual engine",
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "create the gauge and reactor configs",
				Flags:  append([]cli.Flag{timeFlag}, common...),
				Action: initAction,
			},
			{
				Name:      "replay",
				Usage:     "run a scenario of timestamped operations against an in-memory store",
				ArgsUsage: "<scenario.yaml>",
				Flags:     []cli.Flag{startFlag, verbosityFlag, logJSONFlag},
				Action:    replayAction,
			},
			{
				Name:      "inspect",
				Usage:     "print a stored record as JSON",
				ArgsUsage: fmt.Sprintf("<%s> <id>", strings.Join(engine.Kinds(), "|")),
				Flags:     common,
				Action:    inspectAction,
			},
			{
				Name:  "serve",
				Usage: "serve the read-only API, metrics and the index keeper",
				Flags: append([]cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				}, common...),
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openMainDB(&cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	e, err := newEngine(db, &cfg)
	if err != nil {
		return err
	}

	now := ctx.Uint64(timeFlag.Name)
	if now == 0 {
		now = keeper.SystemClock()
	}
	inits := []struct {
		name string
		fn   func() error
	}{
		{"gauge config", func() error { return e.InitGaugeConfig(now, cfg.Gauge.RayEmissionPerDay) }},
		{"reactor config", func() error {
			return e.InitReactorConfig(now, cfg.Reactor.RayRewardDailyEmission, cfg.Reactor.IsoRayAprBps)
		}},
	}
	for _, it := range inits {
		err := it.fn()
		switch {
		case errors.Is(err, store.ErrExists):
			logger.Warn("already initialised", "record", it.name)
		case err != nil:
			return errors.WithMessage(err, it.name)
		default:
			logger.Info("initialised", "record", it.name, "time", now)
		}
	}
	return nil
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("replay: expected one scenario file")
	}
	scenario, err := LoadScenario(ctx.Args().First())
	if err != nil {
		return err
	}
	if ctx.IsSet(startFlag.Name) {
		scenario.Start = ctx.Uint64(startFlag.Name)
	}

	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()
	cfg := config.Default()
	e, err := newEngine(db, &cfg)
	if err != nil {
		return err
	}

	results, err := Replay(e, scenario, os.Stdout)
	if err != nil {
		return err
	}
	reverted := 0
	for _, r := range results {
		if reverts.IsRevertErr(r.Err) {
			reverted++
		}
	}
	fmt.Printf("%d steps, %d reverted\n", len(results), reverted)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 2 {
		return errors.New("inspect: expected <kind> <id>")
	}
	id, err := ident.Parse(ctx.Args().Get(1))
	if err != nil {
		return errors.WithMessage(err, "inspect: id")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	db, err := openMainDB(&cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	e, err := newEngine(db, &cfg)
	if err != nil {
		return err
	}

	rec, err := e.Lookup(ctx.Args().First(), id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	exitCtx := handleExitSignal()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openMainDB(&cfg)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing record database..."); db.Close() }()
	e, err := newEngine(db, &cfg)
	if err != nil {
		return err
	}

	apiURL, stopAPI, err := startServer(cfg.API.Addr, api.New(e, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   cfg.Metrics.Enabled,
	}))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	metricsURL := "disabled"
	if cfg.Metrics.Enabled {
		url, stopMetrics, err := startMetricsServer(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stopMetrics() }()
		metricsURL = url + "metrics"
	}

	if cfg.Keeper.Schedule != "" {
		k := keeper.New(e, cfg.KeeperPools(), keeper.SystemClock)
		if err := k.Start(cfg.Keeper.Schedule); err != nil {
			return err
		}
		defer k.Stop()
	}

	fmt.Printf(`Starting %v
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Keeper       [ %v ]
`,
		"accrual "+fullVersion(),
		cfg.DataDir,
		apiURL,
		metricsURL,
		func() string {
			if cfg.Keeper.Schedule == "" {
				return "disabled"
			}
			return cfg.Keeper.Schedule
		}())

	<-exitCtx.Done()
	return nil
}
