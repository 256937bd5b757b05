// Package main is the splinedrive command: plan, plot and simulate spline runs.
package main

import (
	"log"
	"os"
	"os/signal"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	// Flags.
	flagConfig      = "config"
	flagDebug       = "debug"
	flagEvery       = "every"
	flagPathOut     = "path-out"
	flagVelocityOut = "velocity-out"
	flagRealtime    = "realtime"
	flagBins        = "bins"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "splinedrive",
		Usage: "plan and play back spline trajectories for a differential drive base",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Load run configuration from `FILE` (JSON or YAML); the demo run is used if unset",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("splinedrive")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "print the planned samples and wheel velocities",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagEvery,
						Value: 1,
						Usage: "print every `N`th sample",
					},
				},
				Action: func(c *cli.Context) error {
					return planAction(c, logger)
				},
			},
			{
				Name:  "plot",
				Usage: "render the path and wheel velocity profiles to PNG files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagPathOut,
						Value: "path.png",
						Usage: "write the path plot to `FILE`",
					},
					&cli.StringFlag{
						Name:  flagVelocityOut,
						Value: "velocity.png",
						Usage: "write the wheel velocity plot to `FILE`",
					},
				},
				Action: func(c *cli.Context) error {
					return plotAction(c, logger)
				},
			},
			{
				Name:  "simulate",
				Usage: "play the run back against a simulated drivetrain",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagRealtime,
						Usage: "pace the control loop with the wall clock instead of running as fast as possible",
					},
					&cli.IntFlag{
						Name:  flagBins,
						Value: 10,
						Usage: "loop period histogram `BINS`",
					},
				},
				Action: func(c *cli.Context) error {
					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
					defer stop()
					c.Context = ctx
					return simulateAction(c, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
