// Package main is the slidesim command: it loads a YAML scene into a collision
// world and runs slides and queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig  = "config"
	flagDebug   = "debug"
	flagLogFile = "log-file"
	flagScene   = "scene"
	flagSteps   = "steps"
	flagTrace   = "trace"
	flagBox     = "box"
	flagSphere  = "sphere"
	flagNodes   = "nodes"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	sceneFlag := &cli.PathFlag{
		Name:     flagScene,
		Aliases:  []string{"s"},
		Usage:    "YAML scene file",
		Required: true,
	}

	return &cli.App{
		Name:  "slidesim",
		Usage: "ellipsoid collide-and-slide simulator",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  flagConfig,
				Usage: "YAML world config, overrides the scene's config section",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "write logs to this file instead of stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "slide",
				Usage: "move every mover of the scene and print where they end up",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.IntFlag{
						Name:  flagSteps,
						Usage: "number of steps, overrides the scene",
					},
					&cli.BoolFlag{
						Name:  flagTrace,
						Usage: "print every step instead of only the last",
					},
				},
				Action: withLogger(slideAction),
			},
			{
				Name:  "query",
				Usage: "list the triangles inside a box or sphere",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.Float64SliceFlag{
						Name:  flagBox,
						Usage: "box as minx,miny,minz,maxx,maxy,maxz",
					},
					&cli.Float64SliceFlag{
						Name:  flagSphere,
						Usage: "sphere as x,y,z,radius",
					},
				},
				Action: withLogger(queryAction),
			},
			{
				Name:  "stats",
				Usage: "print broad-phase tree statistics",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.BoolFlag{
						Name:  flagNodes,
						Usage: "also list every node",
					},
				},
				Action: withLogger(statsAction),
			},
		},
	}
}
