package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
	"github.com/akadjoker/Phoenix-sub001/internal/spatial"
	"github.com/akadjoker/Phoenix-sub001/pkg/phoenix"
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !c.Bool(flagDebug) {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	if path := c.Path(flagLogFile); path != "" {
		cfg.OutputPaths = []string{path}
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}

// withLogger hands action the command logger and flushes it once action returns
func withLogger(action func(*cli.Context, *zap.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return action(c, logger)
	}
}

// loadWorld reads the scene and builds a world holding its geometry
func loadWorld(c *cli.Context, logger *zap.Logger) (*phoenix.World, *phoenix.Scene, error) {
	scene, err := phoenix.LoadScene(c.Path(flagScene))
	if err != nil {
		return nil, nil, err
	}

	cfg := scene.Config
	if path := c.Path(flagConfig); path != "" {
		if cfg, err = phoenix.LoadConfig(path); err != nil {
			return nil, nil, err
		}
	}

	world, err := phoenix.NewWorld(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	geometry := scene.Geometry()
	world.AddTriangles(geometry...)

	logger.Info("scene loaded",
		zap.String("scene", c.Path(flagScene)),
		zap.Int("triangles", len(geometry)),
		zap.Int("movers", len(scene.Movers)))
	return world, scene, nil
}

func newTable(c *cli.Context) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	return t
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

func slideAction(c *cli.Context, logger *zap.Logger) error {
	world, scene, err := loadWorld(c, logger)
	if err != nil {
		return err
	}

	steps := scene.Steps
	if c.IsSet(flagSteps) {
		steps = c.Int(flagSteps)
	}
	if steps < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", flagSteps, steps)
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"Step", "Mover", "Position", "Grounded"})

	movers := append([]phoenix.Mover(nil), scene.Movers...)
	var results []phoenix.SlideResult
	for step := 1; step <= steps; step++ {
		results, err = world.SlideAll(c.Context, movers)
		if err != nil {
			return err
		}
		for i, res := range results {
			movers[i].Position = res.Position
		}
		if c.Bool(flagTrace) || step == steps {
			for _, res := range results {
				t.AppendRow(table.Row{step, res.ID, formatVec(res.Position), res.Grounded})
			}
		}
	}

	grounded := lo.CountBy(results, func(res phoenix.SlideResult) bool { return res.Grounded })
	t.AppendFooter(table.Row{"", "", "grounded", fmt.Sprintf("%d/%d", grounded, len(results))})
	t.Render()
	return nil
}

func queryAction(c *cli.Context, logger *zap.Logger) error {
	box, sphere := c.Float64Slice(flagBox), c.Float64Slice(flagSphere)
	switch {
	case len(box) == 0 && len(sphere) == 0:
		return errors.Errorf("one of --%s or --%s is required", flagBox, flagSphere)
	case len(box) != 0 && len(box) != 6:
		return errors.Errorf("--%s needs 6 values, got %d", flagBox, len(box))
	case len(sphere) != 0 && len(sphere) != 4:
		return errors.Errorf("--%s needs 4 values, got %d", flagSphere, len(sphere))
	}

	world, _, err := loadWorld(c, logger)
	if err != nil {
		return err
	}

	var tris []core.Triangle
	if len(box) == 6 {
		tris = world.QueryBox(core.NewBoundingBox(
			mgl64.Vec3{box[0], box[1], box[2]},
			mgl64.Vec3{box[3], box[4], box[5]},
		))
	} else {
		tris = world.QuerySphere(mgl64.Vec3{sphere[0], sphere[1], sphere[2]}, sphere[3])
	}

	t := newTable(c)
	t.AppendHeader(table.Row{"#", "V0", "V1", "V2", "Normal"})
	for i, tri := range tris {
		t.AppendRow(table.Row{i, formatVec(tri.V0), formatVec(tri.V1), formatVec(tri.V2), formatVec(tri.Normal())})
	}
	t.AppendFooter(table.Row{"", "", "", "total", len(tris)})
	t.Render()
	return nil
}

func statsAction(c *cli.Context, logger *zap.Logger) error {
	world, _, err := loadWorld(c, logger)
	if err != nil {
		return err
	}

	stats := world.Stats()
	t := newTable(c)
	t.AppendHeader(table.Row{"Index", "Bounds", "Nodes", "Leaves", "Triangles", "Depth"})
	t.AppendRow(table.Row{
		stats.Index,
		formatVec(stats.Bounds.Min) + " " + formatVec(stats.Bounds.Max),
		stats.Nodes, stats.Leaves, stats.Triangles, stats.MaxDepth,
	})
	t.Render()

	if !c.Bool(flagNodes) {
		return nil
	}
	nodes := newTable(c)
	nodes.AppendHeader(table.Row{"Depth", "Min", "Max", "Triangles", "Leaf"})
	world.Walk(func(n spatial.NodeInfo) {
		nodes.AppendRow(table.Row{n.Depth, formatVec(n.Bounds.Min), formatVec(n.Bounds.Max), n.Triangles, n.Leaf})
	})
	nodes.Render()
	return nil
}
