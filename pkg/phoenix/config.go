package phoenix

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/akadjoker/Phoenix-sub001/internal/collision"
	"github.com/akadjoker/Phoenix-sub001/internal/core"
	"github.com/akadjoker/Phoenix-sub001/internal/spatial"
)

// IndexType selects the broad-phase tree a World builds
type IndexType string

const (
	IndexOctree   IndexType = "octree"
	IndexQuadTree IndexType = "quadtree"
)

// BoundsConfig is the YAML form of a bounding box
type BoundsConfig struct {
	Min mgl64.Vec3 `yaml:"min"`
	Max mgl64.Vec3 `yaml:"max"`
}

// Box converts the configured bounds
func (b BoundsConfig) Box() core.BoundingBox {
	return core.NewBoundingBox(b.Min, b.Max)
}

// Config holds the settings of a World
type Config struct {
	Bounds              BoundsConfig `yaml:"bounds"`
	Index               IndexType    `yaml:"index"`
	MaxDepth            int          `yaml:"max_depth"`
	MaxTrianglesPerNode int          `yaml:"max_triangles_per_node"`
	SlidingSpeed        float64      `yaml:"sliding_speed"`
	MaxRecursionDepth   int          `yaml:"max_recursion_depth"`
	// Workers bounds the goroutines used by SlideAll; 0 means unbounded
	Workers int `yaml:"workers"`
}

// DefaultConfig returns a configuration suitable for a level a few hundred
// units across
func DefaultConfig() *Config {
	return &Config{
		Bounds: BoundsConfig{
			Min: mgl64.Vec3{-512, -512, -512},
			Max: mgl64.Vec3{512, 512, 512},
		},
		Index:               IndexOctree,
		MaxDepth:            spatial.DefaultMaxDepth,
		MaxTrianglesPerNode: spatial.DefaultMaxTrianglesPerNode,
		SlidingSpeed:        collision.DefaultSlidingSpeed,
		MaxRecursionDepth:   collision.DefaultMaxRecursionDepth,
		Workers:             8,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %q", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var err error
	for axis, name := range []string{"x", "y", "z"} {
		if c.Bounds.Min[axis] >= c.Bounds.Max[axis] {
			err = multierr.Append(err, fmt.Errorf("bounds: min.%s %v must be below max.%s %v",
				name, c.Bounds.Min[axis], name, c.Bounds.Max[axis]))
		}
	}
	switch c.Index {
	case IndexOctree, IndexQuadTree:
	default:
		err = multierr.Append(err, fmt.Errorf("index: unknown type %q, want %q or %q", c.Index, IndexOctree, IndexQuadTree))
	}
	if c.MaxDepth < 0 {
		err = multierr.Append(err, fmt.Errorf("max_depth: %d is negative", c.MaxDepth))
	}
	if c.MaxTrianglesPerNode < 1 {
		err = multierr.Append(err, fmt.Errorf("max_triangles_per_node: %d must be at least 1", c.MaxTrianglesPerNode))
	}
	if c.SlidingSpeed <= 0 {
		err = multierr.Append(err, fmt.Errorf("sliding_speed: %v must be positive", c.SlidingSpeed))
	}
	if c.MaxRecursionDepth < 0 {
		err = multierr.Append(err, fmt.Errorf("max_recursion_depth: %d is negative", c.MaxRecursionDepth))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers: %d is negative", c.Workers))
	}
	return errors.Wrap(err, "invalid config")
}
