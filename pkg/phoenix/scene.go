package phoenix

import (
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/akadjoker/Phoenix-sub001/internal/core"
)

// FloorSpec describes a GridFloor in a scene file
type FloorSpec struct {
	Center   mgl64.Vec3 `yaml:"center"`
	Cells    int        `yaml:"cells"`
	CellSize float64    `yaml:"cell_size"`
}

// BoxSpec describes a closed box in a scene file
type BoxSpec struct {
	Center mgl64.Vec3 `yaml:"center"`
	Size   mgl64.Vec3 `yaml:"size"`
}

// Scene is static geometry plus the movers to run through it, as read from YAML
type Scene struct {
	Config    *Config         `yaml:"-"` // nil when the file has no config section
	Floors    []FloorSpec     `yaml:"floors"`
	Boxes     []BoxSpec       `yaml:"boxes"`
	Triangles [][3]mgl64.Vec3 `yaml:"triangles"`
	Movers    []Mover         `yaml:"movers"`
	Steps     int             `yaml:"steps"`
}

// LoadScene reads a scene file
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %q", path)
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %q", path)
	}
	return scene, nil
}

// ParseScene decodes a scene. An embedded config section is decoded on top of
// DefaultConfig.
func ParseScene(data []byte) (*Scene, error) {
	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, errors.Wrap(err, "decoding scene")
	}

	var raw struct {
		Config yaml.Node `yaml:"config"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding scene")
	}
	if !raw.Config.IsZero() {
		cfg := DefaultConfig()
		if err := raw.Config.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "decoding scene config")
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		scene.Config = cfg
	}

	for i, m := range scene.Movers {
		if m.Radius[0] <= 0 || m.Radius[1] <= 0 || m.Radius[2] <= 0 {
			return nil, errors.Errorf("mover %d (%s): radius %v must be positive on every axis", i, m.ID, m.Radius)
		}
	}
	if scene.Steps <= 0 {
		scene.Steps = 1
	}
	return &scene, nil
}

// Geometry flattens every floor, box and loose triangle of the scene
func (s *Scene) Geometry() []core.Triangle {
	var tris []core.Triangle
	tris = append(tris, lo.FlatMap(s.Floors, func(f FloorSpec, _ int) []core.Triangle {
		return GridFloor(f.Center, f.Cells, f.CellSize)
	})...)
	tris = append(tris, lo.FlatMap(s.Boxes, func(b BoxSpec, _ int) []core.Triangle {
		return BoxTriangles(NewBox(b.Center, b.Size))
	})...)
	tris = append(tris, lo.Map(s.Triangles, func(v [3]mgl64.Vec3, _ int) core.Triangle {
		return core.NewTriangle(v[0], v[1], v[2])
	})...)
	return tris
}
