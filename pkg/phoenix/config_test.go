package phoenix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
bounds:
  min: [-10, -20, -30]
  max: [10, 20, 30]
index: quadtree
workers: 2
sliding_speed: 0.002
`))
	require.NoError(t, err)

	assert.Equal(t, mgl64.Vec3{-10, -20, -30}, cfg.Bounds.Min)
	assert.Equal(t, mgl64.Vec3{10, 20, 30}, cfg.Bounds.Max)
	assert.Equal(t, IndexQuadTree, cfg.Index)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 0.002, cfg.SlidingSpeed)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().MaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultConfig().MaxRecursionDepth, cfg.MaxRecursionDepth)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("index: [nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding config")

	_, err = ParseConfig([]byte(`
bounds:
  min: [0, 0, 0]
  max: [10, 0, 10]
index: bsp
sliding_speed: 0
max_triangles_per_node: 0
workers: -1
`))
	require.Error(t, err)
	for _, want := range []string{"min.y", "index", "sliding_speed", "max_triangles_per_node", "workers"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "min.x")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phoenix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 3\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxDepth)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
