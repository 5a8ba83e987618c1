package geoid_test

import (
	"bytes"
	"io/fs"
	"math"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-geoid"
)

func newTestFS(t *testing.T, grids map[string]*geoid.Grid) fstest.MapFS {
	t.Helper()
	fsys := make(fstest.MapFS)
	for name, grid := range grids {
		var b bytes.Buffer
		switch {
		case strings.HasSuffix(name, ".zst"):
			assert.NoError(t, grid.WriteCompressedBinary(&b))
		default:
			assert.NoError(t, grid.WriteBinary(&b))
		}
		fsys[name] = &fstest.MapFile{Data: b.Bytes()}
	}
	return fsys
}

func TestLoadGrid(t *testing.T) {
	info := geoid.GridInfo{XCount: 5, YCount: 4, XDenom: 1, YDenom: 1, XMin: 0, YMin: -2}
	expected := newTestGrid(t, info, syntheticPoint)
	fsys := newTestFS(t, map[string]*geoid.Grid{
		"grid.bin":     expected,
		"grid.bin.zst": expected,
	})
	fsys["grid.grd"] = &fstest.MapFile{Data: []byte(egm96ASCIIHeader + "1.000\n")}
	fsys["grid.tif"] = &fstest.MapFile{Data: []byte("II*\x00")}

	for _, name := range []string{"grid.bin", "grid.bin.zst"} {
		t.Run(name, func(t *testing.T) {
			actual, err := geoid.LoadGrid(fsys, name)
			assert.NoError(t, err)
			assert.True(t, expected.Equal(actual))
		})
	}

	_, err := geoid.LoadGrid(fsys, "grid.grd")
	assert.IsError(t, err, geoid.ErrFormat)
	assert.Contains(t, err.Error(), "grid.grd")

	_, err = geoid.LoadGrid(fsys, "grid.tif")
	assert.IsError(t, err, geoid.ErrUnsupportedFormat)

	_, err = geoid.LoadGrid(fsys, "missing.bin")
	assert.IsError(t, err, fs.ErrNotExist)
}

func TestGridSet(t *testing.T) {
	info := geoid.GridInfo{XCount: 361, YCount: 181, XDenom: 1, YDenom: 1, XMin: 0, YMin: -90}
	a := newTestGrid(t, info, syntheticPoint)
	b := newTestGrid(t, info, func(x, y int) int32 { return int32(x) })
	fsys := newTestFS(t, map[string]*geoid.Grid{
		"a.bin":     a,
		"b.bin.zst": b,
	})
	fsys["broken.bin"] = &fstest.MapFile{Data: []byte{0x02}}

	gridSet, err := geoid.NewGridSet(
		geoid.WithFS(fsys),
		geoid.WithCacheSize(1),
	)
	assert.NoError(t, err)

	actualA, err := gridSet.Grid("a.bin")
	assert.NoError(t, err)
	assert.True(t, a.Equal(actualA))

	cachedA, err := gridSet.Grid("a.bin")
	assert.NoError(t, err)
	assert.True(t, actualA == cachedA)

	actualB, err := gridSet.Grid("b.bin.zst")
	assert.NoError(t, err)
	assert.True(t, b.Equal(actualB))

	// The cache holds one grid, so a was evicted and is loaded again.
	reloadedA, err := gridSet.Grid("a.bin")
	assert.NoError(t, err)
	assert.True(t, a.Equal(reloadedA))
	assert.True(t, actualA != reloadedA)

	for range 2 {
		missing, err := gridSet.Grid("missing.bin")
		assert.NoError(t, err)
		assert.Zero(t, missing)
	}

	_, err = gridSet.Grid("broken.bin")
	assert.IsError(t, err, geoid.ErrTruncated)

	heights, err := gridSet.Heights("b.bin.zst", [][]float64{{12, 0}, {0, 91}})
	assert.NoError(t, err)
	assert.Equal(t, 0.012, heights[0])
	assert.True(t, math.IsNaN(heights[1]))

	heights, err = gridSet.Heights("missing.bin", [][]float64{{0, 0}})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(heights))
	assert.True(t, math.IsNaN(heights[0]))
}

func TestNewGridSet_NoFS(t *testing.T) {
	_, err := geoid.NewGridSet()
	assert.Error(t, err)
}
