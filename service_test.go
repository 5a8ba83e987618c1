package geoid_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-geoid"
)

func TestService(t *testing.T) {
	// Heights are the longitude in metres, which makes transformed
	// coordinates easy to check.
	grid := newTestGrid(t, geoid.GridInfo{
		XCount: 361,
		YCount: 181,
		XDenom: 1,
		YDenom: 1,
		XMin:   0,
		YMin:   -90,
	}, func(x, y int) int32 {
		return int32(1000 * x)
	})
	service, err := geoid.NewService(grid, geoid.WithTransformerCacheSize(2))
	assert.NoError(t, err)

	t.Run("heights", func(t *testing.T) {
		actual := service.Heights([][]float64{
			{1, 2},
			{-1, 2},
			{1, 91},
		})
		assert.Equal(t, 3, len(actual))
		assert.Equal(t, 1.0, actual[0])
		assert.Equal(t, 359.0, actual[1])
		assert.True(t, math.IsNaN(actual[2]))
	})

	t.Run("epsg4326", func(t *testing.T) {
		coords := [][]float64{{2, 1}}
		actual, err := service.HeightsCRS(t.Context(), "epsg:4326", coords)
		assert.NoError(t, err)
		assert.Equal(t, []float64{1}, actual)
		assert.Equal(t, [][]float64{{2, 1}}, coords)
	})

	t.Run("epsg3857", func(t *testing.T) {
		coords := [][]float64{
			{0, 0},
			{1113194.9079327357, 0},
		}
		for range 2 {
			actual, err := service.HeightsCRS(t.Context(), "epsg:3857", coords)
			assert.NoError(t, err)
			assert.Equal(t, 2, len(actual))
			assert.True(t, math.Abs(actual[0]) < 1e-6)
			assert.True(t, math.Abs(actual[1]-10) < 1e-6)
		}
	})

	t.Run("invalid_crs", func(t *testing.T) {
		_, err := service.HeightsCRS(t.Context(), "invalid", [][]float64{{0, 0}})
		assert.Error(t, err)
	})
}
