package geoid

import (
	"fmt"
	"math"
	"slices"
)

// A Grid is an in-memory gridded geoid model. Samples are fixed-point heights
// in thousandths of a metre, stored row-major with row 0 southernmost. A Grid
// is immutable once constructed and may be shared between goroutines.
type Grid struct {
	info   GridInfo
	points []int32
}

// NewGrid returns a new Grid. It takes ownership of points, which must be
// row-major and ordered south to north.
func NewGrid(info GridInfo, points []int32) (*Grid, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if len(points) != info.Len() {
		return nil, fmt.Errorf("%w: %d points required but found %d", ErrInvalidGridInfo, info.Len(), len(points))
	}
	return &Grid{
		info:   info,
		points: points,
	}, nil
}

// Info returns g's topology.
func (g *Grid) Info() GridInfo {
	return g.info
}

// Point returns the fixed-point sample at coord. It panics if coord is outside
// g.
func (g *Grid) Point(coord Coord) int32 {
	if !g.info.contains(coord) {
		panic(fmt.Sprintf("geoid: coord %v out of range", coord))
	}
	return g.points[g.info.index(coord)]
}

// Sample returns the height at coord in metres, or NaN if coord is outside g.
func (g *Grid) Sample(coord Coord) float64 {
	if !g.info.contains(coord) {
		return math.NaN()
	}
	return float64(g.points[g.info.index(coord)]) / 1000
}

// Equal returns true if g and other have the same topology and samples.
// Origins are compared bit for bit, so grids decoded from identical bytes are
// equal even if an origin is NaN.
func (g *Grid) Equal(other *Grid) bool {
	return g.info.XCount == other.info.XCount &&
		g.info.YCount == other.info.YCount &&
		g.info.XDenom == other.info.XDenom &&
		g.info.YDenom == other.info.YDenom &&
		math.Float32bits(g.info.XMin) == math.Float32bits(other.info.XMin) &&
		math.Float32bits(g.info.YMin) == math.Float32bits(other.info.YMin) &&
		slices.Equal(g.points, other.points)
}
