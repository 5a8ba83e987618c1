package geoid

import "math"

// Height returns the height of the geoid at (lng, lat) in metres. It returns
// NaN if lat is outside [-90, 90]. Longitudes wrap modulo 360.
func (g *Grid) Height(lng, lat float64) float64 {
	if !(-90 <= lat && lat <= 90) {
		return math.NaN()
	}
	normalizedLng := math.Mod(math.Mod(lng, 360)+360, 360)
	return g.InterpolateBilinear(normalizedLng, lat)
}

// Heights returns the heights of the geoid at coords, which are {lng, lat}
// pairs. Heights that cannot be determined are NaN.
func (g *Grid) Heights(coords [][]float64) []float64 {
	result := make([]float64, len(coords))
	for i, coord := range coords {
		result[i] = g.Height(coord[0], coord[1])
	}
	return result
}

// InterpolateBilinear returns the value at (x, y) in g's coordinates,
// interpolated from the four surrounding samples. It returns NaN if (x, y) is
// outside g. There is no wraparound.
func (g *Grid) InterpolateBilinear(x, y float64) float64 {
	gridX := (x - float64(g.info.XMin)) * float64(g.info.XDenom)
	gridY := (y - float64(g.info.YMin)) * float64(g.info.YDenom)
	if !(gridX >= 0) || !(gridY >= 0) {
		return math.NaN()
	}

	floorX, floorY := math.Floor(gridX), math.Floor(gridY)
	if floorX >= float64(g.info.XCount) || floorY >= float64(g.info.YCount) {
		return math.NaN()
	}
	x0, y0 := int(floorX), int(floorY)
	dx, dy := gridX-floorX, gridY-floorY

	return bilinear(dx, dy,
		g.Sample(Coord{X: x0, Y: y0}),
		g.Sample(Coord{X: x0 + 1, Y: y0}),
		g.Sample(Coord{X: x0, Y: y0 + 1}),
		g.Sample(Coord{X: x0 + 1, Y: y0 + 1}),
	)
}

// bilinear blends the four corners of a cell. Queries on the cell's edges only
// read the corners on that edge, so NaN corners beyond the last row or column
// do not leak into exact lattice values.
func bilinear(dx, dy, v00, v10, v01, v11 float64) float64 {
	switch {
	case dx == 0 && dy == 0:
		return v00
	case dx == 0:
		return v00*(1-dy) + v01*dy
	case dy == 0:
		return v00*(1-dx) + v10*dx
	default:
		return 0 +
			v00*(1-dx)*(1-dy) +
			v10*dx*(1-dy) +
			v01*(1-dx)*dy +
			v11*dx*dy
	}
}
