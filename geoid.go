package geoid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGridInfo is returned when a GridInfo cannot describe a grid.
var ErrInvalidGridInfo = errors.New("invalid grid info")

// A Coord is a lattice coordinate.
type Coord struct {
	X int // Column, west to east.
	Y int // Row, south to north.
}

// A Geoid returns the height of the geoid above the reference ellipsoid.
type Geoid interface {
	Height(lng, lat float64) float64
}

// A GridInfo describes the topology of a regular grid. Sample (ix, iy) is
// located at (XMin + ix/XDenom, YMin + iy/YDenom).
type GridInfo struct {
	XCount int // Number of samples along the X axis.
	YCount int // Number of samples along the Y axis.
	XDenom int // Denominator of the sample interval along the X axis.
	YDenom int // Denominator of the sample interval along the Y axis.
	XMin   float32 // Longitude of the first column, degrees.
	YMin   float32 // Latitude of the first row, degrees.
}

// EGM96Info is the topology of the EGM96 15 minute grid.
var EGM96Info = GridInfo{
	XCount: 360*4 + 1,
	YCount: 180*4 + 1,
	XDenom: 4,
	YDenom: 4,
	XMin:   0,
	YMin:   -90,
}

// Len returns the number of samples described by i.
func (i GridInfo) Len() int {
	return i.XCount * i.YCount
}

// Validate returns an error if i cannot be represented in the binary format.
func (i GridInfo) Validate() error {
	switch {
	case i.XCount < 2 || i.XCount > math.MaxUint16:
		return fmt.Errorf("%w: x count %d", ErrInvalidGridInfo, i.XCount)
	case i.YCount < 2 || i.YCount > math.MaxUint16:
		return fmt.Errorf("%w: y count %d", ErrInvalidGridInfo, i.YCount)
	case i.XDenom < 1 || i.XDenom > math.MaxUint16:
		return fmt.Errorf("%w: x denominator %d", ErrInvalidGridInfo, i.XDenom)
	case i.YDenom < 1 || i.YDenom > math.MaxUint16:
		return fmt.Errorf("%w: y denominator %d", ErrInvalidGridInfo, i.YDenom)
	default:
		return nil
	}
}

func (i GridInfo) index(coord Coord) int {
	return coord.Y*i.XCount + coord.X
}

func (i GridInfo) contains(coord Coord) bool {
	return 0 <= coord.X && coord.X < i.XCount && 0 <= coord.Y && coord.Y < i.YCount
}
