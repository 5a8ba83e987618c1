package geoid

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// Filenames of the EGM96 15 minute grid, in order of preference.
const (
	EGM96CompressedBinaryFilename = "egm96_grid15.bin.zst"
	EGM96BinaryFilename           = "egm96_grid15.bin"
	EGM96ASCIIFilename            = "ww15mgh.grd"
)

var egm96Filenames = []string{
	EGM96CompressedBinaryFilename,
	EGM96BinaryFilename,
	EGM96ASCIIFilename,
}

// NewEGM96 loads the EGM96 15 minute grid from fsys, using the first of the
// compressed binary, binary, and ASCII distributions that exists. The grid is
// read once and then held in memory.
func NewEGM96(fsys fs.FS, options ...GridSetOption) (*Grid, error) {
	gridSet, err := NewGridSet(slices.Concat(
		[]GridSetOption{
			WithFS(fsys),
		},
		options,
	)...)
	if err != nil {
		return nil, err
	}
	for _, filename := range egm96Filenames {
		switch grid, err := gridSet.Grid(filename); {
		case err != nil:
			return nil, err
		case grid == nil:
			continue
		case grid.Info() != EGM96Info:
			return nil, fmt.Errorf("%s: %w: %+v", filename, ErrInvalidGridInfo, grid.Info())
		default:
			return grid, nil
		}
	}
	return nil, fmt.Errorf("EGM96 grid: tried %s: %w", strings.Join(egm96Filenames, ", "), fs.ErrNotExist)
}
