package geoid

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

const (
	headerSize = 16

	maxInitialPoints = 1 << 20

	// predictorSeed primes the predictor before the first sample. It is the
	// EGM96 height at the north pole, in millimetres.
	predictorSeed = 13606
)

// ErrTruncated is returned when a binary grid ends before all of its header
// or samples have been read.
var ErrTruncated = errors.New("truncated input")

// A predictor predicts each sample from its west, south, and south-west
// neighbours as if the surface were locally planar. The state carries over
// from the end of one row to the start of the next.
type predictor struct {
	prevX  int32 // The previous sample in iteration order.
	prevXY int32 // The prevY used for the previous sample.
}

func newPredictor() predictor {
	return predictor{
		prevX:  predictorSeed,
		prevXY: predictorSeed,
	}
}

// predict returns the predicted value for a sample whose southern neighbour is
// prevY.
func (p *predictor) predict(prevY int32) int32 {
	return p.prevX + prevY - p.prevXY
}

// advance records actual as the value of the sample with southern neighbour
// prevY.
func (p *predictor) advance(actual, prevY int32) {
	p.prevX, p.prevXY = actual, prevY
}

// encodeRow appends the deltas of row to dst. below is the row to the south,
// or nil for the first row.
func (p *predictor) encodeRow(dst []byte, row, below []int32) []byte {
	for ix, actual := range row {
		var prevY int32
		if below != nil {
			prevY = below[ix]
		}
		delta := actual - p.predict(prevY)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(delta))
		p.advance(actual, prevY)
	}
	return dst
}

// decodeRow reconstructs row from the deltas in src. below is the row to the
// south, or nil for the first row.
func (p *predictor) decodeRow(row []int32, src []byte, below []int32) {
	for ix := range row {
		var prevY int32
		if below != nil {
			prevY = below[ix]
		}
		delta := int32(binary.LittleEndian.Uint32(src[4*ix : 4*(ix+1)]))
		actual := p.predict(prevY) + delta
		row[ix] = actual
		p.advance(actual, prevY)
	}
}

// NewGridFromBinary reads a Grid in the binary format from r.
func NewGridFromBinary(r io.Reader) (*Grid, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readError("header", err)
	}
	info := GridInfo{
		XCount: int(binary.LittleEndian.Uint16(header[0:2])),
		YCount: int(binary.LittleEndian.Uint16(header[2:4])),
		XDenom: int(binary.LittleEndian.Uint16(header[4:6])),
		YDenom: int(binary.LittleEndian.Uint16(header[6:8])),
		XMin:   math.Float32frombits(binary.LittleEndian.Uint32(header[8:12])),
		YMin:   math.Float32frombits(binary.LittleEndian.Uint32(header[12:16])),
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	// Grow points as rows arrive so that a corrupt header cannot force a
	// large allocation before the data runs out.
	points := make([]int32, 0, min(info.Len(), maxInitialPoints))
	rowData := make([]byte, 4*info.XCount)
	p := newPredictor()
	var below []int32
	for iy := range info.YCount {
		if _, err := io.ReadFull(r, rowData); err != nil {
			return nil, readError(fmt.Sprintf("row %d", iy), err)
		}
		points = slices.Grow(points, info.XCount)[:(iy+1)*info.XCount]
		row := points[iy*info.XCount:]
		p.decodeRow(row, rowData, below)
		below = row
	}

	return NewGrid(info, points)
}

// WriteBinary writes g to w in the binary format.
func (g *Grid) WriteBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, 0, headerSize)
	header = binary.LittleEndian.AppendUint16(header, uint16(g.info.XCount))
	header = binary.LittleEndian.AppendUint16(header, uint16(g.info.YCount))
	header = binary.LittleEndian.AppendUint16(header, uint16(g.info.XDenom))
	header = binary.LittleEndian.AppendUint16(header, uint16(g.info.YDenom))
	header = binary.LittleEndian.AppendUint32(header, math.Float32bits(g.info.XMin))
	header = binary.LittleEndian.AppendUint32(header, math.Float32bits(g.info.YMin))
	if _, err := bw.Write(header); err != nil {
		return err
	}

	rowData := make([]byte, 0, 4*g.info.XCount)
	p := newPredictor()
	var below []int32
	for iy := range g.info.YCount {
		row := g.points[iy*g.info.XCount : (iy+1)*g.info.XCount]
		rowData = p.encodeRow(rowData[:0], row, below)
		if _, err := bw.Write(rowData); err != nil {
			return err
		}
		below = row
	}

	return bw.Flush()
}

// readError annotates err, which occurred while reading what.
func readError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w: %w", what, ErrTruncated, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
