package geoid

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewGridFromCompressedBinary reads a zstd-compressed binary Grid from r.
func NewGridFromCompressedBinary(r io.Reader) (*Grid, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return NewGridFromBinary(zr)
}

// WriteCompressedBinary writes g to w in the binary format, compressed with
// zstd.
func (g *Grid) WriteCompressedBinary(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if err := g.WriteBinary(zw); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
