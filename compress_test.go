package geoid_test

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/twpayne/go-geoid"
)

func TestCompressedBinaryRoundTrip(t *testing.T) {
	// A smooth surface, like a real geoid, compresses well.
	expected := newTestGrid(t, geoid.EGM96Info, func(x, y int) int32 {
		return int32(10*x - 20*y)
	})

	var uncompressed bytes.Buffer
	assert.NoError(t, expected.WriteBinary(&uncompressed))

	var compressed bytes.Buffer
	assert.NoError(t, expected.WriteCompressedBinary(&compressed))
	assert.True(t, compressed.Len() < uncompressed.Len()/100)

	actual, err := geoid.NewGridFromCompressedBinary(&compressed)
	assert.NoError(t, err)
	assert.True(t, expected.Equal(actual))
}

func TestNewGridFromCompressedBinary_Truncated(t *testing.T) {
	grid := newTestGrid(t, geoid.GridInfo{XCount: 16, YCount: 16, XDenom: 1, YDenom: 1}, syntheticPoint)
	var compressed bytes.Buffer
	assert.NoError(t, grid.WriteCompressedBinary(&compressed))

	for _, n := range []int{0, compressed.Len() / 2} {
		_, err := geoid.NewGridFromCompressedBinary(bytes.NewReader(compressed.Bytes()[:n]))
		assert.Error(t, err)
	}
}
