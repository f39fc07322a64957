package cfb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader()
	h.NumSATSectors = 3
	h.DirectoryStart = SectorID(7)
	h.MiniCutoff = 4096

	buf := h.Encode()
	require.Len(t, buf, HeaderLen)

	got := &Header{}
	require.NoError(t, got.Decode(buf, Permissive))

	assert.Equal(t, h.NumSATSectors, got.NumSATSectors)
	assert.Equal(t, h.DirectoryStart, got.DirectoryStart)
	assert.Equal(t, h.MiniCutoff, got.MiniCutoff)
	assert.Equal(t, SectorSizePower, int(got.SectorSizePower))
	assert.Equal(t, ShortSectorSizePower, int(got.ShortSectorSizePower))
}

func TestHeaderDecodeBadMagic(t *testing.T) {
	buf := NewHeader().Encode()
	buf[0] = 0x00

	err := (&Header{}).Decode(buf, Permissive)
	assert.True(t, errors.Is(err, ErrBadMagic))
}

func TestHeaderDecodeTruncated(t *testing.T) {
	buf := NewHeader().Encode()[:HeaderLen-1]
	err := (&Header{}).Decode(buf, Permissive)
	assert.True(t, errors.Is(err, ErrTruncatedTable))
}

func TestHeaderDecodeFreeSectorAsEndOfChain(t *testing.T) {
	h := NewHeader()
	h.SSATStart = Free
	h.ExtraMSATStart = Free
	buf := h.Encode()

	got := &Header{}
	require.NoError(t, got.Decode(buf, Permissive))
	assert.Equal(t, EndOfChain, got.SSATStart)
	assert.Equal(t, EndOfChain, got.ExtraMSATStart)
}

func TestHeaderSectorSizes(t *testing.T) {
	h := NewHeader()
	assert.Equal(t, 512, h.SectorSize())
	assert.Equal(t, 64, h.ShortSectorSize())
}
