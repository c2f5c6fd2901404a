package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFirstWildcardExtractsLeadingSegment(t *testing.T) {
	assert.Equal(t, "3", getFirstWildcard("/slot/", "/slot/3/param/2"))
	assert.Equal(t, "7", getFirstWildcard("/fx/", "/fx/7/bypass"))
	assert.Equal(t, "", getFirstWildcard("/slot/", "/channel/1/volume"))
}

func TestAtoiOrFallsBackOnParseFailure(t *testing.T) {
	assert.Equal(t, 5, atoiOr("5", 0))
	assert.Equal(t, -1, atoiOr("not-a-number", -1))
}

func TestDecodeNoteOnRejectsOutOfRangeChannel(t *testing.T) {
	_, _, _, err := decodeNoteOn(0, 60, 100)
	assert.Error(t, err)

	_, _, _, err = decodeNoteOn(17, 60, 100)
	assert.Error(t, err)
}

func TestDecodeNoteOnRejectsOutOfRangeNoteOrVelocity(t *testing.T) {
	_, _, _, err := decodeNoteOn(1, 128, 100)
	assert.Error(t, err)

	_, _, _, err = decodeNoteOn(1, 60, 200)
	assert.Error(t, err)
}

func TestDecodeNoteOnAcceptsValidTriple(t *testing.T) {
	ch, key, vel, err := decodeNoteOn(1, 60, 100)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), ch) // channel 1 maps to gomidi's 0-based Channel(0)
	assert.Equal(t, uint8(60), key)
	assert.Equal(t, uint8(100), vel)
}

func TestDecodeNoteOffAcceptsValidTriple(t *testing.T) {
	ch, key, _, err := decodeNoteOff(16, 40, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint8(15), ch)
	assert.Equal(t, uint8(40), key)
}
