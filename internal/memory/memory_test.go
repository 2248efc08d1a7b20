package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestGBA() *GBA {
	bios := make([]byte, 0x4000)
	rom := make([]byte, 0x1000)
	return New(bios, rom)
}

func TestReadWriteRoundTrip32(t *testing.T) {
	m := newTestGBA()
	m.Write32(iwramStart, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), m.Read32(iwramStart))
}

func TestLittleEndianComposition(t *testing.T) {
	m := newTestGBA()
	m.Write32(ewramStart, 0x04030201)
	assert.Equal(t, uint8(0x01), m.Read8(ewramStart))
	assert.Equal(t, uint8(0x02), m.Read8(ewramStart+1))
	assert.Equal(t, uint8(0x03), m.Read8(ewramStart+2))
	assert.Equal(t, uint8(0x04), m.Read8(ewramStart+3))
}

func TestUnmappedReadsZero(t *testing.T) {
	m := newTestGBA()
	assert.Equal(t, uint32(0), m.Read32(0x01000000))
}

func TestUnmappedWriteDiscarded(t *testing.T) {
	m := newTestGBA()
	m.Write32(0x01000000, 0xFFFFFFFF)
	assert.Equal(t, uint32(0), m.Read32(0x01000000))
}

func TestROMMirroring(t *testing.T) {
	m := newTestGBA()
	m.rom[4] = 0x7F
	assert.Equal(t, uint8(0x7F), m.Read8(romStart+4))
	assert.Equal(t, uint8(0x7F), m.Read8(romStart+romMirrorSize+4))
	assert.Equal(t, uint8(0x7F), m.Read8(romStart+2*romMirrorSize+4))
}

func TestMapped(t *testing.T) {
	m := newTestGBA()
	assert.True(t, m.Mapped(biosStart))
	assert.True(t, m.Mapped(vramStart))
	assert.False(t, m.Mapped(0x01000000))
	assert.False(t, m.Mapped(0x0F000000))
}

func TestMisalignedReadIsUnrotated(t *testing.T) {
	m := newTestGBA()
	m.Write8(iwramStart, 0x11)
	m.Write8(iwramStart+1, 0x22)
	m.Write8(iwramStart+2, 0x33)
	m.Write8(iwramStart+3, 0x44)
	m.Write8(iwramStart+4, 0x55)
	got := m.Read32(iwramStart + 1)
	assert.Equal(t, uint32(0x55443322), got)
}
