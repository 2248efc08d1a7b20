// Package memory implements the GBA-shaped flat address space the CPU core
// reads and writes: byte/halfword/word access with little-endian multi-byte
// composition, and read-zero/write-discard behavior for any address outside
// a mapped region.
package memory

// Region boundaries, per the GBA memory map. Each pair is [start, end]
// inclusive.
const (
	biosStart, biosEnd       = 0x00000000, 0x00003FFF
	ewramStart, ewramEnd     = 0x02000000, 0x0203FFFF
	iwramStart, iwramEnd     = 0x03000000, 0x03007FFF
	ioStart, ioEnd           = 0x04000000, 0x040003FE
	paletteStart, paletteEnd = 0x05000000, 0x050003FF
	vramStart, vramEnd       = 0x06000000, 0x06017FFF
	oamStart, oamEnd         = 0x07000000, 0x070003FF
	romStart, romEnd         = 0x08000000, 0x0DFFFFFF
	sramStart, sramEnd       = 0x0E000000, 0x0E00FFFF
)

// romMirrorSize is the size of a single ROM mirror; the three mirrors in
// 0x08000000..0x0DFFFFFF repeat the same underlying cartridge image.
const romMirrorSize = 0x02000000

// View is the memory-access surface the CPU depends on. A caller MAY supply
// any implementation (for example, one backed by a sparse region table); GBA
// backs it with a dense, region-sliced buffer.
type View interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
	// Mapped reports whether addr falls within a backed region, letting a
	// caller detect execution falling off the mapped address space without
	// treating that as an ordinary read-zero.
	Mapped(addr uint32) bool
}

// GBA is a dense, region-sliced backing for the GBA address map. Unmapped
// addresses read as zero and discard writes.
type GBA struct {
	bios  []byte
	ewram []byte
	iwram []byte
	io    []byte
	pal   []byte
	vram  []byte
	oam   []byte
	rom   []byte
	sram  []byte
}

// New constructs a GBA memory view. bios and rom are copied by reference
// (the caller owns and may mutate the slices before construction, but not
// concurrently with CPU execution); the internal RAM/IO/palette/VRAM/OAM/SRAM
// regions are zero-initialized and sized to the GBA map.
func New(bios, rom []byte) *GBA {
	return &GBA{
		bios:  bios,
		ewram: make([]byte, ewramEnd-ewramStart+1),
		iwram: make([]byte, iwramEnd-iwramStart+1),
		io:    make([]byte, ioEnd-ioStart+1),
		pal:   make([]byte, paletteEnd-paletteStart+1),
		vram:  make([]byte, vramEnd-vramStart+1),
		oam:   make([]byte, oamEnd-oamStart+1),
		rom:   rom,
		sram:  make([]byte, sramEnd-sramStart+1),
	}
}

// region locates the byte slice and offset backing addr, or reports ok=false
// if addr falls outside every mapped region.
func (m *GBA) region(addr uint32) (region []byte, offset uint32, ok bool) {
	switch {
	case addr >= biosStart && addr <= biosEnd:
		return m.bios, addr - biosStart, true
	case addr >= ewramStart && addr <= ewramEnd:
		return m.ewram, addr - ewramStart, true
	case addr >= iwramStart && addr <= iwramEnd:
		return m.iwram, addr - iwramStart, true
	case addr >= ioStart && addr <= ioEnd:
		return m.io, addr - ioStart, true
	case addr >= paletteStart && addr <= paletteEnd:
		return m.pal, addr - paletteStart, true
	case addr >= vramStart && addr <= vramEnd:
		return m.vram, addr - vramStart, true
	case addr >= oamStart && addr <= oamEnd:
		return m.oam, addr - oamStart, true
	case addr >= romStart && addr <= romEnd:
		mirrored := (addr - romStart) % romMirrorSize
		return m.rom, mirrored, true
	case addr >= sramStart && addr <= sramEnd:
		return m.sram, addr - sramStart, true
	default:
		return nil, 0, false
	}
}

// Mapped reports whether addr falls within a region GBA backs.
func (m *GBA) Mapped(addr uint32) bool {
	region, off, ok := m.region(addr)
	return ok && int(off) < len(region)
}

// Read8 reads one byte, yielding 0 for an unmapped address.
func (m *GBA) Read8(addr uint32) uint8 {
	region, off, ok := m.region(addr)
	if !ok || int(off) >= len(region) {
		return 0
	}
	return region[off]
}

// Write8 writes one byte, silently discarding the write for an unmapped
// address.
func (m *GBA) Write8(addr uint32, v uint8) {
	region, off, ok := m.region(addr)
	if !ok || int(off) >= len(region) {
		return
	}
	region[off] = v
}

// Read16 reads a little-endian halfword. Addresses are not forced aligned:
// the bytes at addr and addr+1 are read and composed little-endian.
func (m *GBA) Read16(addr uint32) uint16 {
	lo := m.Read8(addr)
	hi := m.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// Write16 writes a little-endian halfword.
func (m *GBA) Write16(addr uint32, v uint16) {
	m.Write8(addr, uint8(v))
	m.Write8(addr+1, uint8(v>>8))
}

// Read32 reads a little-endian word. Misaligned reads deliberately return
// the unrotated little-endian bytes at the given address rather than
// emulating ARMv4's rotated misaligned-load behavior.
func (m *GBA) Read32(addr uint32) uint32 {
	b0 := uint32(m.Read8(addr))
	b1 := uint32(m.Read8(addr + 1))
	b2 := uint32(m.Read8(addr + 2))
	b3 := uint32(m.Read8(addr + 3))
	return b0 | b1<<8 | b2<<16 | b3<<24
}

// Write32 writes a little-endian word.
func (m *GBA) Write32(addr uint32, v uint32) {
	m.Write8(addr, uint8(v))
	m.Write8(addr+1, uint8(v>>8))
	m.Write8(addr+2, uint8(v>>16))
	m.Write8(addr+3, uint8(v>>24))
}
