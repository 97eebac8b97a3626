package emu

import (
	"encoding/binary"
)

// Page geometry of guest memory.
const (
	PageShift = 12
	PageSize  = 1 << PageShift
	pageMask  = PageSize - 1
)

type page [PageSize]byte

// Memory is a sparse 32-bit guest address space. Pages are allocated on
// first write; reads from unallocated pages return zero. Multi-byte
// accesses use the guest byte order.
type Memory struct {
	pages map[uint32]*page
	order binary.ByteOrder
}

// NewMemory creates an empty big-endian memory.
func NewMemory() *Memory {
	return NewMemoryWithOrder(binary.BigEndian)
}

// NewMemoryWithOrder creates an empty memory with the given byte order.
func NewMemoryWithOrder(order binary.ByteOrder) *Memory {
	return &Memory{
		pages: make(map[uint32]*page),
		order: order,
	}
}

// ByteOrder returns the guest byte order.
func (m *Memory) ByteOrder() binary.ByteOrder {
	return m.order
}

// NumPages returns the number of allocated pages.
func (m *Memory) NumPages() int {
	return len(m.pages)
}

// IsMapped reports whether the page holding addr has been allocated.
func (m *Memory) IsMapped(addr uint32) bool {
	_, ok := m.pages[addr>>PageShift]
	return ok
}

func (m *Memory) pageFor(addr uint32) *page {
	n := addr >> PageShift
	p, ok := m.pages[n]
	if !ok {
		p = new(page)
		m.pages[n] = p
	}
	return p
}

// span returns the n bytes at addr when they lie in one allocated page.
// ok is false when they cross a page boundary; a nil slice with ok set
// means the page is unallocated.
func (m *Memory) span(addr uint32, n uint32) (b []byte, ok bool) {
	off := addr & pageMask
	if off+n > PageSize {
		return nil, false
	}
	p, mapped := m.pages[addr>>PageShift]
	if !mapped {
		return nil, true
	}
	return p[off : off+n], true
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) uint8 {
	if p, ok := m.pages[addr>>PageShift]; ok {
		return p[addr&pageMask]
	}
	return 0
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, v uint8) {
	m.pageFor(addr)[addr&pageMask] = v
}

// Read16 reads a halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	if b, ok := m.span(addr, 2); ok {
		if b == nil {
			return 0
		}
		return m.order.Uint16(b)
	}
	var buf [2]byte
	m.ReadBytes(addr, buf[:])
	return m.order.Uint16(buf[:])
}

// Read32 reads a word.
func (m *Memory) Read32(addr uint32) uint32 {
	if b, ok := m.span(addr, 4); ok {
		if b == nil {
			return 0
		}
		return m.order.Uint32(b)
	}
	var buf [4]byte
	m.ReadBytes(addr, buf[:])
	return m.order.Uint32(buf[:])
}

// Read64 reads a doubleword.
func (m *Memory) Read64(addr uint32) uint64 {
	if b, ok := m.span(addr, 8); ok {
		if b == nil {
			return 0
		}
		return m.order.Uint64(b)
	}
	var buf [8]byte
	m.ReadBytes(addr, buf[:])
	return m.order.Uint64(buf[:])
}

// Write16 writes a halfword.
func (m *Memory) Write16(addr uint32, v uint16) {
	var buf [2]byte
	m.order.PutUint16(buf[:], v)
	m.WriteBytes(addr, buf[:])
}

// Write32 writes a word.
func (m *Memory) Write32(addr uint32, v uint32) {
	var buf [4]byte
	m.order.PutUint32(buf[:], v)
	m.WriteBytes(addr, buf[:])
}

// Write64 writes a doubleword.
func (m *Memory) Write64(addr uint32, v uint64) {
	var buf [8]byte
	m.order.PutUint64(buf[:], v)
	m.WriteBytes(addr, buf[:])
}

// ReadBytes fills buf from memory starting at addr. Addresses wrap at
// 4 GiB.
func (m *Memory) ReadBytes(addr uint32, buf []byte) {
	for len(buf) > 0 {
		off := addr & pageMask
		n := min(uint32(len(buf)), PageSize-off)
		if p, ok := m.pages[addr>>PageShift]; ok {
			copy(buf[:n], p[off:off+n])
		} else {
			clear(buf[:n])
		}
		buf = buf[n:]
		addr += n
	}
}

// WriteBytes copies data into memory starting at addr.
func (m *Memory) WriteBytes(addr uint32, data []byte) {
	for len(data) > 0 {
		off := addr & pageMask
		n := min(uint32(len(data)), PageSize-off)
		copy(m.pageFor(addr)[off:off+n], data[:n])
		data = data[n:]
		addr += n
	}
}

// Zero clears n bytes starting at addr, allocating the pages.
func (m *Memory) Zero(addr, n uint32) {
	for n > 0 {
		off := addr & pageMask
		k := min(n, PageSize-off)
		clear(m.pageFor(addr)[off : off+k])
		n -= k
		addr += k
	}
}

// ReadString reads a NUL-terminated string of at most max bytes.
func (m *Memory) ReadString(addr uint32, max int) string {
	var s []byte
	for len(s) < max {
		b := m.Read8(addr)
		if b == 0 {
			break
		}
		s = append(s, b)
		addr++
	}
	return string(s)
}

// LoadProgram copies a program image to addr.
func (m *Memory) LoadProgram(addr uint32, program []byte) {
	m.WriteBytes(addr, program)
}
