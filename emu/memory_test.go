package emu_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("should read zero from untouched memory without allocating", func() {
		Expect(m.Read32(0x12345678)).To(BeZero())
		Expect(m.Read64(0xFFFFFFF8)).To(BeZero())
		Expect(m.NumPages()).To(BeZero())
	})

	It("should store words big-endian by default", func() {
		m.Write32(0x1000, 0x11223344)

		Expect(m.Read8(0x1000)).To(Equal(uint8(0x11)))
		Expect(m.Read8(0x1003)).To(Equal(uint8(0x44)))
		Expect(m.Read16(0x1002)).To(Equal(uint16(0x3344)))
		Expect(m.IsMapped(0x1FFF)).To(BeTrue())
		Expect(m.IsMapped(0x2000)).To(BeFalse())
	})

	It("should honor a little-endian byte order", func() {
		m = emu.NewMemoryWithOrder(binary.LittleEndian)
		m.Write32(0x1000, 0x11223344)

		Expect(m.Read8(0x1000)).To(Equal(uint8(0x44)))
		Expect(m.Read32(0x1000)).To(Equal(uint32(0x11223344)))
	})

	It("should handle accesses that cross a page boundary", func() {
		addr := uint32(emu.PageSize - 3)
		m.Write64(addr, 0x0102030405060708)

		Expect(m.Read64(addr)).To(Equal(uint64(0x0102030405060708)))
		Expect(m.Read32(addr + 2)).To(Equal(uint32(0x03040506)))
		Expect(m.NumPages()).To(Equal(2))
	})

	It("should copy byte ranges in and out", func() {
		data := make([]byte, 3*emu.PageSize)
		for i := range data {
			data[i] = byte(i)
		}
		m.LoadProgram(0x10010, data)

		out := make([]byte, len(data))
		m.ReadBytes(0x10010, out)
		Expect(out).To(Equal(data))
	})

	It("should zero ranges", func() {
		m.Write32(0x1000, 0xFFFFFFFF)
		m.Zero(0x1001, 2)
		Expect(m.Read32(0x1000)).To(Equal(uint32(0xFF0000FF)))
	})

	It("should read NUL-terminated strings", func() {
		m.WriteBytes(0x3000, []byte("hello\x00world"))
		Expect(m.ReadString(0x3000, 64)).To(Equal("hello"))
		Expect(m.ReadString(0x3000, 3)).To(Equal("hel"))
	})
})
