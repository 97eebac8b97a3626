package insts_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/insts"
)

// bitsSlow reads bits n..m one at a time, bit 0 being the MSB.
func bitsSlow(w uint32, n, m uint) uint32 {
	var v uint32
	for i := n; i <= m; i++ {
		v = v<<1 | (w>>(31-i))&1
	}
	return v
}

var _ = Describe("Bits", func() {
	It("should extract the primary opcode", func() {
		Expect(insts.Bits(0x38600064, 0, 5)).To(Equal(uint32(14)))
		Expect(insts.Bits(0x7C642A14, 0, 5)).To(Equal(uint32(31)))
	})

	It("should return the whole word for 0..31", func() {
		for _, w := range []uint32{0, 1, 0x80000000, 0xFFFFFFFF, 0xDEADBEEF} {
			Expect(insts.Bits(w, 0, 31)).To(Equal(w))
		}
	})

	It("should extract single bits", func() {
		Expect(insts.Bits(0x80000000, 0, 0)).To(Equal(uint32(1)))
		Expect(insts.Bits(0x00000001, 31, 31)).To(Equal(uint32(1)))
		Expect(insts.Bits(0x00000001, 30, 30)).To(Equal(uint32(0)))
	})

	It("should match a bit-by-bit reading for random words and ranges", func() {
		r := rand.New(rand.NewSource(42))
		for i := 0; i < 2000; i++ {
			w := r.Uint32()
			n := uint(r.Intn(32))
			m := n + uint(r.Intn(32-int(n)))
			Expect(insts.Bits(w, n, m)).To(Equal(bitsSlow(w, n, m)),
				"word 0x%08x bits %d..%d", w, n, m)
		}
	})

	Describe("SignExtend", func() {
		It("should sign extend 16-bit immediates", func() {
			Expect(insts.SignExtend(0xFFFF, 16)).To(Equal(int32(-1)))
			Expect(insts.SignExtend(0x7FFF, 16)).To(Equal(int32(0x7FFF)))
			Expect(insts.SignExtend(0x8000, 16)).To(Equal(int32(-32768)))
		})

		It("should leave 32-bit values unchanged", func() {
			Expect(insts.SignExtend(0x80000000, 32)).To(Equal(int32(-0x80000000)))
		})
	})
})
