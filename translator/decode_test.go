package translator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/translator"
)

var _ = Describe("Instruction translation", func() {
	var g *guest

	BeforeEach(func() {
		g = newGuest()
	})

	Describe("register usage", func() {
		var c *translator.Context

		translate := func(word uint32) int64 {
			g.code(codeBase, word)
			c = translator.NewContext(translator.New(g, nil), codeBase)
			return translator.TranslateInstruction(c, g, translator.InitialLaziness(), codeBase)
		}

		It("should not read r0 as the base of addi", func() {
			next := translate(0x38600064) // li r3,100

			Expect(next).To(Equal(int64(codeBase + 4)))
			Expect(c.InUse(translator.FieldGPR(0))).To(BeFalse())
			Expect(c.InUse(translator.FieldGPR(3))).To(BeTrue())
		})

		It("should emit nothing for ori r1,r1,0", func() {
			next := translate(0x60210000)

			Expect(next).To(Equal(int64(codeBase + 4)))
			Expect(c.CurrentBlock().Len()).To(BeZero())
			Expect(c.InUse(translator.FieldGPR(1))).To(BeFalse())
		})

		It("should not test CTR or CR for a branch-always bc", func() {
			next := translate(0x42800008) // bc 20,0,+8

			Expect(next).To(Equal(translator.EndOfTrace))
			Expect(c.CurrentBlock().Terminated()).To(BeTrue())
			Expect(c.InUse(translator.FieldCTR)).To(BeFalse())
			for crb := uint32(0); crb < 32; crb++ {
				Expect(c.InUse(translator.FieldCRB(crb))).To(BeFalse())
			}
		})

		It("should decrement CTR for bdnz", func() {
			next := translate(0x4200FFFC) // bdnz .-4

			Expect(next).To(Equal(int64(codeBase + 4)))
			Expect(c.InUse(translator.FieldCTR)).To(BeTrue())
		})
	})

	Describe("compares", func() {
		values := []int32{-1, 0, math.MinInt32, math.MaxInt32}

		It("should set exactly one of lt, gt and eq for cmpw", func() {
			for _, a := range values {
				for _, b := range values {
					g.setGPR(3, uint32(a))
					g.setGPR(4, uint32(b))
					g.step(0x7C032000) // cmpw r3,r4

					cr := g.crField(0)
					Expect(cr[0]).To(Equal(a < b), "%d < %d", a, b)
					Expect(cr[1]).To(Equal(a > b), "%d > %d", a, b)
					Expect(cr[2]).To(Equal(a == b), "%d == %d", a, b)
				}
			}
		})

		It("should compare unsigned for cmplw", func() {
			for _, a := range values {
				for _, b := range values {
					g.setGPR(3, uint32(a))
					g.setGPR(4, uint32(b))
					g.step(0x7C032040) // cmplw r3,r4

					cr := g.crField(0)
					Expect(cr[0]).To(Equal(uint32(a) < uint32(b)))
					Expect(cr[1]).To(Equal(uint32(a) > uint32(b)))
					Expect(cr[2]).To(Equal(a == b))
				}
			}
		})

		It("should copy XER[SO] into the compared field", func() {
			g.setFlag(translator.FieldXERSO, true)
			g.step(0x2C030000) // cmpwi r3,0

			Expect(g.crField(0)).To(Equal([4]bool{false, false, true, true}))
		})

		It("should set CR0 from the result of a record form", func() {
			for _, c := range []struct {
				a, b uint32
				want [4]bool
			}{
				{1, 2, [4]bool{false, true, false, false}},
				{1, 0xFFFFFFFF, [4]bool{false, false, true, false}},
				{0x80000000, 1, [4]bool{true, false, false, false}},
			} {
				g.setGPR(3, c.a)
				g.setGPR(4, c.b)
				g.step(0x7CA32215) // add. r5,r3,r4

				Expect(g.gpr(5)).To(Equal(c.a + c.b))
				Expect(g.crField(0)).To(Equal(c.want))
			}
		})
	})

	Describe("carry and overflow", func() {
		It("should set CA on an unsigned wrap of addc", func() {
			g.setGPR(3, 0xFFFFFFFF)
			g.setGPR(4, 1)
			g.step(0x7CA32014) // addc r5,r3,r4
			Expect(g.gpr(5)).To(BeZero())
			Expect(g.flag(translator.FieldXERCA)).To(BeTrue())

			g.setGPR(3, 1)
			g.step(0x7CA32014)
			Expect(g.gpr(5)).To(Equal(uint32(2)))
			Expect(g.flag(translator.FieldXERCA)).To(BeFalse())
		})

		It("should set CA when subfc does not borrow", func() {
			g.setGPR(3, 1)
			g.setGPR(4, 5)
			g.step(0x7CA32010) // subfc r5,r3,r4
			Expect(g.gpr(5)).To(Equal(uint32(4)))
			Expect(g.flag(translator.FieldXERCA)).To(BeTrue())

			g.setGPR(3, 5)
			g.setGPR(4, 1)
			g.step(0x7CA32010)
			Expect(g.gpr(5)).To(Equal(uint32(0xFFFFFFFC)))
			Expect(g.flag(translator.FieldXERCA)).To(BeFalse())
		})

		It("should add the carry in adde", func() {
			g.setGPR(7, 0xFFFFFFFF)
			g.setGPR(8, 0)
			g.setFlag(translator.FieldXERCA, true)
			g.step(0x7CC74114) // adde r6,r7,r8

			Expect(g.gpr(6)).To(BeZero())
			Expect(g.flag(translator.FieldXERCA)).To(BeTrue())
		})

		It("should flag division by zero in divwo", func() {
			g.setGPR(3, 7)
			g.setGPR(4, 0)
			g.step(0x7CA327D6) // divwo r5,r3,r4

			Expect(g.gpr(5)).To(BeZero())
			Expect(g.flag(translator.FieldXEROV)).To(BeTrue())
			Expect(g.flag(translator.FieldXERSO)).To(BeTrue())
		})
	})

	Describe("logic and rotates", func() {
		DescribeTable("cntlzw",
			func(v, want uint32) {
				g.setGPR(3, v)
				g.step(0x7C640034) // cntlzw r4,r3
				Expect(g.gpr(4)).To(Equal(want))
			},
			Entry("zero", uint32(0), uint32(32)),
			Entry("one", uint32(1), uint32(31)),
			Entry("top bit", uint32(0x80000000), uint32(0)),
			Entry("bit 16", uint32(0x00010000), uint32(15)),
			Entry("all ones", uint32(0xFFFFFFFF), uint32(0)),
		)

		It("should extract a byte with rlwinm", func() {
			g.setGPR(3, 0x12345678)
			g.step(0x5464463E) // rlwinm r4,r3,8,24,31
			Expect(g.gpr(4)).To(Equal(uint32(0x12)))
		})

		It("should insert under a wrapping mask with rlwimi", func() {
			g.setGPR(3, 0x12345678)
			g.setGPR(4, 0xAAAAAAAA)
			g.step(0x50644706) // rlwimi r4,r3,8,28,3
			Expect(g.gpr(4)).To(Equal(uint32(0x3AAAAAA2)))
		})

		It("should take the rlwnm rotation from the low bits of rB", func() {
			g.setGPR(3, 0x80000001)
			g.setGPR(5, 33)
			g.step(0x5C64283E) // rlwnm r4,r3,r5,0,31
			Expect(g.gpr(4)).To(Equal(uint32(3)))

			g.setGPR(3, 0x12345678)
			g.setGPR(5, 36)
			g.step(0x5C642E3E) // rlwnm r4,r3,r5,24,31
			Expect(g.gpr(4)).To(Equal(uint32(0x81)))
		})

		It("should clear the result of slw for shifts past 31", func() {
			g.setGPR(3, 0xFFFFFFFF)
			g.setGPR(5, 32)
			g.step(0x7C642830) // slw r4,r3,r5
			Expect(g.gpr(4)).To(BeZero())

			g.setGPR(5, 4)
			g.step(0x7C642830)
			Expect(g.gpr(4)).To(Equal(uint32(0xFFFFFFF0)))
		})

		It("should set CA when srawi shifts out ones of a negative value", func() {
			g.setGPR(3, 0xFFFFFFF1)
			g.step(0x7C642670) // srawi r4,r3,4
			Expect(g.gpr(4)).To(Equal(uint32(0xFFFFFFFF)))
			Expect(g.flag(translator.FieldXERCA)).To(BeTrue())

			g.setGPR(3, 0xFFFFFFF0)
			g.step(0x7C642670)
			Expect(g.flag(translator.FieldXERCA)).To(BeFalse())
		})

		It("should sign extend a byte", func() {
			g.setGPR(3, 0x1234_5680)
			g.step(0x7C640774) // extsb r4,r3
			Expect(g.gpr(4)).To(Equal(uint32(0xFFFFFF80)))
		})
	})

	Describe("condition register", func() {
		It("should combine bits with cror", func() {
			g.setFlag(translator.FieldCRGt(0), true)
			g.step(0x4C400B82) // cror 2,0,1
			Expect(g.flag(translator.FieldCREq(0))).To(BeTrue())
		})

		It("should fold crxor and creqv of one bit into constants", func() {
			g.setFlag(translator.FieldCRGt(1), true)
			g.setFlag(translator.FieldCREq(1), false)
			g.step(
				0x4CA52982, // crxor 5,5,5
				0x4CC63242, // creqv 6,6,6
			)

			Expect(g.flag(translator.FieldCRGt(1))).To(BeFalse())
			Expect(g.flag(translator.FieldCREq(1))).To(BeTrue())
		})

		It("should combine bits of different fields with crandc", func() {
			g.setFlag(translator.FieldCREq(0), true)
			g.step(0x4DA24902) // crandc 13,2,9
			Expect(g.flag(translator.FieldCRGt(3))).To(BeTrue())

			g.setFlag(translator.FieldCRGt(2), true)
			g.step(0x4DA24902)
			Expect(g.flag(translator.FieldCRGt(3))).To(BeFalse())
		})

		It("should complement the union with crnor", func() {
			g.step(0x4C044042) // crnor 0,4,8
			Expect(g.flag(translator.FieldCRLt(0))).To(BeTrue())

			g.setFlag(translator.FieldCRLt(2), true)
			g.step(0x4C044042)
			Expect(g.flag(translator.FieldCRLt(0))).To(BeFalse())
		})

		It("should move the whole register through a GPR", func() {
			g.setGPR(3, 0x8421_0F00)
			g.step(
				0x7C6FF120, // mtcrf 0xff,r3
				0x7C600026, // mfcr r3
			)

			Expect(g.crField(0)).To(Equal([4]bool{true, false, false, false}))
			Expect(g.crField(1)).To(Equal([4]bool{false, true, false, false}))
			Expect(g.crField(5)).To(Equal([4]bool{true, true, true, true}))
			Expect(g.gpr(3)).To(Equal(uint32(0x8421_0F00)))
		})
	})

	Describe("special purpose registers", func() {
		It("should keep LR and CTR apart", func() {
			g.setGPR(3, 0x1234)
			g.setGPR(5, 0x5678)
			g.step(
				0x7C6803A6, // mtlr r3
				0x7CA903A6, // mtctr r5
				0x7CC802A6, // mflr r6
				0x7CE902A6, // mfctr r7
			)

			Expect(g.fields[translator.FieldLR]).To(Equal(uint64(0x1234)))
			Expect(g.fields[translator.FieldCTR]).To(Equal(uint64(0x5678)))
			Expect(g.gpr(6)).To(Equal(uint32(0x1234)))
			Expect(g.gpr(7)).To(Equal(uint32(0x5678)))
		})

		It("should split and reassemble XER", func() {
			g.setGPR(3, 0xA000_0042)
			g.step(
				0x7C6103A6, // mtxer r3
				0x7C8102A6, // mfxer r4
			)

			Expect(g.flag(translator.FieldXERSO)).To(BeTrue())
			Expect(g.flag(translator.FieldXEROV)).To(BeFalse())
			Expect(g.flag(translator.FieldXERCA)).To(BeTrue())
			Expect(g.fields[translator.FieldXERByteCount]).To(Equal(uint64(0x42)))
			Expect(g.gpr(4)).To(Equal(uint32(0xA000_0042)))
		})

		It("should read the time base", func() {
			g.fields[translator.FieldTBL] = 0xCAFE
			g.step(0x7C6C42E6) // mftb r3
			Expect(g.gpr(3)).To(Equal(uint32(0xCAFE)))
		})
	})

	Describe("memory", func() {
		It("should store and load a word", func() {
			g.setGPR(1, 0x8000)
			g.setGPR(3, 0xDEADBEEF)
			g.step(
				0x90610008, // stw r3,8(r1)
				0x80810008, // lwz r4,8(r1)
			)

			Expect(g.Read32(0x8008)).To(Equal(uint32(0xDEADBEEF)))
			Expect(g.gpr(4)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should write the address back for lwzu", func() {
			g.setGPR(1, 0x8000)
			g.Write32(0x8008, 77)
			g.step(0x84810008) // lwzu r4,8(r1)

			Expect(g.gpr(4)).To(Equal(uint32(77)))
			Expect(g.gpr(1)).To(Equal(uint32(0x8008)))
		})

		It("should pick sub-word operands out of the aligned word", func() {
			g.code(0x3000, 0x11228001)
			g.setGPR(5, 0x3000)

			g.setGPR(6, 1)
			g.step(0x7C8530AE) // lbzx r4,r5,r6
			Expect(g.gpr(4)).To(Equal(uint32(0x22)))

			g.setGPR(6, 2)
			g.step(0x7C8532AE) // lhax r4,r5,r6
			Expect(g.gpr(4)).To(Equal(uint32(0xFFFF8001)))
		})

		It("should load halfwords at odd offsets with lhzx and lhax", func() {
			g.code(0x3000, 0x112233C4, 0x88000000)
			g.setGPR(5, 0x3000)

			g.setGPR(6, 1)
			g.step(0x7C85322E) // lhzx r4,r5,r6
			Expect(g.gpr(4)).To(Equal(uint32(0x2233)))

			g.setGPR(6, 3)
			g.step(0x7C85322E)
			Expect(g.gpr(4)).To(Equal(uint32(0xC488)))

			g.step(0x7C8532AE) // lhax r4,r5,r6
			Expect(g.gpr(4)).To(Equal(uint32(0xFFFFC488)))
		})

		It("should match a direct halfword read at every offset", func() {
			g.code(0x3000, 0x11223344, 0x55667788)
			g.setGPR(5, 0x3000)

			for off := uint32(0); off < 4; off++ {
				g.setGPR(6, off)
				g.step(0x7C85322E) // lhzx r4,r5,r6
				Expect(g.gpr(4)).To(Equal(uint32(g.Read16(0x3000+off))), "offset %d", off)
			}
		})

		Context("on a little-endian guest", func() {
			BeforeEach(func() {
				g = newLittleEndianGuest()
				g.code(0x3000, 0x80013344, 0x000000FF)
				g.setGPR(5, 0x3000)
			})

			It("should pick bytes from the low end of the word", func() {
				g.setGPR(6, 1)
				g.step(0x7C8530AE) // lbzx r4,r5,r6
				Expect(g.gpr(4)).To(Equal(uint32(0x33)))

				g.setGPR(6, 3)
				g.step(0x7C8530AE)
				Expect(g.gpr(4)).To(Equal(uint32(0x80)))
			})

			It("should pick halfwords from the low end of the word", func() {
				g.setGPR(6, 1)
				g.step(0x7C85322E) // lhzx r4,r5,r6
				Expect(g.gpr(4)).To(Equal(uint32(0x0133)))

				g.setGPR(6, 2)
				g.step(0x7C8532AE) // lhax r4,r5,r6
				Expect(g.gpr(4)).To(Equal(uint32(0xFFFF8001)))

				g.setGPR(6, 3)
				g.step(0x7C85322E)
				Expect(g.gpr(4)).To(Equal(uint32(0xFF80)))
			})
		})

		It("should reverse bytes for lwbrx", func() {
			g.code(0x3000, 0x11223344)
			g.setGPR(5, 0x3000)
			g.step(0x7C85342C) // lwbrx r4,r5,r6
			Expect(g.gpr(4)).To(Equal(uint32(0x44332211)))
		})

		It("should always succeed at stwcx.", func() {
			g.setGPR(4, 0x3000)
			g.setGPR(6, 9)
			g.step(0x7CC4292D) // stwcx. r6,r4,r5

			Expect(g.Read32(0x3000)).To(Equal(uint32(9)))
			Expect(g.crField(0)).To(Equal([4]bool{false, false, true, false}))
		})
	})

	Describe("floating point", func() {
		BeforeEach(func() {
			g.setGPR(3, 0x9000)
			g.Write64(0x9000, math.Float64bits(1.25))
			g.Write64(0x9008, math.Float64bits(2.25))
		})

		It("should load, add and store doubles", func() {
			g.step(
				0xC8230000, // lfd f1,0(r3)
				0xC8430008, // lfd f2,8(r3)
				0xFC61102A, // fadd f3,f1,f2
				0xD8630010, // stfd f3,16(r3)
			)

			Expect(g.fpr(3)).To(Equal(3.5))
			Expect(math.Float64frombits(g.Read64(0x9010))).To(Equal(3.5))
		})

		It("should fuse multiply and add", func() {
			g.setFPR(1, 2)
			g.setFPR(2, 1)
			g.setFPR(4, 3)
			g.step(0xFC61113A) // fmadd f3,f1,f4,f2
			Expect(g.fpr(3)).To(Equal(7.0))
		})

		It("should round single precision arithmetic", func() {
			g.setFPR(1, 1)
			g.setFPR(2, 1e-10)
			g.step(0xEC61102A) // fadds f3,f1,f2
			Expect(g.fpr(3)).To(Equal(1.0))
		})

		It("should order doubles with fcmpu", func() {
			g.setFPR(1, 1)
			g.setFPR(2, 2)
			g.step(0xFC811000) // fcmpu cr1,f1,f2
			Expect(g.crField(1)).To(Equal([4]bool{true, false, false, false}))

			g.setFPR(2, math.NaN())
			g.step(0xFC811000)
			Expect(g.crField(1)).To(Equal([4]bool{false, false, false, true}))
		})

		It("should convert toward zero with fctiwz", func() {
			g.setFPR(1, -3.7)
			g.step(0xFC80081E) // fctiwz f4,f1
			Expect(uint32(g.fields[translator.FieldFPR(4)])).To(Equal(uint32(0xFFFFFFFD)))
		})
	})
})
