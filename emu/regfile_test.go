package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/emu"
	"github.com/sarchlab/ppcdbt/translator"
)

var _ = Describe("RegFile", func() {
	var r *emu.RegFile

	BeforeEach(func() {
		r = &emu.RegFile{}
	})

	It("should pack and unpack the condition register", func() {
		r.WriteCR(0x84210F00)

		Expect(r.CR[0]).To(Equal(emu.CRField{LT: true}))
		Expect(r.CR[1]).To(Equal(emu.CRField{GT: true}))
		Expect(r.CR[2]).To(Equal(emu.CRField{EQ: true}))
		Expect(r.CR[3]).To(Equal(emu.CRField{SO: true}))
		Expect(r.CR[5]).To(Equal(emu.CRField{LT: true, GT: true, EQ: true, SO: true}))
		Expect(r.ReadCR()).To(Equal(uint32(0x84210F00)))
	})

	It("should pack and unpack XER", func() {
		r.XER.SetValue(0xA0000042)

		Expect(r.XER.SO).To(BeTrue())
		Expect(r.XER.OV).To(BeFalse())
		Expect(r.XER.CA).To(BeTrue())
		Expect(r.XER.ByteCount).To(Equal(uint32(0x42)))
		Expect(r.XER.Value()).To(Equal(uint32(0xA0000042)))
	})

	It("should keep r1 as the stack pointer", func() {
		r.SetSP(0x7FFFFF00)
		Expect(r.ReadReg(1)).To(Equal(uint32(0x7FFFFF00)))
		Expect(r.SP()).To(Equal(uint32(0x7FFFFF00)))
	})

	Describe("State slots", func() {
		It("should expose general-purpose registers", func() {
			r.SetField(translator.FieldGPR(7), 0x1_DEADBEEF)
			Expect(r.GPR[7]).To(Equal(uint32(0xDEADBEEF)))
			Expect(r.Field(translator.FieldGPR(7))).To(Equal(uint64(0xDEADBEEF)))
		})

		It("should store floating-point registers as raw bits", func() {
			r.SetField(translator.FieldFPR(2), math.Float64bits(-1.5))
			Expect(r.FPR[2]).To(Equal(-1.5))
			Expect(r.Field(translator.FieldFPR(2))).To(Equal(math.Float64bits(-1.5)))
		})

		It("should map condition bits onto their fields", func() {
			r.SetField(translator.FieldCRGt(3), 1)
			r.SetField(translator.FieldCRB(31), 1)

			Expect(r.CR[3].GT).To(BeTrue())
			Expect(r.CR[7].SO).To(BeTrue())
			Expect(r.Field(translator.FieldCREq(3))).To(BeZero())
			Expect(r.Field(translator.FieldCRGt(3))).To(Equal(uint64(1)))
		})

		It("should expose the split XER and special registers", func() {
			r.SetField(translator.FieldXERCA, 1)
			r.SetField(translator.FieldXERByteCount, 0x1FF)
			r.SetField(translator.FieldCTR, 10)
			r.SetField(translator.FieldLR, 0x1234)
			r.SetField(translator.FieldFPSCR, 0x80000000)

			Expect(r.XER.Value()).To(Equal(uint32(0x2000007F)))
			Expect(r.CTR).To(Equal(uint32(10)))
			Expect(r.LR).To(Equal(uint32(0x1234)))
			Expect(r.Field(translator.FieldFPSCR)).To(Equal(uint64(0x80000000)))
		})

		It("should split the time base into halves", func() {
			r.TB = 0x00000001_FFFFFFFF
			Expect(r.Field(translator.FieldTBL)).To(Equal(uint64(0xFFFFFFFF)))
			Expect(r.Field(translator.FieldTBU)).To(Equal(uint64(1)))

			r.SetField(translator.FieldTBU, 2)
			Expect(r.TB).To(Equal(uint64(0x00000002_FFFFFFFF)))
		})
	})
})
