package benchmarks_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/benchmarks"
	"github.com/sarchlab/ppcdbt/insts"
)

var _ = Describe("Encoders", func() {
	DescribeTable("should produce the assembler's encoding",
		func(word, expected uint32) {
			Expect(word).To(Equal(expected))
		},
		Entry("li r3,5", benchmarks.EncodeLI(3, 5), uint32(0x38600005)),
		Entry("addi r3,r3,-1", benchmarks.EncodeADDI(3, 3, -1), uint32(0x3863FFFF)),
		Entry("lis r4,2", benchmarks.EncodeLIS(4, 2), uint32(0x3C800002)),
		Entry("add r4,r4,r3", benchmarks.EncodeADD(4, 4, 3), uint32(0x7C841A14)),
		Entry("cmpwi r3,0", benchmarks.EncodeCMPWI(0, 3, 0), uint32(0x2C030000)),
		Entry("bne -12", benchmarks.EncodeBNE(-12), uint32(0x4082FFF4)),
		Entry("mr r3,r4", benchmarks.EncodeMR(3, 4), uint32(0x7C832378)),
		Entry("mtctr r0", benchmarks.EncodeMTCTR(0), uint32(0x7C0903A6)),
		Entry("mflr r0", benchmarks.EncodeMFLR(0), uint32(0x7C0802A6)),
		Entry("mtlr r0", benchmarks.EncodeMTLR(0), uint32(0x7C0803A6)),
		Entry("blr", benchmarks.EncodeBLR(), uint32(0x4E800020)),
		Entry("bctrl", benchmarks.EncodeBCTRL(), uint32(0x4E800421)),
		Entry("sc", benchmarks.EncodeSC(), uint32(0x44000002)),
		Entry("stwu r1,-16(r1)", benchmarks.EncodeSTWU(1, 1, -16), uint32(0x9421FFF0)),
		Entry("bl +16", benchmarks.EncodeBL(16), uint32(0x48000011)),
	)

	DescribeTable("should decode to the intended operation",
		func(word uint32, op insts.Op) {
			Expect(insts.NewDecoder().Decode(word).Op).To(Equal(op))
		},
		Entry("subf", benchmarks.EncodeSUBF(3, 4, 5), insts.OpSUBF),
		Entry("mullw", benchmarks.EncodeMULLW(3, 4, 5), insts.OpMULLW),
		Entry("cmpw", benchmarks.EncodeCMPW(1, 4, 5), insts.OpCMP),
		Entry("ori", benchmarks.EncodeORI(4, 4, 0xF0F0), insts.OpORI),
		Entry("rlwinm", benchmarks.EncodeRLWINM(6, 4, 0, 31, 31), insts.OpRLWINM),
		Entry("bgt", benchmarks.EncodeBGT(8), insts.OpBC),
		Entry("bdnz", benchmarks.EncodeBDNZ(-8), insts.OpBC),
		Entry("bctr", benchmarks.EncodeBCTR(), insts.OpBCCTR),
		Entry("lwz", benchmarks.EncodeLWZ(3, 9, 0), insts.OpLWZ),
		Entry("lwzu", benchmarks.EncodeLWZU(6, 9, 4), insts.OpLWZU),
		Entry("stw", benchmarks.EncodeSTW(3, 1, 8), insts.OpSTW),
		Entry("lfd", benchmarks.EncodeLFD(1, 9, 0), insts.OpLFD),
		Entry("stfd", benchmarks.EncodeSTFD(1, 9, 0), insts.OpSTFD),
		Entry("fadd", benchmarks.EncodeFADD(4, 4, 3), insts.OpFADD),
		Entry("fmul", benchmarks.EncodeFMUL(4, 1, 2), insts.OpFMUL),
		Entry("fctiwz", benchmarks.EncodeFCTIWZ(5, 4), insts.OpFCTIWZ),
		Entry("stfiwx", benchmarks.EncodeSTFIWX(5, 0, 9), insts.OpSTFIWX),
	)

	It("should lay out words in the requested byte order", func() {
		Expect(benchmarks.BuildProgram(binary.BigEndian, 0x38600005)).
			To(Equal([]byte{0x38, 0x60, 0x00, 0x05}))
		Expect(benchmarks.BuildProgram(binary.LittleEndian, 0x38600005)).
			To(Equal([]byte{0x05, 0x00, 0x60, 0x38}))
	})
})
