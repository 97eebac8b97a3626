package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/insts"
)

var _ = Describe("Opcode table", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should resolve every entry from its own encoding", func() {
		for _, e := range insts.Entries() {
			e := e
			found, err := decoder.FindEntry(e.Word())
			Expect(err).NotTo(HaveOccurred(), e.Mnemonic())
			Expect(found.Op).To(Equal(e.Op), e.Mnemonic())
			Expect(found.Form).To(Equal(e.Form), e.Mnemonic())
		}
	})

	It("should give every operation a mnemonic and an entry", func() {
		for op := insts.OpUnknown + 1; op < insts.NumOps; op++ {
			Expect(op.String()).NotTo(Equal("unknown"))
			Expect(insts.EntryFor(op)).NotTo(BeNil(), op.String())
		}
	})

	It("should mark the extended primary opcodes", func() {
		for _, p := range []uint32{19, 31, 59, 63} {
			Expect(insts.PrimaryForm(p)).To(Equal(insts.FormExtended))
		}
		Expect(insts.PrimaryForm(14)).To(Equal(insts.FormD))
		Expect(insts.PrimaryForm(18)).To(Equal(insts.FormI))
		Expect(insts.PrimaryForm(0)).To(Equal(insts.FormInvalid))
		Expect(insts.PrimaryForm(1)).To(Equal(insts.FormInvalid))
	})

	It("should dispatch A-form opcodes on bits 26-30 only", func() {
		// fmadd with FRC=7 puts 7 into bits 21-25 of the secondary opcode
		e := insts.Lookup(63, 7<<5|29)
		Expect(e).NotTo(BeNil())
		Expect(e.Op).To(Equal(insts.OpFMADD))
	})

	It("should keep OE variants distinct", func() {
		Expect(insts.Lookup(31, 266).Op).To(Equal(insts.OpADD))
		Expect(insts.Lookup(31, 778).Op).To(Equal(insts.OpADDO))
	})

	It("should report unknown extended opcodes", func() {
		_, err := decoder.FindEntry(0x7C000002)
		Expect(err).To(HaveOccurred())

		var unknown *insts.UnknownOpcodeError
		Expect(err).To(BeAssignableToTypeOf(unknown))
		Expect(err.(*insts.UnknownOpcodeError).Extended).To(BeTrue())
		Expect(err.(*insts.UnknownOpcodeError).Secondary).To(Equal(uint32(1)))
	})

	It("should report unknown primary opcodes", func() {
		_, err := decoder.FindEntry(0x04000000)
		Expect(err).To(MatchError(ContainSubstring("unknown primary opcode 1")))
	})
})
