package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/ir"
)

var _ = Describe("Function", func() {
	var fn *ir.Function

	BeforeEach(func() {
		fn = ir.NewFunction("trace_00001000")
	})

	Describe("block layout", func() {
		It("should label blocks in creation order", func() {
			b0 := fn.NewBlock()
			b1 := fn.NewBlock()

			Expect(b0.Label).To(Equal("B0"))
			Expect(b1.Label).To(Equal("B1"))
			Expect(fn.Next(b0)).To(BeIdenticalTo(b1))
			Expect(fn.Next(b1)).To(BeNil())
		})

		It("should insert a block directly after another", func() {
			entry := fn.NewBlock()
			exit := fn.NewBlock()
			mid := fn.InsertBlockAfter(entry)

			Expect(fn.Blocks).To(Equal([]*ir.Block{entry, mid, exit}))
			Expect(mid.Label).To(Equal("B2"))
		})

		It("should panic when inserting after a foreign block", func() {
			other := ir.NewFunction("other").NewBlock()
			Expect(func() { fn.InsertBlockAfter(other) }).To(Panic())
		})
	})

	Describe("terminators", func() {
		It("should mark a block terminated by its last instruction", func() {
			b := fn.NewBlock()
			r := fn.NewTemp(ir.TypeInt)
			b.Move(r, ir.IntConst(1))
			Expect(b.Terminated()).To(BeFalse())

			b.Return(r)
			Expect(b.Terminated()).To(BeTrue())
			Expect(b.Len()).To(Equal(2))
		})
	})

	Describe("registers", func() {
		It("should number registers in creation order", func() {
			r3 := fn.NewReg(ir.TypeInt, "r3")
			t := fn.NewTemp(ir.TypeBool)

			Expect(fn.NumRegs()).To(Equal(2))
			Expect(fn.Regs()).To(Equal([]*ir.Reg{r3, t}))
			Expect(t.ID).To(Equal(1))
		})
	})

	Describe("String", func() {
		It("should print the name and each labelled block", func() {
			entry := fn.NewBlock()
			exit := fn.NewBlock()
			entry.Goto(exit)
			exit.Trap(0x1000, 0)

			out := fn.String()
			Expect(out).To(HavePrefix("func trace_00001000 {\n"))
			Expect(out).To(ContainSubstring("B0:\n\tgoto B1\n"))
			Expect(out).To(ContainSubstring("B1:\n\ttrap pc=0x00001000 word=0x00000000\n"))
			Expect(out).To(HaveSuffix("}\n"))
		})
	})
})
