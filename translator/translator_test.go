package translator_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/insts"
	"github.com/sarchlab/ppcdbt/ir"
	"github.com/sarchlab/ppcdbt/translator"
)

var _ = Describe("Translator", func() {
	var (
		g       *guest
		opts    *config.Options
		profile *branchProfile
	)

	BeforeEach(func() {
		g = newGuest()
		opts = config.DefaultOptions()
		profile = newBranchProfile()
		g.fields[translator.FieldLR] = 0x5000
	})

	newTranslator := func(options ...translator.Option) *translator.Translator {
		options = append([]translator.Option{translator.WithBranchInfo(profile)}, options...)
		return translator.New(g, opts, options...)
	}

	Describe("trace formation", func() {
		It("should keep a counted loop inside one trace", func() {
			g.code(codeBase,
				0x38600000, // li r3,0
				0x38800005, // li r4,5
				0x7C8903A6, // mtctr r4
				0x38630002, // loop: addi r3,r3,2
				0x4200FFFC, // bdnz loop
				0x4E800020, // blr
			)

			tr := newTranslator()
			trace, err := tr.Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(6))

			next, err := ir.Execute(trace.Func, g, 10000)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.gpr(3)).To(Equal(uint32(10)))
			Expect(g.fields[translator.FieldCTR]).To(BeZero())
		})

		It("should close a compare-and-branch loop", func() {
			g.code(codeBase,
				0x38600000, // li r3,0
				0x3880000A, // li r4,10
				0x38630001, // loop: addi r3,r3,1
				0x7C032000, // cmpw r3,r4
				0x4180FFF8, // blt loop
				0x4E800020, // blr
			)

			next, err := g.run(newTranslator(), codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.gpr(3)).To(Equal(uint32(10)))
			Expect(g.crField(0)).To(Equal([4]bool{false, false, true, false}))
		})

		It("should follow an unconditional branch into its target", func() {
			g.code(codeBase, 0x48000010) // b +0x10
			g.code(codeBase+0x10,
				0x38600007, // li r3,7
				0x4E800020, // blr
			)

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(3))

			next, err := ir.Execute(trace.Func, g, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.gpr(3)).To(Equal(uint32(7)))
		})

		It("should stop at the trace limit", func() {
			opts.OptLevel = 0
			words := make([]uint32, 4*opts.TraceLimit())
			for i := range words {
				words[i] = 0x38630001 // addi r3,r3,1
			}
			g.code(codeBase, words...)

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			n := opts.TraceLimit() + 1
			Expect(trace.Len()).To(Equal(n))

			next, err := ir.Execute(trace.Func, g, 10000)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(codeBase + 4*n)))
			Expect(g.gpr(3)).To(Equal(uint32(n)))
		})

		It("should translate one instruction per trace in single-step mode", func() {
			opts.SingleInstrTranslation = true
			g.code(codeBase,
				0x38600001, // li r3,1
				0x38800002, // li r4,2
			)

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(1))

			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(codeBase + 4)))
			Expect(g.gpr(3)).To(Equal(uint32(1)))
			Expect(g.gpr(4)).To(BeZero())
		})

		It("should drop the fills of untouched registers", func() {
			g.code(codeBase, 0x38600001, 0x4E800020) // li r3,1; blr

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.RemovedFills).To(BeNumerically(">", 0))

			opts.EliminateRegisterFills = false
			full, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(full.RemovedFills).To(BeZero())
			Expect(full.Func.NumInsts()).To(BeNumerically(">", trace.Func.NumInsts()))
		})
	})

	Describe("calls", func() {
		It("should leave the trace at a call to untranslated code", func() {
			g.code(codeBase, 0x48000101) // bl +0x100

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(1))

			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(codeBase + 0x100)))
			Expect(g.fields[translator.FieldLR]).To(Equal(uint64(codeBase + 4)))
			Expect(profile.calls).To(ConsistOf([3]uint32{codeBase, codeBase + 4, codeBase + 0x100}))
		})

		It("should inline a call to a short cached trace", func() {
			g.code(codeBase, 0x48000101) // bl +0x100
			g.code(codeBase+0x100,
				0x38600007, // li r3,7
				0x4E800020, // blr
			)

			tr := newTranslator(translator.WithTraceCache(traceCache{codeBase + 0x100: 2}))
			trace, err := tr.Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(3))

			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(codeBase + 4)))
			Expect(g.gpr(3)).To(Equal(uint32(7)))
		})
	})

	Describe("indirect branches", func() {
		BeforeEach(func() {
			g.code(codeBase, 0x4E800020) // blr
		})

		It("should record and leave through an unknown target", func() {
			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(countOps(trace.Func, ir.OpLookupSwitch)).To(Equal(1))

			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.recorded).To(ConsistOf([2]uint32{codeBase, 0x5000}))
		})

		It("should not record branches at optimization level 0", func() {
			opts.OptLevel = 0
			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(countOps(trace.Func, ir.OpRecordBranch)).To(BeZero())
		})

		It("should turn a single known target into a compare", func() {
			profile.targets[codeBase] = []uint32{0x2000}

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(countOps(trace.Func, ir.OpLookupSwitch)).To(BeZero())
			Expect(countOps(trace.Func, ir.OpIfCmp)).To(Equal(1))

			g.fields[translator.FieldLR] = 0x2000
			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x2000)))
			Expect(g.recorded).To(BeEmpty())

			g.fields[translator.FieldLR] = 0x3000
			next, err = ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x3000)))
			Expect(g.recorded).To(ConsistOf([2]uint32{codeBase, 0x3000}))
		})

		It("should switch over several known targets", func() {
			profile.targets[codeBase] = []uint32{0x3000, 0x2000, 0x3001}

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(countOps(trace.Func, ir.OpLookupSwitch)).To(Equal(1))

			g.fields[translator.FieldLR] = 0x3000
			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x3000)))
			Expect(g.recorded).To(BeEmpty())
		})

		It("should inline a known target of bctr", func() {
			g.code(codeBase, 0x4E800420) // bctr
			g.code(0x2000,
				0x38600007, // li r3,7
				0x4E800020, // blr
			)
			g.fields[translator.FieldCTR] = 0x2000
			profile.targets[codeBase] = []uint32{0x2000}

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Len()).To(Equal(3))

			next, err := ir.Execute(trace.Func, g, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.gpr(3)).To(Equal(uint32(7)))
		})
	})

	Describe("system calls", func() {
		It("should spill before and fill after the call", func() {
			g.code(codeBase,
				0x38000001, // li r0,1
				0x44000002, // sc
				0x38830001, // addi r4,r3,1
				0x4E800020, // blr
			)

			var r0 uint32
			g.onSyscall = func(g *guest) {
				r0 = g.gpr(0)
				g.setGPR(3, 41)
			}

			next, err := g.run(newTranslator(), codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(0x5000)))
			Expect(g.syscalls).To(Equal(1))
			Expect(r0).To(Equal(uint32(1)))
			Expect(g.gpr(4)).To(Equal(uint32(42)))
		})
	})

	Describe("faults", func() {
		It("should plant a trap for an undecodable word", func() {
			g.code(codeBase,
				0x38600005, // li r3,5
				0x00000000,
			)

			trace, err := newTranslator().Translate(codeBase)
			Expect(err).NotTo(HaveOccurred())

			_, err = ir.Execute(trace.Func, g, 100)
			Expect(err).To(MatchError(ir.ErrTrapped))
			Expect(g.traps).To(ConsistOf(uint32(codeBase + 4)))
			Expect(g.gpr(3)).To(Equal(uint32(5)))
		})

		It("should trap on a matching trap condition only", func() {
			opts.SingleInstrTranslation = true
			g.code(codeBase, 0x0C830005) // tweqi r3,5
			tr := newTranslator()

			g.setGPR(3, 6)
			next, err := g.run(tr, codeBase)
			Expect(err).NotTo(HaveOccurred())
			Expect(next).To(Equal(uint32(codeBase + 4)))
			Expect(g.traps).To(BeEmpty())

			g.setGPR(3, 5)
			_, err = g.run(tr, codeBase)
			Expect(err).To(MatchError(ir.ErrTrapped))
			Expect(g.traps).To(ConsistOf(uint32(codeBase)))
		})

		DescribeTable("should reject invalid instruction forms",
			func(word uint32, op insts.Op) {
				g.code(codeBase, word)

				trace, err := newTranslator().Translate(codeBase)
				Expect(trace).To(BeNil())

				var ie *translator.InternalError
				Expect(errors.As(err, &ie)).To(BeTrue())
				Expect(ie.PC).To(Equal(uint32(codeBase)))
				Expect(ie.Op).To(Equal(op))
			},
			Entry("lwzu with rA=0", uint32(0x84600000), insts.OpLWZU),
			Entry("lwzu with rA=rT", uint32(0x84630000), insts.OpLWZU),
			Entry("bcctr decrementing CTR", uint32(0x4E000420), insts.OpBCCTR),
			Entry("64-bit compare", uint32(0x7C232000), insts.OpCMP),
			Entry("mfspr from an unmapped SPR", uint32(0x7C7A02A6), insts.OpMFSPR),
		)
	})
})
