package emu_test

import (
	"bytes"
	"encoding/binary"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/emu"
)

const entry = 0x1000

// sumProgram adds 5+4+3+2+1 and exits with the sum.
var sumProgram = []uint32{
	0x38600005, // li r3,5
	0x38800000, // li r4,0
	0x7C841A14, // loop: add r4,r4,r3
	0x3863FFFF, // addi r3,r3,-1
	0x2C030000, // cmpwi r3,0
	0x4082FFF4, // bne loop
	0x7C832378, // mr r3,r4
	0x38000001, // li r0,1
	0x44000002, // sc
}

// helloProgram writes "hello\n" from 0x20000 and exits with 0.
var helloProgram = []uint32{
	0x38000004, // li r0,4
	0x38600001, // li r3,1
	0x3C800002, // lis r4,2
	0x38A00006, // li r5,6
	0x44000002, // sc
	0x38000001, // li r0,1
	0x38600000, // li r3,0
	0x44000002, // sc
}

func image(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

var _ = Describe("Emulator", func() {
	var (
		e         *emu.Emulator
		stdoutBuf *bytes.Buffer
		stderrBuf *bytes.Buffer
	)

	BeforeEach(func() {
		stdoutBuf = &bytes.Buffer{}
		stderrBuf = &bytes.Buffer{}
		e = emu.NewEmulator(
			emu.WithStdout(stdoutBuf),
			emu.WithStderr(stderrBuf),
		)
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Translator()).NotTo(BeNil())
			Expect(e.CodeCache()).NotTo(BeNil())
			Expect(e.BranchProfile()).NotTo(BeNil())
		})

		It("should set the stack pointer", func() {
			e = emu.NewEmulator(emu.WithStackPointer(0x7FFFF000))
			Expect(e.RegFile().SP()).To(Equal(uint32(0x7FFFF000)))
		})
	})

	Describe("LoadProgram", func() {
		It("should set the PC to the entry point", func() {
			e.LoadProgram(0x2000, []byte{0xDE, 0xAD, 0xBE, 0xEF})

			Expect(e.RegFile().PC).To(Equal(uint32(0x2000)))
			Expect(e.Memory().Read32(0x2000)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should adopt a prepared memory", func() {
			m := emu.NewMemory()
			m.LoadProgram(entry, image(sumProgram))

			e.LoadProgram(entry, m)

			Expect(e.Memory()).To(BeIdenticalTo(m))
			Expect(e.Run()).To(Equal(int64(15)))
		})
	})

	Describe("Run", func() {
		It("should run a loop to completion", func() {
			e.LoadProgram(entry, image(sumProgram))

			Expect(e.Run()).To(Equal(int64(15)))
			Expect(e.RegFile().ReadReg(4)).To(Equal(uint32(15)))
		})

		It("should service system calls in the middle of a trace", func() {
			e.Memory().WriteBytes(0x20000, []byte("hello\n"))
			e.LoadProgram(entry, image(helloProgram))

			Expect(e.Run()).To(BeZero())
			Expect(stdoutBuf.String()).To(Equal("hello\n"))
		})

		It("should report a bad instruction and return -1", func() {
			e.LoadProgram(entry, image([]uint32{
				0x38600001, // li r3,1
				0x00000000, // illegal
			}))

			Expect(e.Run()).To(Equal(int64(-1)))
			Expect(stderrBuf.String()).To(ContainSubstring("bad instruction"))
		})
	})

	Describe("Step", func() {
		It("should stop at a bad instruction with its address", func() {
			e.LoadProgram(entry, image([]uint32{
				0x38600001, // li r3,1
				0x7C0000A6, // mfmsr r0
			}))

			var result emu.StepResult
			for i := 0; i < 10 && result.Err == nil && !result.Exited; i++ {
				result = e.Step()
			}

			var bad *emu.BadInstructionError
			Expect(errors.As(result.Err, &bad)).To(BeTrue())
			Expect(bad.PC).To(Equal(uint32(entry + 4)))
			Expect(bad.Word).To(Equal(uint32(0x7C0000A6)))
			Expect(e.RegFile().ReadReg(3)).To(Equal(uint32(1)))
		})

		It("should report a taken trap", func() {
			e.LoadProgram(entry, image([]uint32{
				0x7C831808, // tweq r3,r3
			}))

			result := e.Step()

			var trap *emu.TrapError
			Expect(errors.As(result.Err, &trap)).To(BeTrue())
			Expect(trap.PC).To(Equal(uint32(entry)))
		})

		It("should stop after the trace budget", func() {
			e = emu.NewEmulator(emu.WithMaxTraces(1))
			e.LoadProgram(entry, image(sumProgram))

			e.Step()
			result := e.Step()
			Expect(result.Err).To(MatchError(emu.ErrMaxTraces))
		})
	})

	Describe("Code cache", func() {
		var opts *config.Options

		BeforeEach(func() {
			opts = config.DefaultOptions()
			opts.SingleInstrTranslation = true
			e = emu.NewEmulator(emu.WithOptions(opts))
			e.LoadProgram(entry, image(sumProgram))
		})

		It("should translate each instruction once and reuse it", func() {
			Expect(e.Run()).To(Equal(int64(15)))

			stats := e.Stats()
			Expect(stats.Translations).To(Equal(uint64(len(sumProgram))))
			// li, li, 5 loop iterations of 4, mr, li, sc
			Expect(stats.Traces).To(Equal(uint64(25)))
			Expect(stats.Cache.Hits).To(Equal(uint64(25 - len(sumProgram))))
			Expect(e.InstructionCount()).To(Equal(uint64(25)))
		})

		It("should advance the time base with execution", func() {
			e.Run()
			Expect(e.RegFile().TB).To(Equal(uint64(25)))
		})

		It("should retranslate invalidated code", func() {
			for i := 0; i < 3; i++ {
				e.Step()
			}
			Expect(e.Stats().Translations).To(Equal(uint64(3)))

			// Turn li r3,5 into li r3,2 and restart.
			e.Memory().Write32(entry, 0x38600002)
			e.InvalidateCode(entry, entry+4)
			e.RegFile().PC = entry

			Expect(e.Run()).To(Equal(int64(3)))
		})
	})

	Describe("Reset", func() {
		It("should clear state and counters", func() {
			e.LoadProgram(entry, image(sumProgram))
			e.Run()

			e.Reset()

			Expect(e.TraceCount()).To(BeZero())
			Expect(e.InstructionCount()).To(BeZero())
			Expect(e.RegFile().ReadReg(4)).To(BeZero())
			Expect(e.Memory().Read32(entry)).To(BeZero())
			Expect(e.CodeCache().Len()).To(BeZero())
		})
	})
})
