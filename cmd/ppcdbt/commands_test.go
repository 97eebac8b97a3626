package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	b "github.com/sarchlab/ppcdbt/benchmarks"
)

const (
	textAddr = 0x10000000
	dataAddr = 0x10001000
)

type segment struct {
	vaddr uint32
	data  []byte
	flags uint32
}

// writeELF writes a minimal ELF32 executable with one PT_LOAD per segment.
func writeELF(path string, order binary.ByteOrder, machine uint16, segs ...segment) {
	const ehsize, phentsize = 52, 32

	header := make([]byte, ehsize)
	copy(header[0:4], []byte{0x7f, 'E', 'L', 'F'})
	header[4] = 1 // ELFCLASS32
	header[5] = 2 // ELFDATA2MSB
	if order == binary.LittleEndian {
		header[5] = 1
	}
	header[6] = 1
	order.PutUint16(header[16:18], 2) // ET_EXEC
	order.PutUint16(header[18:20], machine)
	order.PutUint32(header[20:24], 1)
	order.PutUint32(header[24:28], textAddr)
	order.PutUint32(header[28:32], ehsize)
	order.PutUint16(header[40:42], ehsize)
	order.PutUint16(header[42:44], phentsize)
	order.PutUint16(header[44:46], uint16(len(segs)))

	offset := uint32(ehsize + phentsize*len(segs))
	var phdrs, body []byte
	for _, s := range segs {
		ph := make([]byte, phentsize)
		order.PutUint32(ph[0:4], 1) // PT_LOAD
		order.PutUint32(ph[4:8], offset)
		order.PutUint32(ph[8:12], s.vaddr)
		order.PutUint32(ph[12:16], s.vaddr)
		order.PutUint32(ph[16:20], uint32(len(s.data)))
		order.PutUint32(ph[20:24], uint32(len(s.data)))
		order.PutUint32(ph[24:28], s.flags)
		order.PutUint32(ph[28:32], 0x1000)
		phdrs = append(phdrs, ph...)
		body = append(body, s.data...)
		offset += uint32(len(s.data))
	}

	data := append(append(header, phdrs...), body...)
	Expect(os.WriteFile(path, data, 0644)).To(Succeed())
}

const (
	emPPC   = 20
	emARM64 = 183
	pfRX    = 0x5
	pfRW    = 0x6
)

// sumWords adds 5+4+3+2+1 and exits with the sum.
var sumWords = []uint32{
	b.EncodeLI(3, 5),
	b.EncodeLI(4, 0),
	b.EncodeADD(4, 4, 3),
	b.EncodeADDI(3, 3, -1),
	b.EncodeCMPWI(0, 3, 0),
	b.EncodeBNE(-12),
	b.EncodeMR(3, 4),
	b.EncodeLI(0, 1),
	b.EncodeSC(),
}

// helloWords writes the data segment to stdout and exits with 0.
var helloWords = []uint32{
	b.EncodeLI(0, 4),
	b.EncodeLI(3, 1),
	b.EncodeLIS(4, dataAddr>>16),
	b.EncodeORI(4, 4, dataAddr&0xFFFF),
	b.EncodeLI(5, 6),
	b.EncodeSC(),
	b.EncodeLI(0, 1),
	b.EncodeLI(3, 0),
	b.EncodeSC(),
}

var _ = Describe("ppcdbt", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	execute := func(args ...string) error {
		root := newRootCmd()
		root.SetArgs(args)
		root.SetOut(stdout)
		root.SetErr(stderr)
		root.SetIn(&bytes.Buffer{})
		return root.Execute()
	}

	program := func(name string, order binary.ByteOrder, words []uint32, data []byte) string {
		path := filepath.Join(dir, name)
		segs := []segment{{vaddr: textAddr, data: b.BuildProgram(order, words...), flags: pfRX}}
		if data != nil {
			segs = append(segs, segment{vaddr: dataAddr, data: data, flags: pfRW})
		}
		writeELF(path, order, emPPC, segs...)
		return path
	}

	Describe("run", func() {
		It("should exit with the guest's status", func() {
			err := execute("run", program("sum.elf", binary.BigEndian, sumWords, nil))

			var exit *exitError
			Expect(errors.As(err, &exit)).To(BeTrue())
			Expect(exit.code).To(Equal(15))
		})

		It("should pass guest output through", func() {
			err := execute("run", program("hello.elf", binary.BigEndian, helloWords, []byte("hello\n")))

			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(Equal("hello\n"))
		})

		It("should run a little-endian program", func() {
			err := execute("run", program("hello-le.elf", binary.LittleEndian, helloWords, []byte("hello\n")))

			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(Equal("hello\n"))
		})

		It("should give the same result one instruction at a time", func() {
			err := execute("--single-instr", "-v", "run", program("sum.elf", binary.BigEndian, sumWords, nil))

			var exit *exitError
			Expect(errors.As(err, &exit)).To(BeTrue())
			Expect(exit.code).To(Equal(15))
			Expect(stderr.String()).To(ContainSubstring("Traces translated: 9"))
		})

		It("should stop after the trace budget", func() {
			opts := filepath.Join(dir, "opts.json")
			Expect(os.WriteFile(opts, []byte(`{"single_instr_translation": true}`), 0644)).To(Succeed())

			err := execute("--config", opts, "run", "--max-traces", "3",
				program("sum.elf", binary.BigEndian, sumWords, nil))

			var exit *exitError
			Expect(errors.As(err, &exit)).To(BeTrue())
			Expect(exit.code).To(Equal(-1))
			Expect(stderr.String()).To(ContainSubstring("max traces reached"))
		})

		It("should reject a non-PowerPC program", func() {
			path := filepath.Join(dir, "arm.elf")
			writeELF(path, binary.LittleEndian, emARM64,
				segment{vaddr: textAddr, data: make([]byte, 8), flags: pfRX})

			Expect(execute("run", path)).To(MatchError(ContainSubstring("not a PowerPC ELF file")))
		})
	})

	Describe("disasm", func() {
		It("should list the executable segment and mark unsupported words", func() {
			words := append([]uint32{0x00000000}, sumWords...) // illegal
			Expect(execute("disasm", program("sum.elf", binary.BigEndian, words, []byte("data")))).To(Succeed())

			out := stdout.String()
			Expect(out).To(ContainSubstring("segment 0x10000000"))
			Expect(out).NotTo(ContainSubstring("segment 0x10001000"))
			Expect(out).To(ContainSubstring("<entry>:"))
			Expect(out).To(ContainSubstring("10000004:\t38600005"))
			Expect(out).To(ContainSubstring("; unsupported"))
		})
	})

	Describe("trace", func() {
		It("should print the IR of the entry trace", func() {
			Expect(execute("trace", program("sum.elf", binary.BigEndian, sumWords, nil))).To(Succeed())

			Expect(stdout.String()).To(ContainSubstring("; trace at 0x10000000"))
			Expect(stdout.String()).To(ContainSubstring("func trace_10000000 {"))
		})

		It("should translate at a given address as a tree", func() {
			path := program("sum.elf", binary.BigEndian, sumWords, nil)
			Expect(execute("--opt-level", "0", "trace", "--pc", "0x10000018", "--tree", path)).To(Succeed())

			Expect(stdout.String()).To(ContainSubstring("trace_10000018 ("))
		})
	})

	Describe("bench", func() {
		It("should run the core benchmarks as CSV", func() {
			Expect(execute("bench", "--core", "--csv")).To(Succeed())

			Expect(stdout.String()).To(ContainSubstring("loop_sum,"))
			Expect(stdout.String()).To(ContainSubstring("branch_chain,"))
		})
	})

	Describe("options", func() {
		It("should reject an unknown log level", func() {
			Expect(execute("--log-level", "loud", "bench")).To(MatchError(ContainSubstring("invalid log level")))
		})

		It("should reject an invalid optimization level", func() {
			Expect(execute("--opt-level", "7", "bench")).To(MatchError(ContainSubstring("opt_level")))
		})
	})
})
