// Package loader provides ELF binary loading for 32-bit PowerPC executables.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// DefaultStackTop is the top of the user stack for 32-bit PowerPC Linux.
const DefaultStackTop = 0x80000000

// DefaultStackSize is the default stack size (8MB).
const DefaultStackSize = 8 * 1024 * 1024

// pageSize aligns the initial program break.
const pageSize = 4096

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment should be loaded.
	VirtAddr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded ELF program ready for execution.
type Program struct {
	// EntryPoint is the virtual address where execution should begin.
	EntryPoint uint32
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
	// InitialSP is the initial stack pointer value.
	InitialSP uint32
	// Break is the initial program break: the page-aligned end of the
	// highest segment.
	Break uint32
	// ByteOrder is the byte order of the program.
	ByteOrder binary.ByteOrder
}

// Memory is the guest memory a program is copied into.
type Memory interface {
	WriteBytes(addr uint32, data []byte)
	Zero(addr, n uint32)
}

// Load parses a 32-bit PowerPC ELF binary and returns a Program struct
// ready for loading into the emulator's memory.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}

	if f.Machine != elf.EM_PPC {
		return nil, fmt.Errorf("not a PowerPC ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: uint32(f.Entry),
		InitialSP:  DefaultStackTop,
		ByteOrder:  f.ByteOrder,
	}

	var end uint64
	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		if phdr.Filesz > phdr.Memsz {
			return nil, fmt.Errorf("segment at 0x%x has file size 0x%x larger than memory size 0x%x",
				phdr.Vaddr, phdr.Filesz, phdr.Memsz)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: uint32(phdr.Vaddr),
			Data:     data,
			MemSize:  uint32(phdr.Memsz),
			Flags:    flags,
		})

		end = max(end, phdr.Vaddr+phdr.Memsz)
	}

	prog.Break = uint32((end + pageSize - 1) &^ (pageSize - 1))

	return prog, nil
}

// LoadInto copies every segment into m and zero-fills the BSS.
func (p *Program) LoadInto(m Memory) {
	for _, seg := range p.Segments {
		m.WriteBytes(seg.VirtAddr, seg.Data)
		if bss := seg.MemSize - uint32(len(seg.Data)); bss > 0 {
			m.Zero(seg.VirtAddr+uint32(len(seg.Data)), bss)
		}
	}
}

// SetupStack writes the initial process stack below InitialSP: argc, the
// argv pointers, an empty environment and an empty auxiliary vector, with
// the argument strings above them. It returns the stack pointer the
// program starts with, which points at argc.
func (p *Program) SetupStack(m Memory, args []string) uint32 {
	order := p.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}

	sp := p.InitialSP

	argv := make([]uint32, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		s := append([]byte(args[i]), 0)
		sp -= uint32(len(s))
		m.WriteBytes(sp, s)
		argv[i] = sp
	}

	// argc, argv[], NULL, envp NULL, AT_NULL pair
	words := make([]uint32, 0, len(argv)+5)
	words = append(words, uint32(len(args)))
	words = append(words, argv...)
	words = append(words, 0, 0, 0, 0)

	sp -= uint32(4 * len(words))
	sp &^= 0xF

	buf := make([]byte, 4*len(words))
	for i, w := range words {
		order.PutUint32(buf[4*i:], w)
	}
	m.WriteBytes(sp, buf)

	return sp
}
