package insts

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/arch/ppc64/ppc64asm"
)

// Disassemble renders an instruction word in GNU assembler syntax. Words
// the disassembler rejects are rendered as a data directive.
func Disassemble(word uint32, pc uint32) string {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], word)

	inst, err := ppc64asm.Decode(buf[:], binary.BigEndian)
	if err != nil || inst.Op == 0 {
		return fmt.Sprintf(".long 0x%08x", word)
	}

	return ppc64asm.GNUSyntax(inst, uint64(pc))
}

// String renders the instruction in GNU assembler syntax assuming pc 0.
func (inst *Instruction) String() string {
	return Disassemble(inst.Word, 0)
}
