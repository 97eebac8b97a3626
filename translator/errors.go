package translator

import (
	"fmt"

	"github.com/sarchlab/ppcdbt/insts"
)

// UnsupportedInstructionError reports a guest instruction word that does
// not decode. Translation plants a trap for it instead of failing.
type UnsupportedInstructionError struct {
	PC   uint32
	Word uint32
	Err  error
}

func (e *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("unsupported instruction 0x%08x at 0x%08x: %v", e.Word, e.PC, e.Err)
}

func (e *UnsupportedInstructionError) Unwrap() error {
	return e.Err
}

// InternalError reports a translator gap or an architecturally invalid
// instruction form. It is raised with panic from inside a decoder and
// returned by Translator.Translate.
type InternalError struct {
	PC          uint32
	Word        uint32
	Op          insts.Op
	Form        insts.Form
	Fields      string
	Disassembly string
	Reason      string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s (%s-form) at 0x%08x, word 0x%08x, fields %s, %q",
		e.Reason, e.Op, e.Form, e.PC, e.Word, e.Fields, e.Disassembly)
}

func newInternalError(pc uint32, inst *insts.Instruction, format string, args ...any) *InternalError {
	if inst == nil {
		return &InternalError{PC: pc, Reason: fmt.Sprintf(format, args...)}
	}
	return &InternalError{
		PC:          pc,
		Word:        inst.Word,
		Op:          inst.Op,
		Form:        inst.Form,
		Fields:      inst.FieldString(),
		Disassembly: insts.Disassemble(inst.Word, pc),
		Reason:      fmt.Sprintf(format, args...),
	}
}
