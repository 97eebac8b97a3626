package translator

import (
	"fmt"

	"github.com/sarchlab/ppcdbt/ir"
)

// Guest state slots read and written by translated code. GPRs, CTR, LR,
// FPSCR, the XER byte count and the time base hold 32-bit integers, FPRs
// hold IEEE doubles and the condition and XER flag bits hold booleans.
const (
	FieldGPR0 ir.Field = 0
	FieldFPR0 ir.Field = 32

	FieldCRLt0 ir.Field = 64
	FieldCRGt0 ir.Field = 72
	FieldCREq0 ir.Field = 80
	FieldCRSO0 ir.Field = 88

	FieldXERSO        ir.Field = 96
	FieldXEROV        ir.Field = 97
	FieldXERCA        ir.Field = 98
	FieldXERByteCount ir.Field = 99

	FieldCTR   ir.Field = 100
	FieldLR    ir.Field = 101
	FieldFPSCR ir.Field = 102

	// Fields below are never cached in the register map.
	FieldPC  ir.Field = 103
	FieldTBL ir.Field = 104
	FieldTBU ir.Field = 105

	// NumFields is the number of guest state slots.
	NumFields = 106

	numMappedFields = int(FieldPC)
)

// FieldGPR returns the slot of general purpose register r.
func FieldGPR(r uint32) ir.Field { return FieldGPR0 + ir.Field(r&31) }

// FieldFPR returns the slot of floating point register r.
func FieldFPR(r uint32) ir.Field { return FieldFPR0 + ir.Field(r&31) }

// FieldCRLt returns the slot of the lt bit of condition field crf.
func FieldCRLt(crf uint32) ir.Field { return FieldCRLt0 + ir.Field(crf&7) }

// FieldCRGt returns the slot of the gt bit of condition field crf.
func FieldCRGt(crf uint32) ir.Field { return FieldCRGt0 + ir.Field(crf&7) }

// FieldCREq returns the slot of the eq bit of condition field crf.
func FieldCREq(crf uint32) ir.Field { return FieldCREq0 + ir.Field(crf&7) }

// FieldCRSO returns the slot of the so bit of condition field crf.
func FieldCRSO(crf uint32) ir.Field { return FieldCRSO0 + ir.Field(crf&7) }

// FieldCRB returns the slot holding condition register bit crb, where bit
// 0 is the lt bit of field 0.
func FieldCRB(crb uint32) ir.Field {
	crf := (crb >> 2) & 7
	switch crb & 3 {
	case 0:
		return FieldCRLt(crf)
	case 1:
		return FieldCRGt(crf)
	case 2:
		return FieldCREq(crf)
	default:
		return FieldCRSO(crf)
	}
}

// FieldType returns the IR type of a state slot.
func FieldType(f ir.Field) ir.Type {
	switch {
	case f < FieldFPR0:
		return ir.TypeInt
	case f < FieldCRLt0:
		return ir.TypeDouble
	case f < FieldXERByteCount:
		return ir.TypeBool
	default:
		return ir.TypeInt
	}
}

// FieldName returns the assembler name of a state slot.
func FieldName(f ir.Field) string {
	switch {
	case f < FieldFPR0:
		return fmt.Sprintf("r%d", f-FieldGPR0)
	case f < FieldCRLt0:
		return fmt.Sprintf("f%d", f-FieldFPR0)
	case f < FieldCRGt0:
		return fmt.Sprintf("cr%d.lt", f-FieldCRLt0)
	case f < FieldCREq0:
		return fmt.Sprintf("cr%d.gt", f-FieldCRGt0)
	case f < FieldCRSO0:
		return fmt.Sprintf("cr%d.eq", f-FieldCREq0)
	case f < FieldXERSO:
		return fmt.Sprintf("cr%d.so", f-FieldCRSO0)
	}

	switch f {
	case FieldXERSO:
		return "xer.so"
	case FieldXEROV:
		return "xer.ov"
	case FieldXERCA:
		return "xer.ca"
	case FieldXERByteCount:
		return "xer.bc"
	case FieldCTR:
		return "ctr"
	case FieldLR:
		return "lr"
	case FieldFPSCR:
		return "fpscr"
	case FieldPC:
		return "pc"
	case FieldTBL:
		return "tbl"
	case FieldTBU:
		return "tbu"
	}
	return fmt.Sprintf("field%d", f)
}

// Special purpose register numbers, after un-permuting the SPR field.
const (
	SPRXER = 1
	SPRLR  = 8
	SPRCTR = 9
	SPRTBL = 268
	SPRTBU = 269
)

// DecodeSPR un-permutes the 10-bit SPR field of mfspr, mtspr and mftb,
// whose two 5-bit halves are stored swapped in the instruction word.
func DecodeSPR(spr uint32) uint32 {
	return ((spr & 0x1f) << 5) | ((spr >> 5) & 0x1f)
}
