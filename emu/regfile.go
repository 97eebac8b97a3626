// Package emu runs 32-bit PowerPC user programs by translating guest
// code into IR traces and executing them.
package emu

import (
	"math"

	"github.com/sarchlab/ppcdbt/ir"
	"github.com/sarchlab/ppcdbt/translator"
)

// CRField is one 4-bit field of the condition register.
type CRField struct {
	LT bool
	GT bool
	EQ bool
	SO bool
}

// Bits returns the field as a 4-bit value, lt in the most significant
// position.
func (f CRField) Bits() uint32 {
	return b2u(f.LT)<<3 | b2u(f.GT)<<2 | b2u(f.EQ)<<1 | b2u(f.SO)
}

// XER holds the fixed-point exception register.
type XER struct {
	SO bool
	OV bool
	CA bool
	// ByteCount is the string instruction byte count, bits 25-31.
	ByteCount uint32
}

// Value returns XER as the 32-bit word mfxer reads.
func (x XER) Value() uint32 {
	return b2u(x.SO)<<31 | b2u(x.OV)<<30 | b2u(x.CA)<<29 | x.ByteCount&0x7f
}

// SetValue stores a word written by mtxer.
func (x *XER) SetValue(v uint32) {
	x.SO = v&(1<<31) != 0
	x.OV = v&(1<<30) != 0
	x.CA = v&(1<<29) != 0
	x.ByteCount = v & 0x7f
}

// RegFile represents the user-mode PowerPC register file.
type RegFile struct {
	// GPR holds general-purpose registers r0-r31.
	GPR [32]uint32

	// FPR holds floating-point registers f0-f31.
	FPR [32]float64

	// CR holds condition register fields cr0-cr7.
	CR [8]CRField

	XER   XER
	CTR   uint32
	LR    uint32
	FPSCR uint32

	// PC is the address of the next instruction to execute.
	PC uint32

	// TB is the 64-bit time base.
	TB uint64
}

// ReadReg reads a general-purpose register.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	return r.GPR[reg&31]
}

// WriteReg writes a general-purpose register.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	r.GPR[reg&31] = value
}

// SP returns the stack pointer, r1 by ABI convention.
func (r *RegFile) SP() uint32 {
	return r.GPR[1]
}

// SetSP sets the stack pointer.
func (r *RegFile) SetSP(sp uint32) {
	r.GPR[1] = sp
}

// ReadCR returns the condition register as the 32-bit word mfcr reads.
func (r *RegFile) ReadCR() uint32 {
	var cr uint32
	for i, f := range r.CR {
		cr |= f.Bits() << (28 - 4*uint(i))
	}
	return cr
}

// WriteCR stores all eight condition fields from a 32-bit word.
func (r *RegFile) WriteCR(cr uint32) {
	for i := range r.CR {
		nib := cr >> (28 - 4*uint(i))
		r.CR[i] = CRField{
			LT: nib&8 != 0,
			GT: nib&4 != 0,
			EQ: nib&2 != 0,
			SO: nib&1 != 0,
		}
	}
}

// Field returns the raw value of a translator state slot.
func (r *RegFile) Field(f ir.Field) uint64 {
	switch {
	case f < translator.FieldFPR0:
		return uint64(r.GPR[f-translator.FieldGPR0])
	case f < translator.FieldCRLt0:
		return math.Float64bits(r.FPR[f-translator.FieldFPR0])
	case f < translator.FieldXERSO:
		return b2u64(*r.crBit(f))
	}

	switch f {
	case translator.FieldXERSO:
		return b2u64(r.XER.SO)
	case translator.FieldXEROV:
		return b2u64(r.XER.OV)
	case translator.FieldXERCA:
		return b2u64(r.XER.CA)
	case translator.FieldXERByteCount:
		return uint64(r.XER.ByteCount)
	case translator.FieldCTR:
		return uint64(r.CTR)
	case translator.FieldLR:
		return uint64(r.LR)
	case translator.FieldFPSCR:
		return uint64(r.FPSCR)
	case translator.FieldPC:
		return uint64(r.PC)
	case translator.FieldTBL:
		return uint64(uint32(r.TB))
	case translator.FieldTBU:
		return r.TB >> 32
	}
	return 0
}

// SetField stores the raw value of a translator state slot. Integer
// slots keep the low 32 bits and boolean slots any non-zero value.
func (r *RegFile) SetField(f ir.Field, v uint64) {
	switch {
	case f < translator.FieldFPR0:
		r.GPR[f-translator.FieldGPR0] = uint32(v)
		return
	case f < translator.FieldCRLt0:
		r.FPR[f-translator.FieldFPR0] = math.Float64frombits(v)
		return
	case f < translator.FieldXERSO:
		*r.crBit(f) = v != 0
		return
	}

	switch f {
	case translator.FieldXERSO:
		r.XER.SO = v != 0
	case translator.FieldXEROV:
		r.XER.OV = v != 0
	case translator.FieldXERCA:
		r.XER.CA = v != 0
	case translator.FieldXERByteCount:
		r.XER.ByteCount = uint32(v) & 0x7f
	case translator.FieldCTR:
		r.CTR = uint32(v)
	case translator.FieldLR:
		r.LR = uint32(v)
	case translator.FieldFPSCR:
		r.FPSCR = uint32(v)
	case translator.FieldPC:
		r.PC = uint32(v)
	case translator.FieldTBL:
		r.TB = r.TB&^0xFFFFFFFF | uint64(uint32(v))
	case translator.FieldTBU:
		r.TB = uint64(uint32(v))<<32 | r.TB&0xFFFFFFFF
	}
}

func (r *RegFile) crBit(f ir.Field) *bool {
	switch {
	case f < translator.FieldCRGt0:
		return &r.CR[f-translator.FieldCRLt0].LT
	case f < translator.FieldCREq0:
		return &r.CR[f-translator.FieldCRGt0].GT
	case f < translator.FieldCRSO0:
		return &r.CR[f-translator.FieldCREq0].EQ
	default:
		return &r.CR[f-translator.FieldCRSO0].SO
	}
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func b2u64(b bool) uint64 {
	return uint64(b2u(b))
}
