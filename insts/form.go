package insts

// Form represents a PowerPC instruction encoding form.
type Form uint8

// Instruction forms.
const (
	FormInvalid  Form = iota
	FormD             // opcode | RT | RA | D/SIMM/UIMM
	FormB             // opcode | BO | BI | BD | AA | LK
	FormI             // opcode | LI | AA | LK
	FormSC            // opcode | LEV | 1
	FormX             // opcode | RT | RA | RB | XO | Rc
	FormXL            // opcode | BT | BA | BB | XO | LK
	FormXFX           // opcode | RT | SPR | XO
	FormXFL           // opcode | FM | FRB | XO | Rc
	FormXO            // opcode | RT | RA | RB | OE | XO | Rc
	FormA             // opcode | FRT | FRA | FRB | FRC | XO | Rc
	FormM             // opcode | RS | RA | RB/SH | MB | ME | Rc
	FormExtended      // secondary dispatch on bits 21-30
)

var formNames = [...]string{
	FormInvalid:  "INVALID",
	FormD:        "D",
	FormB:        "B",
	FormI:        "I",
	FormSC:       "SC",
	FormX:        "X",
	FormXL:       "XL",
	FormXFX:      "XFX",
	FormXFL:      "XFL",
	FormXO:       "XO",
	FormA:        "A",
	FormM:        "M",
	FormExtended: "EXTENDED",
}

func (f Form) String() string {
	if int(f) < len(formNames) {
		return formNames[f]
	}
	return "UNKNOWN"
}

// DFields holds the fields of a D-form instruction. RT doubles as RS,
// FRT and FRS, and as crfD|0|L for the compare instructions.
type DFields struct {
	RT uint32 // bits 6-10
	RA uint32 // bits 11-15
	D  uint32 // bits 16-31, raw
}

// BFields holds the fields of a B-form (conditional branch) instruction.
type BFields struct {
	BO uint32 // bits 6-10
	BI uint32 // bits 11-15
	BD uint32 // bits 16-29, raw word displacement
	AA uint32 // bit 30
	LK uint32 // bit 31
}

// IFields holds the fields of an I-form (unconditional branch) instruction.
type IFields struct {
	LI uint32 // bits 6-29, raw word displacement
	AA uint32 // bit 30
	LK uint32 // bit 31
}

// SCFields holds the fields of the system call instruction.
type SCFields struct {
	LEV uint32 // bits 20-26
	One uint32 // bit 30, must be 1
}

// XFields holds the fields of an X-form instruction.
type XFields struct {
	RT uint32 // bits 6-10
	RA uint32 // bits 11-15
	RB uint32 // bits 16-20
	XO uint32 // bits 21-30
	Rc uint32 // bit 31
}

// XLFields holds the fields of an XL-form instruction.
type XLFields struct {
	BT uint32 // bits 6-10, also BO or crfD
	BA uint32 // bits 11-15, also BI or crfS
	BB uint32 // bits 16-20
	XO uint32 // bits 21-30
	LK uint32 // bit 31
}

// XFXFields holds the fields of an XFX-form instruction. SPR is the raw,
// still permuted, 10-bit field.
type XFXFields struct {
	RT  uint32 // bits 6-10
	SPR uint32 // bits 11-20
	XO  uint32 // bits 21-30
}

// CRM returns the condition register field mask of mtcrf (bits 12-19).
func (f XFXFields) CRM() uint32 {
	return (f.SPR >> 1) & 0xFF
}

// XFLFields holds the fields of an XFL-form instruction.
type XFLFields struct {
	FM  uint32 // bits 7-14
	FRB uint32 // bits 16-20
	XO  uint32 // bits 21-30
	Rc  uint32 // bit 31
}

// XOFields holds the fields of an XO-form instruction.
type XOFields struct {
	RT uint32 // bits 6-10
	RA uint32 // bits 11-15
	RB uint32 // bits 16-20
	OE uint32 // bit 21
	XO uint32 // bits 22-30
	Rc uint32 // bit 31
}

// AFields holds the fields of an A-form instruction.
type AFields struct {
	FRT uint32 // bits 6-10
	FRA uint32 // bits 11-15
	FRB uint32 // bits 16-20
	FRC uint32 // bits 21-25
	XO  uint32 // bits 26-30
	Rc  uint32 // bit 31
}

// MFields holds the fields of an M-form instruction.
type MFields struct {
	RS uint32 // bits 6-10
	RA uint32 // bits 11-15
	RB uint32 // bits 16-20, also SH
	MB uint32 // bits 21-25
	ME uint32 // bits 26-30
	Rc uint32 // bit 31
}

func extractD(w uint32) DFields {
	return DFields{RT: Bits(w, 6, 10), RA: Bits(w, 11, 15), D: Bits(w, 16, 31)}
}

func extractB(w uint32) BFields {
	return BFields{
		BO: Bits(w, 6, 10),
		BI: Bits(w, 11, 15),
		BD: Bits(w, 16, 29),
		AA: Bits(w, 30, 30),
		LK: Bits(w, 31, 31),
	}
}

func extractI(w uint32) IFields {
	return IFields{LI: Bits(w, 6, 29), AA: Bits(w, 30, 30), LK: Bits(w, 31, 31)}
}

func extractSC(w uint32) SCFields {
	return SCFields{LEV: Bits(w, 20, 26), One: Bits(w, 30, 30)}
}

func extractX(w uint32) XFields {
	return XFields{
		RT: Bits(w, 6, 10),
		RA: Bits(w, 11, 15),
		RB: Bits(w, 16, 20),
		XO: Bits(w, 21, 30),
		Rc: Bits(w, 31, 31),
	}
}

func extractXL(w uint32) XLFields {
	return XLFields{
		BT: Bits(w, 6, 10),
		BA: Bits(w, 11, 15),
		BB: Bits(w, 16, 20),
		XO: Bits(w, 21, 30),
		LK: Bits(w, 31, 31),
	}
}

func extractXFX(w uint32) XFXFields {
	return XFXFields{RT: Bits(w, 6, 10), SPR: Bits(w, 11, 20), XO: Bits(w, 21, 30)}
}

func extractXFL(w uint32) XFLFields {
	return XFLFields{FM: Bits(w, 7, 14), FRB: Bits(w, 16, 20), XO: Bits(w, 21, 30), Rc: Bits(w, 31, 31)}
}

func extractXO(w uint32) XOFields {
	return XOFields{
		RT: Bits(w, 6, 10),
		RA: Bits(w, 11, 15),
		RB: Bits(w, 16, 20),
		OE: Bits(w, 21, 21),
		XO: Bits(w, 22, 30),
		Rc: Bits(w, 31, 31),
	}
}

func extractA(w uint32) AFields {
	return AFields{
		FRT: Bits(w, 6, 10),
		FRA: Bits(w, 11, 15),
		FRB: Bits(w, 16, 20),
		FRC: Bits(w, 21, 25),
		XO:  Bits(w, 26, 30),
		Rc:  Bits(w, 31, 31),
	}
}

func extractM(w uint32) MFields {
	return MFields{
		RS: Bits(w, 6, 10),
		RA: Bits(w, 11, 15),
		RB: Bits(w, 16, 20),
		MB: Bits(w, 21, 25),
		ME: Bits(w, 26, 30),
		Rc: Bits(w, 31, 31),
	}
}
