package insts

import "fmt"

// UnknownOpcodeError reports an instruction word whose primary or
// secondary opcode has no table entry.
type UnknownOpcodeError struct {
	Word      uint32
	Primary   uint32
	Secondary uint32
	Extended  bool
}

func (e *UnknownOpcodeError) Error() string {
	if e.Extended {
		return fmt.Sprintf("unknown extended opcode %d/%d in word 0x%08x",
			e.Primary, e.Secondary, e.Word)
	}
	return fmt.Sprintf("unknown primary opcode %d in word 0x%08x", e.Primary, e.Word)
}

// Instruction represents a decoded PowerPC instruction. Only the field
// group selected by Form is populated.
type Instruction struct {
	Word      uint32
	Op        Op
	Form      Form
	Primary   uint32 // bits 0-5
	Secondary uint32 // bits 21-30 for extended opcodes

	D   DFields
	B   BFields
	I   IFields
	SC  SCFields
	X   XFields
	XL  XLFields
	XFX XFXFields
	XFL XFLFields
	XO  XOFields
	A   AFields
	M   MFields
}

// Mnemonic returns the assembler mnemonic of the instruction.
func (inst *Instruction) Mnemonic() string {
	return inst.Op.String()
}

// Record reports whether the Rc bit is set for forms that carry one.
func (inst *Instruction) Record() bool {
	switch inst.Form {
	case FormX:
		return inst.X.Rc == 1
	case FormXO:
		return inst.XO.Rc == 1
	case FormXFL:
		return inst.XFL.Rc == 1
	case FormA:
		return inst.A.Rc == 1
	case FormM:
		return inst.M.Rc == 1
	}
	return false
}

// FieldString renders every extracted field of the instruction's form.
func (inst *Instruction) FieldString() string {
	switch inst.Form {
	case FormD:
		return fmt.Sprintf("%+v", inst.D)
	case FormB:
		return fmt.Sprintf("%+v", inst.B)
	case FormI:
		return fmt.Sprintf("%+v", inst.I)
	case FormSC:
		return fmt.Sprintf("%+v", inst.SC)
	case FormX:
		return fmt.Sprintf("%+v", inst.X)
	case FormXL:
		return fmt.Sprintf("%+v", inst.XL)
	case FormXFX:
		return fmt.Sprintf("%+v", inst.XFX)
	case FormXFL:
		return fmt.Sprintf("%+v", inst.XFL)
	case FormXO:
		return fmt.Sprintf("%+v", inst.XO)
	case FormA:
		return fmt.Sprintf("%+v", inst.A)
	case FormM:
		return fmt.Sprintf("%+v", inst.M)
	}
	return "{}"
}

// SIMM returns the sign-extended 16-bit immediate of a D-form instruction.
func (f DFields) SIMM() int32 {
	return SignExtend(f.D, 16)
}

// Displacement returns the signed byte displacement of a B-form branch.
func (f BFields) Displacement() int32 {
	return SignExtend(f.BD, 14) << 2
}

// Displacement returns the signed byte displacement of an I-form branch.
func (f IFields) Displacement() int32 {
	return SignExtend(f.LI, 24) << 2
}

// Decoder decodes PowerPC machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new PowerPC instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// FindEntry resolves the table entry of an instruction word.
func (d *Decoder) FindEntry(word uint32) (*Entry, error) {
	primary := Bits(word, 0, 5)
	secondary := Bits(word, 21, 30)

	switch PrimaryForm(primary) {
	case FormInvalid:
		return nil, &UnknownOpcodeError{Word: word, Primary: primary}
	case FormExtended:
		e := Lookup(primary, secondary)
		if e == nil {
			return nil, &UnknownOpcodeError{
				Word: word, Primary: primary, Secondary: secondary, Extended: true,
			}
		}
		return e, nil
	default:
		return Lookup(primary, 0), nil
	}
}

// Decode decodes a 32-bit PowerPC instruction word. Unrecognized words
// decode to OpUnknown with FormInvalid.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Word: word, Op: OpUnknown, Form: FormInvalid}
	inst.Primary = Bits(word, 0, 5)

	e, err := d.FindEntry(word)
	if err != nil {
		return inst
	}

	inst.Op = e.Op
	inst.Form = e.Form
	if PrimaryForm(inst.Primary) == FormExtended {
		inst.Secondary = Bits(word, 21, 30)
	}

	switch e.Form {
	case FormD:
		inst.D = extractD(word)
	case FormB:
		inst.B = extractB(word)
	case FormI:
		inst.I = extractI(word)
	case FormSC:
		inst.SC = extractSC(word)
	case FormX:
		inst.X = extractX(word)
	case FormXL:
		inst.XL = extractXL(word)
	case FormXFX:
		inst.XFX = extractXFX(word)
	case FormXFL:
		inst.XFL = extractXFL(word)
	case FormXO:
		inst.XO = extractXO(word)
	case FormA:
		inst.A = extractA(word)
	case FormM:
		inst.M = extractM(word)
	}

	return inst
}
