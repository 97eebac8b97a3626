// Package ir implements a register-based intermediate representation for
// translated guest code, together with an interpreter that runs it.
//
// A Function is a list of Blocks in code order. A Block holds three-address
// instructions over typed virtual registers. A block whose last instruction
// is not a terminator falls through to the next block in the list.
package ir

import (
	"fmt"
	"math"
)

// Type is the type of a virtual register or constant.
type Type uint8

// Value types.
const (
	TypeInt    Type = iota // 32-bit integer
	TypeLong               // 64-bit integer
	TypeFloat              // IEEE single
	TypeDouble             // IEEE double
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeBool:
		return "bool"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Operand is either a *Reg or a Const.
type Operand interface {
	OperandType() Type
	String() string
}

// Reg is a virtual register.
type Reg struct {
	ID   int
	Type Type
	Name string
}

// OperandType returns the register's type.
func (r *Reg) OperandType() Type { return r.Type }

func (r *Reg) String() string {
	if r.Name != "" {
		return fmt.Sprintf("%%%s", r.Name)
	}
	return fmt.Sprintf("%%t%d", r.ID)
}

// Const is an immediate operand. Bits holds the raw value using the same
// encoding the interpreter uses for registers: integers zero-extended,
// floating point values as their IEEE bit patterns, booleans as 0 or 1.
type Const struct {
	Type Type
	Bits uint64
}

// OperandType returns the constant's type.
func (c Const) OperandType() Type { return c.Type }

func (c Const) String() string {
	switch c.Type {
	case TypeInt:
		return fmt.Sprintf("%d", int32(uint32(c.Bits)))
	case TypeLong:
		return fmt.Sprintf("%dL", int64(c.Bits))
	case TypeFloat:
		return fmt.Sprintf("%gf", math.Float32frombits(uint32(c.Bits)))
	case TypeDouble:
		return fmt.Sprintf("%g", math.Float64frombits(c.Bits))
	case TypeBool:
		return fmt.Sprintf("%t", c.Bits != 0)
	}
	return "?"
}

// IntConst returns a 32-bit integer constant.
func IntConst(v int32) Const { return Const{Type: TypeInt, Bits: uint64(uint32(v))} }

// UintConst returns a 32-bit integer constant from an unsigned value.
func UintConst(v uint32) Const { return Const{Type: TypeInt, Bits: uint64(v)} }

// LongConst returns a 64-bit integer constant.
func LongConst(v int64) Const { return Const{Type: TypeLong, Bits: uint64(v)} }

// FloatConst returns a single precision constant.
func FloatConst(v float32) Const {
	return Const{Type: TypeFloat, Bits: uint64(math.Float32bits(v))}
}

// DoubleConst returns a double precision constant.
func DoubleConst(v float64) Const { return Const{Type: TypeDouble, Bits: math.Float64bits(v)} }

// BoolConst returns a boolean constant.
func BoolConst(v bool) Const {
	if v {
		return Const{Type: TypeBool, Bits: 1}
	}
	return Const{Type: TypeBool}
}

// Cond is a comparison condition.
type Cond uint8

// Comparison conditions. The unsigned variants only apply to integers.
// For floating point operands every condition except CondNE and
// CondUnordered is false when either operand is NaN.
const (
	CondEQ Cond = iota
	CondNE
	CondLT
	CondLE
	CondGT
	CondGE
	CondLTU
	CondLEU
	CondGTU
	CondGEU
	CondUnordered
)

var condNames = [...]string{
	CondEQ:        "==",
	CondNE:        "!=",
	CondLT:        "<",
	CondLE:        "<=",
	CondGT:        ">",
	CondGE:        ">=",
	CondLTU:       "<u",
	CondLEU:       "<=u",
	CondGTU:       ">u",
	CondGEU:       ">=u",
	CondUnordered: "unordered",
}

func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return "?"
}

// Negate returns the condition that holds exactly when c does not, for
// integer operands.
func (c Cond) Negate() Cond {
	switch c {
	case CondEQ:
		return CondNE
	case CondNE:
		return CondEQ
	case CondLT:
		return CondGE
	case CondLE:
		return CondGT
	case CondGT:
		return CondLE
	case CondGE:
		return CondLT
	case CondLTU:
		return CondGEU
	case CondLEU:
		return CondGTU
	case CondGTU:
		return CondLEU
	case CondGEU:
		return CondLTU
	}
	panic(fmt.Sprintf("ir: condition %s has no integer negation", c))
}

// Field names one slot of guest architectural state.
type Field uint16

// Opcode is an IR operation.
type Opcode uint8

// IR operations.
const (
	OpNop Opcode = iota

	// Dst = Args[0]
	OpMove

	// Dst = Args[0] op Args[1], typed by Dst.
	OpAdd
	OpSub
	OpMul
	OpMulHigh  // high word of the signed 64-bit product of two ints
	OpMulHighU // high word of the unsigned 64-bit product of two ints
	OpDiv      // signed, x/0 yields 0
	OpDivU     // unsigned, x/0 yields 0
	OpAnd
	OpOr
	OpXor
	OpShl  // count masked to the operand width
	OpShr  // arithmetic
	OpUShr // logical

	// Dst = op Args[0]
	OpNot
	OpNeg
	OpAbs
	OpSqrt

	// Dst = Args[0] * Args[1] + Args[2], fused
	OpMulAdd

	// Dst(bool) = Args[0] Cond Args[1]
	OpBoolCmp
	// Dst(int) = Args[0](bool) ? 1 : 0
	OpBoolToInt
	// Dst = (Args[0] Cond Args[1]) ? Args[2] : Args[3]
	OpCondMove

	// Conversions, Dst = conv(Args[0]).
	OpIntToLong  // sign extend
	OpUintToLong // zero extend
	OpLongToInt  // truncate
	OpIntToDouble
	OpFloatToDouble
	OpDoubleToFloat
	OpDoubleToInt      // truncate toward zero, saturating, NaN gives MinInt32
	OpDoubleToIntRound // round to nearest even, saturating, NaN gives MinInt32
	OpDoubleBits       // double to long bit pattern
	OpLongBitsToDouble
	OpFloatBits // float to int bit pattern
	OpIntBitsToFloat

	// Memory, Args[0] is the int address.
	OpLoad8
	OpLoad16
	OpLoad16S
	OpLoad32
	OpLoad64
	OpStore8 // Args[1] is the value
	OpStore16
	OpStore32
	OpStore64

	// Guest state slots.
	OpGetField // Dst = state[Field]
	OpPutField // state[Field] = Args[0]

	// Control flow.
	OpGoto         // jump to Target
	OpIfCmp        // if Args[0] Cond Args[1] jump to Target, else continue
	OpLookupSwitch // jump to the case matching Args[0], else Default
	OpReturn       // leave the function with Args[0]

	// Callouts.
	OpSyscall      // run the guest system call
	OpRecordBranch // record that the branch at PC reached Args[0]
	OpTrap         // raise a guest fault for the instruction at PC
)

var opcodeNames = [...]string{
	OpNop:              "nop",
	OpMove:             "move",
	OpAdd:              "add",
	OpSub:              "sub",
	OpMul:              "mul",
	OpMulHigh:          "mulhi",
	OpMulHighU:         "mulhiu",
	OpDiv:              "div",
	OpDivU:             "divu",
	OpAnd:              "and",
	OpOr:               "or",
	OpXor:              "xor",
	OpShl:              "shl",
	OpShr:              "shr",
	OpUShr:             "ushr",
	OpNot:              "not",
	OpNeg:              "neg",
	OpAbs:              "abs",
	OpSqrt:             "sqrt",
	OpMulAdd:           "muladd",
	OpBoolCmp:          "boolcmp",
	OpBoolToInt:        "bool2int",
	OpCondMove:         "cmov",
	OpIntToLong:        "int2long",
	OpUintToLong:       "uint2long",
	OpLongToInt:        "long2int",
	OpIntToDouble:      "int2double",
	OpFloatToDouble:    "float2double",
	OpDoubleToFloat:    "double2float",
	OpDoubleToInt:      "double2int",
	OpDoubleToIntRound: "double2int_rn",
	OpDoubleBits:       "double_bits",
	OpLongBitsToDouble: "long_bits_double",
	OpFloatBits:        "float_bits",
	OpIntBitsToFloat:   "int_bits_float",
	OpLoad8:            "load8",
	OpLoad16:           "load16",
	OpLoad16S:          "load16s",
	OpLoad32:           "load32",
	OpLoad64:           "load64",
	OpStore8:           "store8",
	OpStore16:          "store16",
	OpStore32:          "store32",
	OpStore64:          "store64",
	OpGetField:         "getfield",
	OpPutField:         "putfield",
	OpGoto:             "goto",
	OpIfCmp:            "ifcmp",
	OpLookupSwitch:     "lookupswitch",
	OpReturn:           "return",
	OpSyscall:          "syscall",
	OpRecordBranch:     "record_branch",
	OpTrap:             "trap",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// IsTerminator reports whether control never continues past the
// operation within its block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpGoto, OpLookupSwitch, OpReturn, OpTrap:
		return true
	}
	return false
}

// SwitchCase is one arm of a lookup switch.
type SwitchCase struct {
	Value  uint32
	Target *Block
}

// Inst is a single IR instruction.
type Inst struct {
	Op    Opcode
	Dst   *Reg
	Args  []Operand
	Cond  Cond
	Field Field

	Target  *Block       // OpGoto, OpIfCmp
	Cases   []SwitchCase // OpLookupSwitch
	Default *Block       // OpLookupSwitch

	PC   uint32 // OpRecordBranch, OpTrap
	Word uint32 // OpTrap
}
