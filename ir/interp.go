package ir

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrFellOffFunction is returned when execution runs past the last
	// block without reaching a return.
	ErrFellOffFunction = errors.New("ir: execution fell off the end of the function")

	// ErrStepLimit is returned when the step bound passed to Execute is
	// exceeded.
	ErrStepLimit = errors.New("ir: step limit exceeded")

	// ErrTrapped is wrapped by the error Execute returns from a trap when
	// the environment does not supply one itself.
	ErrTrapped = errors.New("ir: trap")
)

// Memory is the guest memory as seen by loads and stores.
type Memory interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Read64(addr uint32) uint64
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
	Write64(addr uint32, v uint64)
}

// Env is everything a function can observe while it runs.
type Env interface {
	Memory

	// Field returns the raw value of a guest state slot.
	Field(f Field) uint64
	// SetField stores the raw value of a guest state slot.
	SetField(f Field, v uint64)

	Syscall() error
	RecordBranch(pc, target uint32)
	// Trap is called for OpTrap; the returned error ends execution.
	Trap(pc, word uint32) error
}

type machine struct {
	env   Env
	regs  []uint64
	index map[*Block]int
}

// Execute runs fn against env and returns the value of the OpReturn that
// ended it. A maxSteps of zero means no bound.
func Execute(fn *Function, env Env, maxSteps int) (uint32, error) {
	m := &machine{
		env:   env,
		regs:  make([]uint64, fn.NumRegs()),
		index: make(map[*Block]int, len(fn.Blocks)),
	}
	for i, b := range fn.Blocks {
		m.index[b] = i
	}

	steps := 0
	cur := 0
	for {
		if cur >= len(fn.Blocks) {
			return 0, ErrFellOffFunction
		}

		next := cur + 1
	block:
		for _, inst := range fn.Blocks[cur].Insts {
			steps++
			if maxSteps > 0 && steps > maxSteps {
				return 0, ErrStepLimit
			}

			switch inst.Op {
			case OpGoto:
				idx, err := m.target(inst.Target)
				if err != nil {
					return 0, err
				}
				next = idx
				break block

			case OpIfCmp:
				taken, err := m.compare(inst.Cond, inst.Args[0], inst.Args[1])
				if err != nil {
					return 0, err
				}
				if !taken {
					continue
				}
				idx, err := m.target(inst.Target)
				if err != nil {
					return 0, err
				}
				next = idx
				break block

			case OpLookupSwitch:
				idx, err := m.lookupSwitch(inst)
				if err != nil {
					return 0, err
				}
				next = idx
				break block

			case OpReturn:
				return uint32(m.value(inst.Args[0])), nil

			case OpTrap:
				if err := env.Trap(inst.PC, inst.Word); err != nil {
					return 0, err
				}
				return 0, fmt.Errorf("%w at 0x%08x", ErrTrapped, inst.PC)

			default:
				if err := m.exec(inst); err != nil {
					return 0, err
				}
			}
		}
		cur = next
	}
}

func (m *machine) target(b *Block) (int, error) {
	idx, ok := m.index[b]
	if !ok || b == nil {
		return 0, fmt.Errorf("ir: jump to a block outside the function")
	}
	return idx, nil
}

func (m *machine) lookupSwitch(inst *Inst) (int, error) {
	v := uint32(m.value(inst.Args[0]))
	for _, c := range inst.Cases {
		if c.Value == v {
			return m.target(c.Target)
		}
	}
	return m.target(inst.Default)
}

func (m *machine) value(o Operand) uint64 {
	switch v := o.(type) {
	case *Reg:
		return m.regs[v.ID]
	case Const:
		return v.Bits
	}
	panic(fmt.Sprintf("ir: unknown operand %T", o))
}

func (m *machine) set(r *Reg, v uint64) {
	switch r.Type {
	case TypeInt, TypeFloat:
		v &= 0xFFFFFFFF
	case TypeBool:
		v &= 1
	}
	m.regs[r.ID] = v
}

func (m *machine) compare(cond Cond, x, y Operand) (bool, error) {
	return compareValues(cond, x.OperandType(), m.value(x), m.value(y))
}

//nolint:gocyclo // one case per opcode
func (m *machine) exec(inst *Inst) error {
	switch inst.Op {
	case OpNop:
	case OpMove:
		m.set(inst.Dst, m.value(inst.Args[0]))

	case OpAdd, OpSub, OpMul, OpMulHigh, OpMulHighU, OpDiv, OpDivU,
		OpAnd, OpOr, OpXor, OpShl, OpShr, OpUShr:
		v, err := binary(inst.Op, inst.Dst.Type, m.value(inst.Args[0]), m.value(inst.Args[1]))
		if err != nil {
			return err
		}
		m.set(inst.Dst, v)

	case OpNot, OpNeg, OpAbs, OpSqrt:
		v, err := unary(inst.Op, inst.Dst.Type, m.value(inst.Args[0]))
		if err != nil {
			return err
		}
		m.set(inst.Dst, v)

	case OpMulAdd:
		x, y, z := m.value(inst.Args[0]), m.value(inst.Args[1]), m.value(inst.Args[2])
		switch inst.Dst.Type {
		case TypeDouble:
			r := math.FMA(math.Float64frombits(x), math.Float64frombits(y), math.Float64frombits(z))
			m.set(inst.Dst, math.Float64bits(r))
		case TypeFloat:
			r := math.FMA(float64(f32(x)), float64(f32(y)), float64(f32(z)))
			m.set(inst.Dst, uint64(math.Float32bits(float32(r))))
		default:
			return fmt.Errorf("ir: muladd on %s", inst.Dst.Type)
		}

	case OpBoolCmp:
		ok, err := m.compare(inst.Cond, inst.Args[0], inst.Args[1])
		if err != nil {
			return err
		}
		m.set(inst.Dst, b2u(ok))

	case OpBoolToInt:
		m.set(inst.Dst, m.value(inst.Args[0])&1)

	case OpCondMove:
		ok, err := m.compare(inst.Cond, inst.Args[0], inst.Args[1])
		if err != nil {
			return err
		}
		if ok {
			m.set(inst.Dst, m.value(inst.Args[2]))
		} else {
			m.set(inst.Dst, m.value(inst.Args[3]))
		}

	case OpIntToLong, OpUintToLong, OpLongToInt, OpIntToDouble, OpFloatToDouble,
		OpDoubleToFloat, OpDoubleToInt, OpDoubleToIntRound,
		OpDoubleBits, OpLongBitsToDouble, OpFloatBits, OpIntBitsToFloat:
		m.set(inst.Dst, convert(inst.Op, m.value(inst.Args[0])))

	case OpLoad8, OpLoad16, OpLoad16S, OpLoad32, OpLoad64:
		m.set(inst.Dst, m.load(inst.Op, uint32(m.value(inst.Args[0]))))

	case OpStore8, OpStore16, OpStore32, OpStore64:
		m.store(inst.Op, uint32(m.value(inst.Args[0])), m.value(inst.Args[1]))

	case OpGetField:
		m.set(inst.Dst, m.env.Field(inst.Field))

	case OpPutField:
		m.env.SetField(inst.Field, m.value(inst.Args[0]))

	case OpSyscall:
		return m.env.Syscall()

	case OpRecordBranch:
		m.env.RecordBranch(inst.PC, uint32(m.value(inst.Args[0])))

	default:
		return fmt.Errorf("ir: cannot execute %s", inst.Op)
	}

	return nil
}

func (m *machine) load(op Opcode, addr uint32) uint64 {
	switch op {
	case OpLoad8:
		return uint64(m.env.Read8(addr))
	case OpLoad16:
		return uint64(m.env.Read16(addr))
	case OpLoad16S:
		return uint64(uint32(int32(int16(m.env.Read16(addr)))))
	case OpLoad32:
		return uint64(m.env.Read32(addr))
	default:
		return m.env.Read64(addr)
	}
}

func (m *machine) store(op Opcode, addr uint32, v uint64) {
	switch op {
	case OpStore8:
		m.env.Write8(addr, uint8(v))
	case OpStore16:
		m.env.Write16(addr, uint16(v))
	case OpStore32:
		m.env.Write32(addr, uint32(v))
	default:
		m.env.Write64(addr, v)
	}
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func f32(v uint64) float32 { return math.Float32frombits(uint32(v)) }

func f64(v uint64) float64 { return math.Float64frombits(v) }

func binary(op Opcode, t Type, a, b uint64) (uint64, error) {
	switch t {
	case TypeInt, TypeBool:
		return binaryInt(op, uint32(a), uint32(b))
	case TypeLong:
		return binaryLong(op, a, b)
	case TypeFloat:
		r, err := binaryFloat(op, float64(f32(a)), float64(f32(b)))
		return uint64(math.Float32bits(float32(r))), err
	case TypeDouble:
		r, err := binaryFloat(op, f64(a), f64(b))
		return math.Float64bits(r), err
	}
	return 0, fmt.Errorf("ir: %s on %s", op, t)
}

func binaryInt(op Opcode, x, y uint32) (uint64, error) {
	var r uint32
	switch op {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpMulHigh:
		r = uint32(uint64(int64(int32(x))*int64(int32(y))) >> 32)
	case OpMulHighU:
		r = uint32((uint64(x) * uint64(y)) >> 32)
	case OpDiv:
		if y != 0 {
			r = uint32(int32(x) / int32(y))
		}
	case OpDivU:
		if y != 0 {
			r = x / y
		}
	case OpAnd:
		r = x & y
	case OpOr:
		r = x | y
	case OpXor:
		r = x ^ y
	case OpShl:
		r = x << (y & 31)
	case OpShr:
		r = uint32(int32(x) >> (y & 31))
	case OpUShr:
		r = x >> (y & 31)
	default:
		return 0, fmt.Errorf("ir: %s on int", op)
	}
	return uint64(r), nil
}

func binaryLong(op Opcode, x, y uint64) (uint64, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, nil
		}
		return uint64(int64(x) / int64(y)), nil
	case OpDivU:
		if y == 0 {
			return 0, nil
		}
		return x / y, nil
	case OpAnd:
		return x & y, nil
	case OpOr:
		return x | y, nil
	case OpXor:
		return x ^ y, nil
	case OpShl:
		return x << (y & 63), nil
	case OpShr:
		return uint64(int64(x) >> (y & 63)), nil
	case OpUShr:
		return x >> (y & 63), nil
	}
	return 0, fmt.Errorf("ir: %s on long", op)
}

func binaryFloat(op Opcode, x, y float64) (float64, error) {
	switch op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		return x / y, nil
	}
	return 0, fmt.Errorf("ir: %s on floating point", op)
}

func unary(op Opcode, t Type, a uint64) (uint64, error) {
	switch t {
	case TypeBool:
		if op == OpNot {
			return a ^ 1, nil
		}
	case TypeInt:
		x := int32(uint32(a))
		switch op {
		case OpNot:
			return uint64(^uint32(a)), nil
		case OpNeg:
			return uint64(uint32(-x)), nil
		case OpAbs:
			if x < 0 {
				x = -x
			}
			return uint64(uint32(x)), nil
		}
	case TypeLong:
		switch op {
		case OpNot:
			return ^a, nil
		case OpNeg:
			return uint64(-int64(a)), nil
		}
	case TypeFloat:
		x := f32(a)
		switch op {
		case OpNeg:
			return uint64(math.Float32bits(-x)), nil
		case OpAbs:
			return uint64(math.Float32bits(float32(math.Abs(float64(x))))), nil
		case OpSqrt:
			return uint64(math.Float32bits(float32(math.Sqrt(float64(x))))), nil
		}
	case TypeDouble:
		x := f64(a)
		switch op {
		case OpNeg:
			return math.Float64bits(-x), nil
		case OpAbs:
			return math.Float64bits(math.Abs(x)), nil
		case OpSqrt:
			return math.Float64bits(math.Sqrt(x)), nil
		}
	}
	return 0, fmt.Errorf("ir: %s on %s", op, t)
}

func compareValues(cond Cond, t Type, a, b uint64) (bool, error) {
	switch t {
	case TypeInt, TypeBool:
		return compareInt(cond, int64(int32(uint32(a))), int64(int32(uint32(b))),
			uint64(uint32(a)), uint64(uint32(b)))
	case TypeLong:
		return compareInt(cond, int64(a), int64(b), a, b)
	case TypeFloat:
		return compareFloat(cond, float64(f32(a)), float64(f32(b)))
	case TypeDouble:
		return compareFloat(cond, f64(a), f64(b))
	}
	return false, fmt.Errorf("ir: compare on %s", t)
}

func compareInt(cond Cond, sx, sy int64, ux, uy uint64) (bool, error) {
	switch cond {
	case CondEQ:
		return ux == uy, nil
	case CondNE:
		return ux != uy, nil
	case CondLT:
		return sx < sy, nil
	case CondLE:
		return sx <= sy, nil
	case CondGT:
		return sx > sy, nil
	case CondGE:
		return sx >= sy, nil
	case CondLTU:
		return ux < uy, nil
	case CondLEU:
		return ux <= uy, nil
	case CondGTU:
		return ux > uy, nil
	case CondGEU:
		return ux >= uy, nil
	}
	return false, fmt.Errorf("ir: condition %s on integers", cond)
}

func compareFloat(cond Cond, x, y float64) (bool, error) {
	unordered := math.IsNaN(x) || math.IsNaN(y)
	switch cond {
	case CondUnordered:
		return unordered, nil
	case CondEQ:
		return x == y, nil
	case CondNE:
		return x != y, nil
	case CondLT:
		return x < y, nil
	case CondLE:
		return x <= y, nil
	case CondGT:
		return x > y, nil
	case CondGE:
		return x >= y, nil
	}
	return false, fmt.Errorf("ir: condition %s on floating point", cond)
}

func convert(op Opcode, a uint64) uint64 {
	switch op {
	case OpIntToLong:
		return uint64(int64(int32(uint32(a))))
	case OpUintToLong, OpLongToInt:
		return uint64(uint32(a))
	case OpIntToDouble:
		return math.Float64bits(float64(int32(uint32(a))))
	case OpFloatToDouble:
		return math.Float64bits(float64(f32(a)))
	case OpDoubleToFloat:
		return uint64(math.Float32bits(float32(f64(a))))
	case OpDoubleToInt:
		return uint64(uint32(saturateInt32(math.Trunc(f64(a)))))
	case OpDoubleToIntRound:
		return uint64(uint32(saturateInt32(math.RoundToEven(f64(a)))))
	}
	// Bit casts keep the raw pattern.
	return a
}

func saturateInt32(d float64) int32 {
	switch {
	case math.IsNaN(d):
		return math.MinInt32
	case d >= math.MaxInt32:
		return math.MaxInt32
	case d <= math.MinInt32:
		return math.MinInt32
	}
	return int32(d)
}
