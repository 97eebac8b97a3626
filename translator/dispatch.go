package translator

import (
	"github.com/sarchlab/ppcdbt/insts"
)

// EndOfTrace is returned in place of the next PC by an instruction after
// which linear translation cannot continue.
const EndOfTrace int64 = -1

type (
	dHandler   func(c *Context, f insts.DFields) int64
	bHandler   func(c *Context, f insts.BFields) int64
	iHandler   func(c *Context, f insts.IFields) int64
	scHandler  func(c *Context, f insts.SCFields) int64
	xHandler   func(c *Context, f insts.XFields) int64
	xlHandler  func(c *Context, f insts.XLFields) int64
	xfxHandler func(c *Context, f insts.XFXFields) int64
	xflHandler func(c *Context, f insts.XFLFields) int64
	xoHandler  func(c *Context, f insts.XOFields) int64
	aHandler   func(c *Context, f insts.AFields) int64
	mHandler   func(c *Context, f insts.MFields) int64
)

// handlerSet groups the form handlers of one family of instructions.
type handlerSet struct {
	d   map[insts.Op]dHandler
	b   map[insts.Op]bHandler
	i   map[insts.Op]iHandler
	sc  map[insts.Op]scHandler
	x   map[insts.Op]xHandler
	xl  map[insts.Op]xlHandler
	xfx map[insts.Op]xfxHandler
	xfl map[insts.Op]xflHandler
	xo  map[insts.Op]xoHandler
	a   map[insts.Op]aHandler
	m   map[insts.Op]mHandler
}

// Decoder translates one PowerPC mnemonic. It carries a handler for the
// form of its table entry; translating any other form is an internal
// error.
type Decoder struct {
	entry *insts.Entry

	d   dHandler
	b   bHandler
	i   iHandler
	sc  scHandler
	x   xHandler
	xl  xlHandler
	xfx xfxHandler
	xfl xflHandler
	xo  xoHandler
	a   aHandler
	m   mHandler
}

// Form returns the instruction form of the decoder's table entry.
func (d *Decoder) Form() insts.Form { return d.entry.Form }

// Op returns the operation the decoder translates.
func (d *Decoder) Op() insts.Op { return d.entry.Op }

// Mnemonic returns the assembler mnemonic of the decoder.
func (d *Decoder) Mnemonic() string { return d.entry.Mnemonic() }

// Implemented reports whether the decoder has a handler for its form.
func (d *Decoder) Implemented() bool {
	switch d.entry.Form {
	case insts.FormD:
		return d.d != nil
	case insts.FormB:
		return d.b != nil
	case insts.FormI:
		return d.i != nil
	case insts.FormSC:
		return d.sc != nil
	case insts.FormX:
		return d.x != nil
	case insts.FormXL:
		return d.xl != nil
	case insts.FormXFX:
		return d.xfx != nil
	case insts.FormXFL:
		return d.xfl != nil
	case insts.FormXO:
		return d.xo != nil
	case insts.FormA:
		return d.a != nil
	case insts.FormM:
		return d.m != nil
	}
	return false
}

func (d *Decoder) unimplemented(c *Context, form insts.Form) int64 {
	c.internalError("%s has no %s-form translation", d.Mnemonic(), form)
	return EndOfTrace
}

// TranslateD translates a D-form instruction.
func (d *Decoder) TranslateD(c *Context, f insts.DFields) int64 {
	if d.d == nil {
		return d.unimplemented(c, insts.FormD)
	}
	return d.d(c, f)
}

// TranslateB translates a B-form instruction.
func (d *Decoder) TranslateB(c *Context, f insts.BFields) int64 {
	if d.b == nil {
		return d.unimplemented(c, insts.FormB)
	}
	return d.b(c, f)
}

// TranslateI translates an I-form instruction.
func (d *Decoder) TranslateI(c *Context, f insts.IFields) int64 {
	if d.i == nil {
		return d.unimplemented(c, insts.FormI)
	}
	return d.i(c, f)
}

// TranslateSC translates an SC-form instruction.
func (d *Decoder) TranslateSC(c *Context, f insts.SCFields) int64 {
	if d.sc == nil {
		return d.unimplemented(c, insts.FormSC)
	}
	return d.sc(c, f)
}

// TranslateX translates an X-form instruction.
func (d *Decoder) TranslateX(c *Context, f insts.XFields) int64 {
	if d.x == nil {
		return d.unimplemented(c, insts.FormX)
	}
	return d.x(c, f)
}

// TranslateXL translates an XL-form instruction.
func (d *Decoder) TranslateXL(c *Context, f insts.XLFields) int64 {
	if d.xl == nil {
		return d.unimplemented(c, insts.FormXL)
	}
	return d.xl(c, f)
}

// TranslateXFX translates an XFX-form instruction.
func (d *Decoder) TranslateXFX(c *Context, f insts.XFXFields) int64 {
	if d.xfx == nil {
		return d.unimplemented(c, insts.FormXFX)
	}
	return d.xfx(c, f)
}

// TranslateXFL translates an XFL-form instruction.
func (d *Decoder) TranslateXFL(c *Context, f insts.XFLFields) int64 {
	if d.xfl == nil {
		return d.unimplemented(c, insts.FormXFL)
	}
	return d.xfl(c, f)
}

// TranslateXO translates an XO-form instruction.
func (d *Decoder) TranslateXO(c *Context, f insts.XOFields) int64 {
	if d.xo == nil {
		return d.unimplemented(c, insts.FormXO)
	}
	return d.xo(c, f)
}

// TranslateA translates an A-form instruction.
func (d *Decoder) TranslateA(c *Context, f insts.AFields) int64 {
	if d.a == nil {
		return d.unimplemented(c, insts.FormA)
	}
	return d.a(c, f)
}

// TranslateM translates an M-form instruction.
func (d *Decoder) TranslateM(c *Context, f insts.MFields) int64 {
	if d.m == nil {
		return d.unimplemented(c, insts.FormM)
	}
	return d.m(c, f)
}

func (d *Decoder) translate(c *Context, inst *insts.Instruction) int64 {
	switch inst.Form {
	case insts.FormD:
		return d.TranslateD(c, inst.D)
	case insts.FormB:
		return d.TranslateB(c, inst.B)
	case insts.FormI:
		return d.TranslateI(c, inst.I)
	case insts.FormSC:
		return d.TranslateSC(c, inst.SC)
	case insts.FormX:
		return d.TranslateX(c, inst.X)
	case insts.FormXL:
		return d.TranslateXL(c, inst.XL)
	case insts.FormXFX:
		return d.TranslateXFX(c, inst.XFX)
	case insts.FormXFL:
		return d.TranslateXFL(c, inst.XFL)
	case insts.FormXO:
		return d.TranslateXO(c, inst.XO)
	case insts.FormA:
		return d.TranslateA(c, inst.A)
	case insts.FormM:
		return d.TranslateM(c, inst.M)
	}
	return d.unimplemented(c, inst.Form)
}

var handlerSets = []*handlerSet{
	&arithHandlers,
	&logicHandlers,
	&rotateHandlers,
	&compareHandlers,
	&crHandlers,
	&branchHandlers,
	&loadStoreHandlers,
	&fpHandlers,
	&sprHandlers,
	&miscHandlers,
}

// decoders holds one decoder per table entry, indexed by operation. It is
// built once and read-only afterwards.
var decoders = buildDecoders()

func buildDecoders() []*Decoder {
	out := make([]*Decoder, insts.NumOps)
	for _, e := range insts.Entries() {
		entry := insts.EntryFor(e.Op)
		d := &Decoder{entry: entry}
		for _, s := range handlerSets {
			s.bind(d)
		}
		out[e.Op] = d
	}
	return out
}

func (s *handlerSet) bind(d *Decoder) {
	op := d.entry.Op
	if h, ok := s.d[op]; ok {
		d.d = h
	}
	if h, ok := s.b[op]; ok {
		d.b = h
	}
	if h, ok := s.i[op]; ok {
		d.i = h
	}
	if h, ok := s.sc[op]; ok {
		d.sc = h
	}
	if h, ok := s.x[op]; ok {
		d.x = h
	}
	if h, ok := s.xl[op]; ok {
		d.xl = h
	}
	if h, ok := s.xfx[op]; ok {
		d.xfx = h
	}
	if h, ok := s.xfl[op]; ok {
		d.xfl = h
	}
	if h, ok := s.xo[op]; ok {
		d.xo = h
	}
	if h, ok := s.a[op]; ok {
		d.a = h
	}
	if h, ok := s.m[op]; ok {
		d.m = h
	}
}

var instDecoder = insts.NewDecoder()

// FindDecoder returns the decoder of an instruction word. Words with no
// table entry yield an *insts.UnknownOpcodeError.
func FindDecoder(word uint32) (*Decoder, error) {
	e, err := instDecoder.FindEntry(word)
	if err != nil {
		return nil, err
	}
	return decoders[e.Op], nil
}

// TranslateInstruction translates the instruction at pc into the current
// block of c and returns the PC of the next instruction, or EndOfTrace.
// The registers of c must have been filled. A word that does not decode
// becomes a bad-instruction trap that ends the trace.
func TranslateInstruction(c *Context, ps ProcessSpace, lazy Laziness, pc uint32) int64 {
	word := ps.Read32(pc)
	inst := instDecoder.Decode(word)

	c.pc = pc
	c.inst = inst
	c.lazy = lazy

	d, err := FindDecoder(word)
	if err != nil {
		c.t.logger.Warn().
			Err(&UnsupportedInstructionError{PC: pc, Word: word, Err: err}).
			Msg("planting bad instruction")
		return c.AppendThrowBadInstruction(lazy, pc, word)
	}

	if c.t.opts.DebugTranslation {
		c.t.logger.Debug().
			Uint32("pc", pc).
			Str("op", d.Mnemonic()).
			Str("asm", insts.Disassemble(word, pc)).
			Msg("translate")
	}

	return d.translate(c, inst)
}
