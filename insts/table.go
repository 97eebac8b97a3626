package insts

import "fmt"

// Entry is one row of the opcode dispatch table.
type Entry struct {
	Primary uint32 // bits 0-5
	XO      uint32 // bits 21-30, extended opcodes only
	Form    Form
	Op      Op
}

// Mnemonic returns the assembler mnemonic of the entry.
func (e *Entry) Mnemonic() string {
	return e.Op.String()
}

// extNode is one slot of the first level of an extended table. A-form
// instructions only use bits 26-30 as their secondary opcode and are stored
// as leaves; everything else dispatches once more on bits 21-25.
type extNode struct {
	leaf *Entry
	sub  *[32]*Entry
}

// ExtendedTable resolves the secondary opcode of primary opcodes 19, 31,
// 59 and 63.
type ExtendedTable struct {
	Primary uint32
	nodes   [32]extNode
}

// OpCodeLookUp returns the entry for a 10-bit secondary opcode, or nil.
func (t *ExtendedTable) OpCodeLookUp(secondary uint32) *Entry {
	n := &t.nodes[secondary&0x1f]
	if n.leaf != nil {
		return n.leaf
	}
	if n.sub != nil {
		return n.sub[(secondary>>5)&0x1f]
	}
	return nil
}

func (t *ExtendedTable) insert(e *Entry) {
	n := &t.nodes[e.XO&0x1f]
	if e.Form == FormA {
		if n.leaf != nil || n.sub != nil {
			panic(fmt.Sprintf("insts: %s collides in extended table %d", e.Mnemonic(), t.Primary))
		}
		n.leaf = e
		return
	}
	if n.leaf != nil {
		panic(fmt.Sprintf("insts: %s collides with %s", e.Mnemonic(), n.leaf.Mnemonic()))
	}
	if n.sub == nil {
		n.sub = new([32]*Entry)
	}
	hi := (e.XO >> 5) & 0x1f
	if prev := n.sub[hi]; prev != nil {
		panic(fmt.Sprintf("insts: %s collides with %s", e.Mnemonic(), prev.Mnemonic()))
	}
	n.sub[hi] = e
}

// primarySlot is one row of the primary table.
type primarySlot struct {
	form  Form
	entry *Entry
	ext   *ExtendedTable
}

type opcodeTables struct {
	primary [64]primarySlot
	byOp    [NumOps]*Entry
}

// tables is built once at package initialization and never mutated.
var tables = buildTables()

func buildTables() *opcodeTables {
	t := &opcodeTables{}
	for _, p := range []uint32{19, 31, 59, 63} {
		t.primary[p] = primarySlot{form: FormExtended, ext: &ExtendedTable{Primary: p}}
	}

	for i := range entries {
		e := &entries[i]
		if t.byOp[e.Op] != nil {
			panic(fmt.Sprintf("insts: duplicate entry for %s", e.Mnemonic()))
		}
		t.byOp[e.Op] = e

		slot := &t.primary[e.Primary]
		if slot.form == FormExtended {
			slot.ext.insert(e)
			continue
		}
		if slot.entry != nil {
			panic(fmt.Sprintf("insts: primary opcode %d defined twice", e.Primary))
		}
		slot.form = e.Form
		slot.entry = e
	}

	return t
}

// PrimaryForm returns the form registered for a primary opcode, which is
// FormExtended for the opcodes with a secondary table and FormInvalid for
// unassigned opcodes.
func PrimaryForm(primary uint32) Form {
	return tables.primary[primary&0x3f].form
}

// Lookup finds the entry for a primary and secondary opcode pair. The
// secondary opcode is ignored for non-extended primary opcodes.
func Lookup(primary, secondary uint32) *Entry {
	slot := &tables.primary[primary&0x3f]
	switch slot.form {
	case FormInvalid:
		return nil
	case FormExtended:
		return slot.ext.OpCodeLookUp(secondary)
	default:
		return slot.entry
	}
}

// EntryFor returns the table entry of an operation.
func EntryFor(op Op) *Entry {
	if op >= NumOps {
		return nil
	}
	return tables.byOp[op]
}

// Entries returns a copy of every table entry.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Word returns a minimal instruction word that decodes to the entry, with
// all operand fields zero.
func (e *Entry) Word() uint32 {
	w := e.Primary << 26
	if PrimaryForm(e.Primary) == FormExtended {
		w |= e.XO << 1
	}
	return w
}
