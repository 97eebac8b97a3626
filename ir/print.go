package ir

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

func (inst *Inst) String() string {
	args := make([]string, len(inst.Args))
	for i, a := range inst.Args {
		args[i] = a.String()
	}

	switch inst.Op {
	case OpGoto:
		return fmt.Sprintf("goto %s", inst.Target.Label)
	case OpIfCmp:
		return fmt.Sprintf("if %s %s %s goto %s", args[0], inst.Cond, args[1], inst.Target.Label)
	case OpLookupSwitch:
		var sb strings.Builder
		fmt.Fprintf(&sb, "switch %s {", args[0])
		for _, c := range inst.Cases {
			fmt.Fprintf(&sb, " 0x%x: %s;", c.Value, c.Target.Label)
		}
		fmt.Fprintf(&sb, " default: %s }", inst.Default.Label)
		return sb.String()
	case OpReturn:
		return fmt.Sprintf("return %s", args[0])
	case OpTrap:
		return fmt.Sprintf("trap pc=0x%08x word=0x%08x", inst.PC, inst.Word)
	case OpRecordBranch:
		return fmt.Sprintf("record_branch pc=0x%08x -> %s", inst.PC, args[0])
	case OpGetField:
		return fmt.Sprintf("%s = getfield #%d", inst.Dst, inst.Field)
	case OpPutField:
		return fmt.Sprintf("putfield #%d = %s", inst.Field, args[0])
	case OpBoolCmp:
		return fmt.Sprintf("%s = %s %s %s", inst.Dst, args[0], inst.Cond, args[1])
	case OpCondMove:
		return fmt.Sprintf("%s = %s %s %s ? %s : %s",
			inst.Dst, args[0], inst.Cond, args[1], args[2], args[3])
	}

	if inst.Dst == nil {
		return fmt.Sprintf("%s %s", inst.Op, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s = %s %s", inst.Dst, inst.Op, strings.Join(args, ", "))
}

func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", b.Label)
	for _, inst := range b.Insts {
		fmt.Fprintf(&sb, "\t%s\n", inst)
	}
	return sb.String()
}

func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s {\n", f.Name)
	for _, b := range f.Blocks {
		sb.WriteString(b.String())
	}
	sb.WriteString("}\n")
	return sb.String()
}

// Tree renders the function as a tree of blocks, each listing its
// instructions and successors.
func (f *Function) Tree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (%d blocks, %d insts)", f.Name, len(f.Blocks), f.NumInsts()))

	for _, b := range f.Blocks {
		branch := tree.AddBranch(b.Label)
		for _, inst := range b.Insts {
			branch.AddNode(inst.String())
		}

		succ := f.successors(b)
		if len(succ) > 0 {
			labels := make([]string, len(succ))
			for i, s := range succ {
				labels[i] = s.Label
			}
			branch.AddMetaNode("succ", strings.Join(labels, " "))
		}
	}

	return tree
}

func (f *Function) successors(b *Block) []*Block {
	var out []*Block
	for _, inst := range b.Insts {
		switch inst.Op {
		case OpGoto, OpIfCmp:
			out = append(out, inst.Target)
		case OpLookupSwitch:
			for _, c := range inst.Cases {
				out = append(out, c.Target)
			}
			out = append(out, inst.Default)
		}
	}
	if !b.Terminated() {
		if next := f.Next(b); next != nil {
			out = append(out, next)
		}
	}
	return out
}
