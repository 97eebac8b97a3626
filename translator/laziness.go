package translator

import (
	"fmt"

	"github.com/sarchlab/ppcdbt/ir"
)

// Laziness records guest state whose computation has been deferred. The
// PowerPC translator materializes every result eagerly, so it carries no
// state, but it still keys the block map and is resolved at every trace
// exit so that a lazier strategy can be dropped in.
type Laziness struct{}

// Key identifies a translated block by guest address and lazy state.
type Key struct {
	PC uint32
}

func (k Key) String() string {
	return fmt.Sprintf("0x%08x", k.PC)
}

// InitialLaziness returns the lazy state at the start of a trace.
func InitialLaziness() Laziness {
	return Laziness{}
}

// Clone returns a snapshot of the lazy state.
func (l Laziness) Clone() Laziness {
	return l
}

// Equivalent reports whether two lazy states may share a translation.
func (l Laziness) Equivalent(other Laziness) bool {
	return true
}

// MakeKey returns the block map key for pc under this lazy state.
func (l Laziness) MakeKey(pc uint32) Key {
	return Key{PC: pc}
}

// Resolve emits the code that commits deferred state.
func (l Laziness) Resolve(b *ir.Block) {}

// ResolveCRField commits deferred state of one condition register field.
func (l Laziness) ResolveCRField(b *ir.Block, crf uint32) {}
