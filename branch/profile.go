// Package branch records what the guest's branches do at run time: which
// procedures are called from where, where they return, and which targets
// each indirect branch has jumped to.
package branch

import (
	"slices"
	"sort"
	"sync"
)

// DefaultMaxTargets bounds the number of targets kept per indirect branch.
const DefaultMaxTargets = 16

// CallSite is a call instruction and the address it returns to.
type CallSite struct {
	PC     uint32
	Return uint32
}

// Procedure is what is known about the code reached by calls to Entry.
type Procedure struct {
	Entry       uint32
	CallSites   []CallSite
	ReturnSites []uint32
}

// Stats holds profile statistics.
type Stats struct {
	Calls    uint64
	Returns  uint64
	Branches uint64
	// Dropped counts indirect targets not kept because their site was
	// full.
	Dropped uint64
}

// Profile is a thread-safe branch profile. The zero value is not usable;
// create one with NewProfile.
type Profile struct {
	mu sync.RWMutex

	maxTargets int

	// procedures sorted by entry
	procedures []*Procedure

	// targets of indirect branches, in the order first seen
	sites map[uint32][]uint32

	stats Stats
}

// Option configures a Profile.
type Option func(*Profile)

// WithMaxTargets sets how many targets are kept per indirect branch.
func WithMaxTargets(n int) Option {
	return func(p *Profile) {
		p.maxTargets = n
	}
}

// NewProfile creates an empty branch profile.
func NewProfile(opts ...Option) *Profile {
	p := &Profile{
		maxTargets: DefaultMaxTargets,
		sites:      make(map[uint32][]uint32),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// RegisterCallSite records that the call at pc, returning to ret,
// branches to dest.
func (p *Profile) RegisterCallSite(pc, ret, dest uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Calls++

	i, found := p.search(dest)
	if !found {
		p.procedures = slices.Insert(p.procedures, i, &Procedure{Entry: dest})
	}

	proc := p.procedures[i]
	site := CallSite{PC: pc, Return: ret}
	if !slices.Contains(proc.CallSites, site) {
		proc.CallSites = append(proc.CallSites, site)
	}
}

// RegisterReturnSite records a return at pc to dest. The return is
// credited to the procedure with the closest entry below pc; returns from
// code no call has been seen to reach are ignored.
func (p *Profile) RegisterReturnSite(pc, dest uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Returns++

	proc := p.likelyProcedure(pc)
	if proc == nil {
		return
	}
	if !slices.Contains(proc.ReturnSites, pc) {
		proc.ReturnSites = append(proc.ReturnSites, pc)
	}
}

// Record notes that the indirect branch at pc went to target.
func (p *Profile) Record(pc, target uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Branches++

	targets := p.sites[pc]
	if slices.Contains(targets, target) {
		return
	}
	if p.maxTargets > 0 && len(targets) >= p.maxTargets {
		p.stats.Dropped++
		return
	}
	p.sites[pc] = append(targets, target)
}

// KnownTargets returns the destinations observed for the indirect branch
// at pc, in the order they were first seen.
func (p *Profile) KnownTargets(pc uint32) []uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Clone(p.sites[pc])
}

// Procedure returns a copy of what is known about the procedure whose
// entry is closest below or at pc.
func (p *Profile) Procedure(pc uint32) (Procedure, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, found := p.search(pc)
	if !found {
		if i == 0 {
			return Procedure{}, false
		}
		i--
	}
	return p.procedures[i].clone(), true
}

// Procedures returns copies of all known procedures ordered by entry.
func (p *Profile) Procedures() []Procedure {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Procedure, len(p.procedures))
	for i, proc := range p.procedures {
		out[i] = proc.clone()
	}
	return out
}

// Sites returns the addresses of all indirect branches with recorded
// targets, in ascending order.
func (p *Profile) Sites() []uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sites := make([]uint32, 0, len(p.sites))
	for pc := range p.sites {
		sites = append(sites, pc)
	}
	slices.Sort(sites)
	return sites
}

// Stats returns profile statistics.
func (p *Profile) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// Reset forgets everything recorded so far.
func (p *Profile) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.procedures = nil
	p.sites = make(map[uint32][]uint32)
	p.stats = Stats{}
}

func (p *Profile) search(entry uint32) (int, bool) {
	i := sort.Search(len(p.procedures), func(i int) bool {
		return p.procedures[i].Entry >= entry
	})
	return i, i < len(p.procedures) && p.procedures[i].Entry == entry
}

// likelyProcedure returns the procedure with the greatest entry strictly
// below pc.
func (p *Profile) likelyProcedure(pc uint32) *Procedure {
	i, _ := p.search(pc)
	if i == 0 {
		return nil
	}
	return p.procedures[i-1]
}

func (proc *Procedure) clone() Procedure {
	return Procedure{
		Entry:       proc.Entry,
		CallSites:   slices.Clone(proc.CallSites),
		ReturnSites: slices.Clone(proc.ReturnSites),
	}
}
