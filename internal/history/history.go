// Package history is a bounded linear undo/redo buffer of formation
// snapshots. It never touches the live grid: after Undo or Redo the caller
// applies Present back onto it.
package history

import "github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"

const DefaultMaxSize = 50

type Buffer struct {
	past    []*formation.Formation // oldest first
	present *formation.Formation
	future  []*formation.Formation // soonest redo first
	maxSize int
}

// New returns an empty buffer. A non-positive maxSize selects
// DefaultMaxSize.
func New(maxSize int) *Buffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Buffer{maxSize: maxSize}
}

// Record makes snap the present, pushing the previous present onto past and
// discarding every redo step.
func (b *Buffer) Record(snap *formation.Formation) {
	if b.present != nil {
		b.past = append(b.past, b.present)
		b.trim()
	}
	b.present = snap.Clone()
	b.future = nil
}

// Undo steps back one snapshot. It reports false when there is nothing to
// undo.
func (b *Buffer) Undo() bool {
	if len(b.past) == 0 || b.present == nil {
		return false
	}
	b.future = append([]*formation.Formation{b.present}, b.future...)
	last := len(b.past) - 1
	b.present = b.past[last]
	b.past[last] = nil
	b.past = b.past[:last]
	return true
}

// Redo steps forward one snapshot. It reports false when there is nothing
// to redo.
func (b *Buffer) Redo() bool {
	if len(b.future) == 0 {
		return false
	}
	if b.present != nil {
		b.past = append(b.past, b.present)
		b.trim()
	}
	b.present = b.future[0]
	b.future[0] = nil
	b.future = b.future[1:]
	return true
}

func (b *Buffer) Clear() {
	b.past = nil
	b.present = nil
	b.future = nil
}

// SetMaxSize changes the bound and evicts the oldest entries beyond it.
func (b *Buffer) SetMaxSize(n int) {
	if n < 0 {
		n = 0
	}
	b.maxSize = n
	b.trim()
}

func (b *Buffer) trim() {
	if over := len(b.past) - b.maxSize; over > 0 {
		clear(b.past[:over])
		b.past = b.past[over:]
	}
}

func (b *Buffer) MaxSize() int   { return b.maxSize }
func (b *Buffer) CanUndo() bool  { return len(b.past) > 0 && b.present != nil }
func (b *Buffer) CanRedo() bool  { return len(b.future) > 0 }
func (b *Buffer) UndoCount() int { return len(b.past) }
func (b *Buffer) RedoCount() int { return len(b.future) }

// Present returns a copy of the current snapshot, or nil.
func (b *Buffer) Present() *formation.Formation { return b.present.Clone() }

// Past returns copies of the undo stack, oldest first.
func (b *Buffer) Past() []*formation.Formation { return cloneAll(b.past) }

// Future returns copies of the redo stack, soonest first.
func (b *Buffer) Future() []*formation.Formation { return cloneAll(b.future) }

func cloneAll(in []*formation.Formation) []*formation.Formation {
	out := make([]*formation.Formation, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}
