package grammar

import (
	"fmt"
	"strings"
)

// The lookahead index space has T+1 elements for a grammar with T
// terminals: index 0 is the end of input, index t+1 is terminal t.
const LookaheadEOF = 0

// LookaheadOfTerminal converts a terminal index into its lookahead index.
func LookaheadOfTerminal(term int) int {
	return term + 1
}

// lookaheadSet is a fixed-width bitset over the lookahead index space.
// All sets derived from one grammar share the same width, so bulk
// operations work word by word without bounds negotiation.
//
// FIRST computation overloads the EOF bit to mean "derives the empty
// string"; see firstSet. The set itself attaches no meaning to any bit.
type lookaheadSet struct {
	words []uint64
	bits  int
}

const wordBits = 64

func newLookaheadSet(termCount int) *lookaheadSet {
	bits := termCount + 1
	return &lookaheadSet{
		words: make([]uint64, (bits+wordBits-1)/wordBits),
		bits:  bits,
	}
}

func (s *lookaheadSet) insert(la int) {
	s.words[la/wordBits] |= 1 << (uint(la) % wordBits)
}

func (s *lookaheadSet) remove(la int) {
	s.words[la/wordBits] &^= 1 << (uint(la) % wordBits)
}

func (s *lookaheadSet) contains(la int) bool {
	if la < 0 || la >= s.bits {
		return false
	}
	return s.words[la/wordBits]&(1<<(uint(la)%wordBits)) != 0
}

func (s *lookaheadSet) clear() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// merge ORs o into s and reports whether s actually gained any bit.
// Fixpoint loops terminate on this report turning false.
func (s *lookaheadSet) merge(o *lookaheadSet) bool {
	changed := false
	for i, w := range o.words {
		merged := s.words[i] | w
		if merged != s.words[i] {
			s.words[i] = merged
			changed = true
		}
	}
	return changed
}

func (s *lookaheadSet) clone() *lookaheadSet {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &lookaheadSet{
		words: words,
		bits:  s.bits,
	}
}

func (s *lookaheadSet) isEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// elements returns the contained lookahead indices in ascending order.
func (s *lookaheadSet) elements() []int {
	var elems []int
	for i, w := range s.words {
		if w == 0 {
			continue
		}
		base := i * wordBits
		for b := 0; b < wordBits; b++ {
			if w&(1<<uint(b)) != 0 {
				elems = append(elems, base+b)
			}
		}
	}
	return elems
}

func (s *lookaheadSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, la := range s.elements() {
		if i > 0 {
			b.WriteString(", ")
		}
		if la == LookaheadEOF {
			b.WriteString("<eof>")
		} else {
			fmt.Fprintf(&b, "t%v", la-1)
		}
	}
	b.WriteString("}")
	return b.String()
}
