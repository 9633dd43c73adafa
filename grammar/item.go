package grammar

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// itemCore identifies an item by production and dot alone. Lookaheads are
// values attached to a core, never part of its identity; folding them into
// the identity would build LR(1) states and defeat the LALR merge.
type itemCore struct {
	prod int
	dot  int
}

type lrItem struct {
	prod *production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol Symbol

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	la *lookaheadSet
}

func newLRItem(prod *production, dot int, la *lookaheadSet) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}
	dottedSymbol := SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}
	return &lrItem{
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		reducible:    dot == prod.rhsLen,
		la:           la,
	}, nil
}

func (i *lrItem) core() itemCore {
	return itemCore{prod: i.prod.num, dot: i.dot}
}

// shift returns the item with the dot advanced over the dotted symbol.
// The lookahead is cloned so that the two items evolve independently.
func (i *lrItem) shift() (*lrItem, bool) {
	if i.reducible {
		return nil, false
	}
	adv, err := newLRItem(i.prod, i.dot+1, i.la.clone())
	if err != nil {
		return nil, false
	}
	return adv, true
}

// symsAfterDotted returns the RHS symbols following the dotted symbol.
func (i *lrItem) symsAfterDotted() []Symbol {
	if i.reducible {
		return nil
	}
	return i.prod.rhs[i.dot+1:]
}

func (i *lrItem) String() string {
	return fmt.Sprintf("%v/%v, %v", i.prod.num, i.dot, i.la)
}

type coreID [32]byte

// itemSet is an ordered collection of items with unique cores, each
// carrying its merged lookahead.
type itemSet struct {
	items  []*lrItem
	byCore map[itemCore]*lrItem
}

func newItemSet() *itemSet {
	return &itemSet{
		byCore: map[itemCore]*lrItem{},
	}
}

// insert adds the item, or merges its lookahead into the entry already
// holding the same core. It reports whether the set changed.
func (s *itemSet) insert(item *lrItem) bool {
	if ex, ok := s.byCore[item.core()]; ok {
		return ex.la.merge(item.la)
	}
	s.items = append(s.items, item)
	s.byCore[item.core()] = item
	return true
}

func (s *itemSet) find(core itemCore) (*lrItem, bool) {
	item, ok := s.byCore[core]
	return item, ok
}

// sort puts the items into the canonical (production, dot) order.
// Hashing, pairwise merging, and table emission all require this order
// first.
func (s *itemSet) sort() {
	sort.Slice(s.items, func(a, b int) bool {
		if s.items[a].prod.num != s.items[b].prod.num {
			return s.items[a].prod.num < s.items[b].prod.num
		}
		return s.items[a].dot < s.items[b].dot
	})
}

// coreID hashes the set by its cores alone, so two sets that differ
// only in lookaheads collide into one state. The set must be sorted.
func (s *itemSet) coreID() coreID {
	b := make([]byte, 0, len(s.items)*4)
	for _, item := range s.items {
		b = append(b,
			byte(item.prod.num>>8), byte(item.prod.num),
			byte(item.dot>>8), byte(item.dot))
	}
	return coreID(sha256.Sum256(b))
}

// mergeLookaheads ORs o's lookaheads into s pairwise. Both sets must hold
// identical cores in identical order.
func (s *itemSet) mergeLookaheads(o *itemSet) (bool, error) {
	if len(s.items) != len(o.items) {
		return false, fmt.Errorf("item sets differ in size: %v vs %v", len(s.items), len(o.items))
	}
	changed := false
	for i, item := range s.items {
		other := o.items[i]
		if item.core() != other.core() {
			return false, fmt.Errorf("item sets differ in cores at %v: %v/%v vs %v/%v", i, item.prod.num, item.dot, other.prod.num, other.dot)
		}
		if item.la.merge(other.la) {
			changed = true
		}
	}
	return changed, nil
}

// dottedSymbols returns the distinct symbols occurring after a dot, in
// ascending symbol order.
func (s *itemSet) dottedSymbols() []Symbol {
	seen := map[Symbol]struct{}{}
	var syms []Symbol
	for _, item := range s.items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		if _, ok := seen[item.dottedSymbol]; ok {
			continue
		}
		seen[item.dottedSymbol] = struct{}{}
		syms = append(syms, item.dottedSymbol)
	}
	sort.Slice(syms, func(a, b int) bool {
		return syms[a] < syms[b]
	})
	return syms
}
