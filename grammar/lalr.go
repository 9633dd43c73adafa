package grammar

import "fmt"

type lrState struct {
	num   int
	items *itemSet
	next  map[Symbol]int
}

type lalrAutomaton struct {
	states []*lrState
}

const stateNumInitial = 0

// genLALRAutomaton builds the family of LALR(1) item sets. States are
// interned by core identity, so an LR(1)-distinct successor that shares
// its cores with a known state is merged into it instead; when the merge
// widens any lookahead the state is requeued, which re-runs its GOTOs and
// pushes the widened lookaheads through renewed closures into every
// successor.
func genLALRAutomaton(prods *productionSet, fst *firstSet, termCount int) (*lalrAutomaton, error) {
	start, err := newNonTerminalSymbol(0)
	if err != nil {
		return nil, err
	}
	startProds := prods.findByLHS(start)
	if len(startProds) == 0 {
		return nil, fmt.Errorf("start symbol has no production")
	}

	initial := newItemSet()
	for _, p := range startProds {
		la := newLookaheadSet(termCount)
		la.insert(LookaheadEOF)
		item, err := newLRItem(p, 0, la)
		if err != nil {
			return nil, err
		}
		initial.insert(item)
	}
	closed, err := closure(initial, prods, fst, termCount)
	if err != nil {
		return nil, err
	}

	fam := newWorklist[*itemSet, coreID]((*itemSet).coreID)
	fam.enqueue(closed)

	nexts := map[int]map[Symbol]int{}
	for {
		idx, iset, ok := fam.next()
		if !ok {
			break
		}
		next := map[Symbol]int{}
		for _, x := range iset.dottedSymbols() {
			succ, err := gotoSet(iset, x, prods, fst, termCount)
			if err != nil {
				return nil, err
			}
			k, found := fam.enqueue(succ)
			if found {
				changed, err := fam.item(k).mergeLookaheads(succ)
				if err != nil {
					return nil, err
				}
				if changed {
					fam.requeue(k)
				}
			}
			next[x] = k
		}
		nexts[idx] = next
	}

	states := make([]*lrState, fam.count())
	for i, iset := range fam.all() {
		states[i] = &lrState{
			num:   i,
			items: iset,
			next:  nexts[i],
		}
	}
	return &lalrAutomaton{states: states}, nil
}

// closure saturates an item set: for every item with a non-terminal B
// after the dot, items B →・γ are introduced carrying FIRST of the rest
// of the RHS under the source item's lookahead. Introduced items are
// interned by core; a lookahead that widens an interned item requeues it
// so its own derivations see the new bits. The lookahead lattice is
// finite and merging is monotone, so the loop terminates.
func closure(s *itemSet, prods *productionSet, fst *firstSet, termCount int) (*itemSet, error) {
	w := newWorklist[*lrItem, itemCore]((*lrItem).core)
	for _, item := range s.items {
		w.enqueue(item)
	}
	for {
		_, item, ok := w.next()
		if !ok {
			break
		}
		b := item.dottedSymbol
		if !b.IsNonTerminal() {
			continue
		}
		chi := fst.first(item.symsAfterDotted(), item.la)
		for _, prod := range prods.findByLHS(b) {
			cand, err := newLRItem(prod, 0, chi.clone())
			if err != nil {
				return nil, err
			}
			k, found := w.enqueue(cand)
			if !found {
				continue
			}
			if w.item(k).la.merge(chi) {
				w.requeue(k)
			}
		}
	}

	result := newItemSet()
	for _, item := range w.all() {
		result.insert(item)
	}
	result.sort()
	return result, nil
}

// gotoSet computes the closed successor of an item set over symbol x.
func gotoSet(s *itemSet, x Symbol, prods *productionSet, fst *firstSet, termCount int) (*itemSet, error) {
	result := newItemSet()
	for _, item := range s.items {
		if item.dottedSymbol != x {
			continue
		}
		adv, ok := item.shift()
		if !ok {
			return nil, fmt.Errorf("item %v is not shiftable", item)
		}
		result.insert(adv)
	}
	return closure(result, prods, fst, termCount)
}
