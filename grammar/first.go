package grammar

// firstSet holds one lookahead set per non-terminal. The EOF bit of an
// entry does not mean the end of input here; it records that the
// non-terminal can derive the empty string. first substitutes the outer
// lookahead for that bit, so the overload never leaks past this file.
type firstSet struct {
	sets      []*lookaheadSet
	termCount int
}

func genFirstSet(prods *productionSet, termCount, nonTermCount int) *firstSet {
	fst := &firstSet{
		sets:      make([]*lookaheadSet, nonTermCount),
		termCount: termCount,
	}
	for i := range fst.sets {
		fst.sets[i] = newLookaheadSet(termCount)
	}
	for {
		changed := false
		for _, prod := range prods.productions() {
			acc := fst.sets[prod.lhs.Num()]
			if acc.merge(fst.baseFirst(prod.rhs)) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return fst
}

func (fst *firstSet) findBySymbol(sym Symbol) *lookaheadSet {
	if !sym.IsNonTerminal() || sym.Num() >= len(fst.sets) {
		return nil
	}
	return fst.sets[sym.Num()]
}

// baseFirst computes FIRST of a symbol sequence. The EOF bit of the
// result is set iff every symbol of the sequence can derive the empty
// string.
func (fst *firstSet) baseFirst(syms []Symbol) *lookaheadSet {
	result := newLookaheadSet(fst.termCount)
	for _, sym := range syms {
		if sym.IsTerminal() {
			result.insert(LookaheadOfTerminal(sym.Num()))
			return result
		}
		e := fst.sets[sym.Num()]
		result.merge(e)
		result.remove(LookaheadEOF)
		if !e.contains(LookaheadEOF) {
			return result
		}
	}
	result.insert(LookaheadEOF)
	return result
}

// first computes FIRST of a symbol sequence under an outer lookahead:
// when the whole sequence can derive the empty string, the outer
// lookahead stands in for it.
func (fst *firstSet) first(syms []Symbol, la *lookaheadSet) *lookaheadSet {
	result := fst.baseFirst(syms)
	if result.contains(LookaheadEOF) {
		result.remove(LookaheadEOF)
		result.merge(la)
	}
	return result
}
