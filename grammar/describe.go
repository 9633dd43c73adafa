package grammar

import (
	"fmt"
	"strings"
)

// Report is a human-readable description of the item-set family. It is a
// diagnostic rendering only; nothing in it can be loaded back.
type Report struct {
	Name         string
	Terminals    []string
	NonTerminals []string
	Productions  []string
	States       []*StateReport
}

type StateReport struct {
	Number int
	Items  []string
	Shift  []string
	GoTo   []string
	Reduce []string
}

// GenReport builds the automaton and renders every state with its items,
// transitions, and reductions. It works for conflicted grammars too,
// which makes it the tool for understanding why generation failed.
func GenReport(gram *Grammar) (*Report, error) {
	err := validate(gram)
	if err != nil {
		return nil, err
	}

	termCount := gram.symTab.terminalCount()
	fst := genFirstSet(gram.prods, termCount, gram.symTab.nonTerminalCount())
	automaton, err := genLALRAutomaton(gram.prods, fst, termCount)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Name:         gram.name,
		Terminals:    append([]string{}, gram.symTab.termTexts...),
		NonTerminals: append([]string{}, gram.symTab.nonTermTexts...),
	}
	for _, prod := range gram.prods.productions() {
		rep.Productions = append(rep.Productions, renderProduction(gram.symTab, prod))
	}
	for _, state := range automaton.states {
		sr := &StateReport{
			Number: state.num,
		}
		for _, item := range state.items.items {
			sr.Items = append(sr.Items, renderItem(gram.symTab, item))
		}
		for _, sym := range state.items.dottedSymbols() {
			text, _ := gram.symTab.toText(sym)
			edge := fmt.Sprintf("%v → %v", text, state.next[sym])
			if sym.IsTerminal() {
				sr.Shift = append(sr.Shift, edge)
			} else {
				sr.GoTo = append(sr.GoTo, edge)
			}
		}
		for _, item := range state.items.items {
			if !item.reducible {
				continue
			}
			if item.prod.lhs.isStart() {
				sr.Reduce = append(sr.Reduce, "on {<eof>} accept")
				continue
			}
			sr.Reduce = append(sr.Reduce, fmt.Sprintf("on %v reduce %v", renderLookahead(gram.symTab, item.la), renderProduction(gram.symTab, item.prod)))
		}
		rep.States = append(rep.States, sr)
	}
	return rep, nil
}

func renderProduction(symTab *symbolTable, prod *production) string {
	var b strings.Builder
	lhsText, _ := symTab.toText(prod.lhs)
	b.WriteString(lhsText)
	b.WriteString(" →")
	if prod.isEmpty() {
		b.WriteString(" ε")
		return b.String()
	}
	for _, sym := range prod.rhs {
		text, _ := symTab.toText(sym)
		b.WriteString(" ")
		b.WriteString(text)
	}
	return b.String()
}

func renderItem(symTab *symbolTable, item *lrItem) string {
	var b strings.Builder
	lhsText, _ := symTab.toText(item.prod.lhs)
	b.WriteString(lhsText)
	b.WriteString(" →")
	for i, sym := range item.prod.rhs {
		if i == item.dot {
			b.WriteString("・")
		} else {
			b.WriteString(" ")
		}
		text, _ := symTab.toText(sym)
		b.WriteString(text)
	}
	if item.reducible {
		b.WriteString("・")
	}
	fmt.Fprintf(&b, ", %v", renderLookahead(symTab, item.la))
	return b.String()
}

func renderLookahead(symTab *symbolTable, la *lookaheadSet) string {
	var b strings.Builder
	b.WriteString("{")
	for i, elem := range la.elements() {
		if i > 0 {
			b.WriteString(", ")
		}
		if elem == LookaheadEOF {
			b.WriteString("<eof>")
			continue
		}
		sym, err := newTerminalSymbol(elem - 1)
		if err != nil {
			b.WriteString("?")
			continue
		}
		text, _ := symTab.toText(sym)
		b.WriteString(text)
	}
	b.WriteString("}")
	return b.String()
}
