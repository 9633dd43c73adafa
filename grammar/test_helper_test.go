package grammar

import (
	"strings"
	"testing"

	"github.com/hane9/loom/spec"
)

func buildGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

func genSym(t *testing.T, gram *Grammar, text string) Symbol {
	t.Helper()

	sym, ok := gram.symTab.toSymbol(text)
	if !ok {
		t.Fatalf("symbol was not found: %v", text)
	}
	return sym
}

func genProd(t *testing.T, gram *Grammar, lhs string, rhs ...string) *production {
	t.Helper()

	lhsSym := genSym(t, gram, lhs)
	tag := strings.Join(rhs, " ")
	if tag == "" {
		tag = "ε"
	}
	for _, prod := range gram.prods.findByLHS(lhsSym) {
		if prod.tag == tag {
			return prod
		}
	}
	t.Fatalf("production was not found: %v: %v", lhs, tag)
	return nil
}

// genLA builds a lookahead set from terminal names; the name "<eof>"
// stands for the end of input.
func genLA(t *testing.T, gram *Grammar, names ...string) *lookaheadSet {
	t.Helper()

	la := newLookaheadSet(gram.symTab.terminalCount())
	for _, name := range names {
		if name == "<eof>" {
			la.insert(LookaheadEOF)
			continue
		}
		sym := genSym(t, gram, name)
		if !sym.IsTerminal() {
			t.Fatalf("not a terminal: %v", name)
		}
		la.insert(LookaheadOfTerminal(sym.Num()))
	}
	return la
}

func equalLA(a, b *lookaheadSet) bool {
	ae := a.elements()
	be := b.elements()
	if len(ae) != len(be) {
		return false
	}
	for i, e := range ae {
		if be[i] != e {
			return false
		}
	}
	return true
}

type expectedItem struct {
	prod *production
	dot  int
	la   *lookaheadSet
}

// expectItems checks that an item set holds exactly the expected items
// with exactly the expected lookaheads.
func expectItems(t *testing.T, gram *Grammar, s *itemSet, expected []*expectedItem) {
	t.Helper()

	if len(s.items) != len(expected) {
		t.Fatalf("unexpected item count: want: %v, got: %v", len(expected), len(s.items))
	}
	for _, e := range expected {
		item, ok := s.find(itemCore{prod: e.prod.num, dot: e.dot})
		if !ok {
			t.Fatalf("item was not found: %v/%v", e.prod.num, e.dot)
		}
		if !equalLA(item.la, e.la) {
			t.Fatalf("unexpected lookahead of %v/%v: want: %v, got: %v", e.prod.num, e.dot, e.la, item.la)
		}
	}
}

func genAutomaton(t *testing.T, gram *Grammar) *lalrAutomaton {
	t.Helper()

	termCount := gram.symTab.terminalCount()
	fst := genFirstSet(gram.prods, termCount, gram.symTab.nonTerminalCount())
	automaton, err := genLALRAutomaton(gram.prods, fst, termCount)
	if err != nil {
		t.Fatalf("failed to generate an automaton: %v", err)
	}
	return automaton
}
