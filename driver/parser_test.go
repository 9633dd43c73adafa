package driver

import (
	"strings"
	"testing"

	"github.com/hane9/loom/grammar"
	"github.com/hane9/loom/spec"
)

func buildTable(t *testing.T, src string) (*grammar.Grammar, *grammar.ParsingTable) {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	tab, err := grammar.GenTable(gram)
	if err != nil {
		t.Fatal(err)
	}
	return gram, tab
}

// testTokenStream feeds a fixed terminal sequence and then the end of
// input forever.
type testTokenStream struct {
	tokens []*Token
	pos    int
}

func newTestTokenStream(t *testing.T, gram *grammar.Grammar, names ...string) *testTokenStream {
	t.Helper()

	tokens := make([]*Token, len(names))
	for i, name := range names {
		term, ok := gram.Terminal(name)
		if !ok {
			t.Fatalf("terminal was not found: %v", name)
		}
		tokens[i] = &Token{
			Terminal: grammar.LookaheadOfTerminal(term),
			Lexeme:   []byte(name),
		}
	}
	return &testTokenStream{
		tokens: tokens,
	}
}

func (ts *testTokenStream) Next() (*Token, error) {
	if ts.pos >= len(ts.tokens) {
		return &Token{
			Terminal: grammar.LookaheadEOF,
			EOF:      true,
		}, nil
	}
	tok := ts.tokens[ts.pos]
	ts.pos++
	return tok, nil
}

func terminalLA(t *testing.T, gram *grammar.Grammar, name string) int {
	t.Helper()

	term, ok := gram.Terminal(name)
	if !ok {
		t.Fatalf("terminal was not found: %v", name)
	}
	return grammar.LookaheadOfTerminal(term)
}

func TestParser_Feed(t *testing.T) {
	src := `
s: a;

a: 'a';
`
	gram, tab := buildTable(t, src)
	p, err := NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}

	step, err := p.Feed(terminalLA(t, gram, "a"))
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepShift {
		t.Fatalf("unexpected step: %v", step.Kind)
	}

	// The reduce does not consume the end of input; it must be fed
	// again to reach the accept.
	step, err = p.Feed(grammar.LookaheadEOF)
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepReduce {
		t.Fatalf("unexpected step: %v", step.Kind)
	}
	if tab.ProductionTag(step.Production) != "a" || tab.NonTerminalText(tab.ProductionLHS(step.Production)) != "s" {
		t.Fatalf("unexpected reduced production: %v", step.Production)
	}

	step, err = p.Feed(grammar.LookaheadEOF)
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepAccept {
		t.Fatalf("unexpected step: %v", step.Kind)
	}
}

func TestParser_RejectsInvalidInput(t *testing.T) {
	src := `
s: a;

a: 'a';
`
	gram, tab := buildTable(t, src)
	p, err := NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Feed(terminalLA(t, gram, "a")); err != nil {
		t.Fatal(err)
	}
	_, err = p.Feed(terminalLA(t, gram, "a"))
	if err == nil {
		t.Fatalf("a second a must be rejected")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("unexpected error type: %T: %v", err, err)
	}
	if perr.Lookahead != terminalLA(t, gram, "a") {
		t.Fatalf("unexpected lookahead in the parse error: %v", perr.Lookahead)
	}

	// The stack stays inspectable after the rejection.
	states := p.States()
	if len(states) != 2 || states[0] != grammar.InitialState {
		t.Fatalf("unexpected state stack: %v", states)
	}
}

func TestParser_Parse(t *testing.T) {
	src := `
#name repetition;

s: x x;
x: a x | b;

a: 'a';
b: 'b';
`
	gram, tab := buildTable(t, src)
	p, err := NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestTokenStream(t, gram, "b", "a", "a", "b")
	if err := p.Parse(ts); err != nil {
		t.Fatalf("the input must be accepted: %v", err)
	}

	p, err = NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}
	ts = newTestTokenStream(t, gram, "b", "a", "a")
	err = p.Parse(ts)
	if err == nil {
		t.Fatalf("a truncated input must be rejected")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("unexpected error type: %T: %v", err, err)
	}
}

// One token drives every pending reduce before its shift, and the number
// of reduces equals the number of derivation steps.
func TestParser_OneReducePerDerivationStep(t *testing.T) {
	src := `
#name expr;

s: e;
e: e add t | t;
t: id | l_paren e r_paren;

add: '+';
l_paren: '(';
r_paren: ')';
id: "[A-Za-z_][0-9A-Za-z_]*";
`
	gram, tab := buildTable(t, src)
	p, err := NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}

	input := []int{
		terminalLA(t, gram, "id"),
		terminalLA(t, gram, "add"),
		terminalLA(t, gram, "l_paren"),
		terminalLA(t, gram, "id"),
		terminalLA(t, gram, "r_paren"),
		grammar.LookaheadEOF,
	}
	var shifts, reduces int
	accepted := false
	for _, la := range input {
		for {
			step, err := p.Feed(la)
			if err != nil {
				t.Fatalf("the input must be accepted: %v", err)
			}
			if step.Kind == StepShift {
				shifts++
				break
			}
			if step.Kind == StepReduce {
				reduces++
				continue
			}
			accepted = true
			break
		}
		if accepted {
			break
		}
	}

	if !accepted {
		t.Fatalf("the input must be accepted")
	}
	if shifts != 5 {
		t.Errorf("unexpected shift count: %v", shifts)
	}
	if reduces != 7 {
		t.Errorf("unexpected reduce count: %v", reduces)
	}
}

func TestParser_CST(t *testing.T) {
	src := `
#name repetition;

s: x x;
x: a x | b;

a: 'a';
b: 'b';
`
	gram, tab := buildTable(t, src)
	p, err := NewParser(tab, MakeCST())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestTokenStream(t, gram, "b", "a", "b")
	if err := p.Parse(ts); err != nil {
		t.Fatalf("the input must be accepted: %v", err)
	}

	cst := p.CST()
	if cst == nil {
		t.Fatalf("an accepting parse with MakeCST must produce a tree")
	}
	if cst.KindName != "s" || len(cst.Children) != 2 {
		t.Fatalf("unexpected root: %v with %v children", cst.KindName, len(cst.Children))
	}
	first := cst.Children[0]
	if first.KindName != "x" || len(first.Children) != 1 || first.Children[0].KindName != "b" {
		t.Fatalf("unexpected first subtree: %v", first.KindName)
	}
	second := cst.Children[1]
	if second.KindName != "x" || len(second.Children) != 2 {
		t.Fatalf("unexpected second subtree: %v with %v children", second.KindName, len(second.Children))
	}
	if second.Children[0].KindName != "a" || second.Children[1].KindName != "x" {
		t.Fatalf("unexpected second subtree children: %v, %v", second.Children[0].KindName, second.Children[1].KindName)
	}
	if second.Children[0].Text != "a" {
		t.Fatalf("a terminal node must carry its lexeme: %#v", second.Children[0].Text)
	}
}

func TestParse_WithTokenStream(t *testing.T) {
	src := `
#name expr;

s: e;
e: e add t | t;
t: id | l_paren e r_paren;

ws: "[\u{0009}\u{0020}]+" #skip;
add: '+';
l_paren: '(';
r_paren: ')';
id: "[A-Za-z_][0-9A-Za-z_]*";
`
	gram, tab := buildTable(t, src)
	lexSpec, err := grammar.GenLexerSpec(gram)
	if err != nil {
		t.Fatalf("failed to compile the lexical specification: %v", err)
	}

	ts, err := NewTokenStream(lexSpec, strings.NewReader("foo + (bar)"))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(tab, MakeCST())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Parse(ts); err != nil {
		t.Fatalf("the input must be accepted: %v", err)
	}
	if p.CST() == nil || p.CST().KindName != "s" {
		t.Fatalf("unexpected tree root")
	}

	ts, err = NewTokenStream(lexSpec, strings.NewReader("foo + +"))
	if err != nil {
		t.Fatal(err)
	}
	p, err = NewParser(tab)
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse(ts)
	if err == nil {
		t.Fatalf("a malformed input must be rejected")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("unexpected error type: %T: %v", err, err)
	}
}
