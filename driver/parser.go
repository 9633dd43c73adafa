package driver

import (
	"fmt"
	"io"

	"github.com/hane9/loom/grammar"
)

type StepKind string

const (
	StepShift  = StepKind("shift")
	StepReduce = StepKind("reduce")
	StepAccept = StepKind("accept")
)

// Step is the outcome of feeding one lookahead to the parser. A reduce
// step does not consume the lookahead; the caller feeds it again.
type Step struct {
	Kind       StepKind
	State      int
	Production int
}

type ParseError struct {
	State     int
	Lookahead int
	Token     *Token
}

func (e *ParseError) Error() string {
	if e.Token != nil && !e.Token.EOF {
		return fmt.Sprintf("unexpected token %#v at %v:%v; state: %v", string(e.Token.Lexeme), e.Token.Row, e.Token.Col, e.State)
	}
	return fmt.Sprintf("unexpected end of input; state: %v", e.State)
}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

type ParserOption func(p *Parser) error

func MakeCST() ParserOption {
	return func(p *Parser) error {
		p.makeCST = true
		return nil
	}
}

// Parser is the state-stack machine consuming a parsing table. It is
// single-threaded, but any number of parsers may share one table.
type Parser struct {
	tab        *grammar.ParsingTable
	stateStack []int
	semStack   []*Node
	cst        *Node
	makeCST    bool
}

func NewParser(tab *grammar.ParsingTable, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		tab:        tab,
		stateStack: []int{grammar.InitialState},
	}
	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Feed performs exactly one table action for a lookahead index and
// reports it. After a reduce the same lookahead must be fed again; a
// single token can drive any number of reduces before its shift.
func (p *Parser) Feed(lookahead int) (*Step, error) {
	s := p.top()
	act, next, prod := p.tab.GetAction(s, lookahead)
	switch act {
	case grammar.ActionTypeShift:
		p.push(next)
		return &Step{
			Kind:  StepShift,
			State: next,
		}, nil
	case grammar.ActionTypeReduce:
		n := p.tab.ProductionRHSLen(prod)
		p.pop(n)
		lhs := p.tab.ProductionLHS(prod)
		nextState, ok := p.tab.GetGoto(p.top(), lhs)
		if !ok {
			return nil, fmt.Errorf("GOTO entry not found; state: %v, non-terminal: %v", p.top(), p.tab.NonTerminalText(lhs))
		}
		p.push(nextState)
		return &Step{
			Kind:       StepReduce,
			Production: prod,
		}, nil
	case grammar.ActionTypeAccept:
		return &Step{
			Kind:       StepAccept,
			Production: prod,
		}, nil
	default:
		return nil, &ParseError{
			State:     s,
			Lookahead: lookahead,
		}
	}
}

// Parse drives the machine over a token stream until accept or the first
// syntax error.
func (p *Parser) Parse(ts TokenStream) error {
	tok, err := p.nextToken(ts)
	if err != nil {
		return err
	}
	for {
		step, err := p.Feed(tok.Terminal)
		if err != nil {
			if perr, ok := err.(*ParseError); ok {
				perr.Token = tok
			}
			return err
		}
		switch step.Kind {
		case StepShift:
			p.actOnShift(tok)
			tok, err = p.nextToken(ts)
			if err != nil {
				return err
			}
		case StepReduce:
			p.actOnReduction(step.Production)
		case StepAccept:
			p.actOnAccepting()
			return nil
		}
	}
}

func (p *Parser) nextToken(ts TokenStream) (*Token, error) {
	tok, err := ts.Next()
	if err != nil {
		return nil, err
	}
	if tok.Invalid {
		return nil, fmt.Errorf("invalid token %#v at %v:%v", string(tok.Lexeme), tok.Row, tok.Col)
	}
	return tok, nil
}

func (p *Parser) actOnShift(tok *Token) {
	if !p.makeCST {
		return
	}
	p.semStack = append(p.semStack, &Node{
		KindName: p.tab.LookaheadText(tok.Terminal),
		Text:     string(tok.Lexeme),
		Row:      tok.Row,
		Col:      tok.Col,
	})
}

func (p *Parser) actOnReduction(prod int) {
	if !p.makeCST {
		return
	}
	n := p.tab.ProductionRHSLen(prod)
	handle := p.semStack[len(p.semStack)-n:]
	children := make([]*Node, len(handle))
	copy(children, handle)
	p.semStack = p.semStack[:len(p.semStack)-n]
	p.semStack = append(p.semStack, &Node{
		KindName: p.tab.NonTerminalText(p.tab.ProductionLHS(prod)),
		Children: children,
	})
}

func (p *Parser) actOnAccepting() {
	if !p.makeCST {
		return
	}
	p.cst = p.semStack[len(p.semStack)-1]
}

// CST returns the concrete syntax tree after an accepting Parse run with
// the MakeCST option.
func (p *Parser) CST() *Node {
	return p.cst
}

// States returns the current state stack, bottom first. The stack stays
// inspectable after a parse error.
func (p *Parser) States() []int {
	states := make([]int, len(p.stateStack))
	copy(states, p.stateStack)
	return states
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}
