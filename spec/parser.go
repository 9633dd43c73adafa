package spec

import (
	"io"

	verr "github.com/hane9/loom/error"
)

type RootNode struct {
	Name        string
	Productions []*ProductionNode
}

type ProductionNode struct {
	LHS       string
	RHS       []*AlternativeNode
	Directive *DirectiveNode
	Pos       Position
}

type AlternativeNode struct {
	Elements []*ElementNode
}

type ElementNode struct {
	ID        string
	Pattern   string
	Literally bool
	Pos       Position
}

type DirectiveNode struct {
	Name string
	Pos  Position
}

func raiseSyntaxError(synErr *SyntaxError, pos Position) {
	panic(&verr.GrammarError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(error)
			if !ok {
				panic(err)
			}
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		tok := p.next()
		switch tok.kind {
		case tokenKindEOF:
			if len(root.Productions) == 0 {
				raiseSyntaxError(synErrNoProduction, tok.pos)
			}
			return root
		case tokenKindDirectiveMarker:
			p.parseNameDirective(root)
		case tokenKindID:
			root.Productions = append(root.Productions, p.parseProduction(tok))
		default:
			raiseSyntaxError(synErrNoProductionName, tok.pos)
		}
	}
}

// parseNameDirective handles a top-level "#name ident;".
func (p *parser) parseNameDirective(root *RootNode) {
	tok := p.next()
	if tok.kind != tokenKindID {
		raiseSyntaxError(synErrNoDirectiveName, tok.pos)
	}
	if tok.text != "name" {
		raiseSyntaxError(synErrUnknownDirective, tok.pos)
	}
	tok = p.next()
	if tok.kind != tokenKindID {
		raiseSyntaxError(synErrNoDirectiveName, tok.pos)
	}
	root.Name = tok.text
	tok = p.next()
	if tok.kind != tokenKindSemicolon {
		raiseSyntaxError(synErrNoSemicolon, tok.pos)
	}
}

func (p *parser) parseProduction(lhs *token) *ProductionNode {
	prod := &ProductionNode{
		LHS: lhs.text,
		Pos: lhs.pos,
	}
	tok := p.next()
	if tok.kind != tokenKindColon {
		raiseSyntaxError(synErrNoColon, tok.pos)
	}
	prod.RHS = append(prod.RHS, p.parseAlternative())
	for {
		tok := p.next()
		switch tok.kind {
		case tokenKindOr:
			prod.RHS = append(prod.RHS, p.parseAlternative())
		case tokenKindDirectiveMarker:
			nameTok := p.next()
			if nameTok.kind != tokenKindID {
				raiseSyntaxError(synErrNoDirectiveName, nameTok.pos)
			}
			prod.Directive = &DirectiveNode{
				Name: nameTok.text,
				Pos:  nameTok.pos,
			}
		case tokenKindSemicolon:
			return prod
		default:
			raiseSyntaxError(synErrNoSemicolon, tok.pos)
		}
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenKindID:
			p.next()
			alt.Elements = append(alt.Elements, &ElementNode{
				ID:  tok.text,
				Pos: tok.pos,
			})
		case tokenKindTerminalPattern:
			p.next()
			alt.Elements = append(alt.Elements, &ElementNode{
				Pattern: tok.text,
				Pos:     tok.pos,
			})
		case tokenKindStringLiteral:
			p.next()
			alt.Elements = append(alt.Elements, &ElementNode{
				Pattern:   tok.text,
				Literally: true,
				Pos:       tok.pos,
			})
		case tokenKindInvalid:
			raiseSyntaxError(synErrInvalidToken, tok.pos)
		default:
			return alt
		}
	}
}

func (p *parser) next() *token {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		p.lastTok = tok
		return tok
	}
	tok, err := p.lex.next()
	if err != nil {
		panic(err)
	}
	p.lastTok = tok
	return tok
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}
