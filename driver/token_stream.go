package driver

import (
	"io"

	mldriver "github.com/nihei9/maleeni/driver"

	"github.com/hane9/loom/grammar"
)

// Token carries one terminal of the input in the lookahead index space:
// Terminal is grammar.LookaheadEOF at the end of input, otherwise the
// lookahead index of the matched terminal. An invalid token matches no
// terminal: Invalid is set and Terminal is left zero.
type Token struct {
	Terminal int
	Lexeme   []byte
	Row      int
	Col      int
	EOF      bool
	Invalid  bool
}

type TokenStream interface {
	Next() (*Token, error)
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
}

// NewTokenStream tokenizes src with the grammar's compiled lexical
// specification, dropping skip kinds.
func NewTokenStream(ls *grammar.LexerSpec, src io.Reader) (TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(ls.Spec), src)
	if err != nil {
		return nil, err
	}
	return &tokenStream{
		lex:            lex,
		kindToTerminal: ls.KindToTerminal,
		skip:           ls.Skip,
	}, nil
}

func (s *tokenStream) Next() (*Token, error) {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &Token{
				Terminal: grammar.LookaheadEOF,
				Row:      tok.Row,
				Col:      tok.Col,
				EOF:      true,
			}, nil
		}
		if tok.Invalid {
			return &Token{
				Lexeme:  tok.Lexeme,
				Row:     tok.Row,
				Col:     tok.Col,
				Invalid: true,
			}, nil
		}
		if s.skip[tok.KindID] > 0 {
			continue
		}
		return &Token{
			Terminal: grammar.LookaheadOfTerminal(s.kindToTerminal[tok.KindID]),
			Lexeme:   tok.Lexeme,
			Row:      tok.Row,
			Col:      tok.Col,
		}, nil
	}
}
