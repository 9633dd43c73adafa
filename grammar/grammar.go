package grammar

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"

	verr "github.com/hane9/loom/error"
	"github.com/hane9/loom/spec"
)

// Grammar is the immutable input of the table generator: named terminals
// and non-terminals with dense index spaces, and productions grouped by
// LHS. The non-terminal 0 is the synthesized augmented start symbol, and
// production 0 is its single wrapping production.
type Grammar struct {
	name      string
	symTab    *symbolTable
	prods     *productionSet
	lexSpec   *mlspec.LexSpec
	skipKinds map[mlspec.LexKindName]struct{}
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) TerminalCount() int {
	return g.symTab.terminalCount()
}

func (g *Grammar) NonTerminalCount() int {
	return g.symTab.nonTerminalCount()
}

// Terminal returns the index of a named terminal.
func (g *Grammar) Terminal(name string) (int, bool) {
	sym, ok := g.symTab.toSymbol(name)
	if !ok || !sym.IsTerminal() {
		return 0, false
	}
	return sym.Num(), true
}

type GrammarBuilder struct {
	AST *spec.RootNode
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	var terminalRules []*spec.ProductionNode
	var syntacticRules []*spec.ProductionNode
	defined := map[string]*spec.ProductionNode{}
	for _, prod := range b.AST.Productions {
		if _, ok := defined[prod.LHS]; ok {
			return nil, &verr.GrammarError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			}
		}
		defined[prod.LHS] = prod

		if isTerminalRule(prod) {
			terminalRules = append(terminalRules, prod)
			continue
		}
		if prod.Directive != nil {
			return nil, &verr.GrammarError{
				Cause:  semErrDirInvalidName,
				Detail: prod.Directive.Name,
				Row:    prod.Directive.Pos.Row,
				Col:    prod.Directive.Pos.Col,
			}
		}
		syntacticRules = append(syntacticRules, prod)
	}
	if len(syntacticRules) == 0 {
		return nil, &verr.GrammarError{
			Cause: semErrNoProduction,
		}
	}

	symTab := newSymbolTable()
	skipKinds := map[mlspec.LexKindName]struct{}{}
	var entries []*mlspec.LexEntry
	for _, rule := range terminalRules {
		elem := rule.RHS[0].Elements[0]
		pattern := elem.Pattern
		if elem.Literally {
			pattern = mlspec.EscapePattern(elem.Pattern)
		}
		entries = append(entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(rule.LHS),
			Pattern: mlspec.LexPattern(pattern),
		})

		if rule.Directive != nil {
			if rule.Directive.Name != "skip" {
				return nil, &verr.GrammarError{
					Cause:  semErrDirInvalidName,
					Detail: rule.Directive.Name,
					Row:    rule.Directive.Pos.Row,
					Col:    rule.Directive.Pos.Col,
				}
			}
			skipKinds[mlspec.LexKindName(rule.LHS)] = struct{}{}
			continue
		}
		_, err := symTab.registerTerminal(rule.LHS)
		if err != nil {
			return nil, err
		}
	}

	// The augmented start symbol takes non-terminal number 0 so that the
	// generator can identify start productions without extra bookkeeping.
	startText := syntacticRules[0].LHS
	augmentedStart, err := symTab.registerNonTerminal(startText + "'")
	if err != nil {
		return nil, err
	}
	for _, rule := range syntacticRules {
		_, err := symTab.registerNonTerminal(rule.LHS)
		if err != nil {
			return nil, err
		}
	}

	prods := newProductionSet(symTab.nonTerminalCount())
	startSym, _ := symTab.toSymbol(startText)
	augmentedProd, err := newProduction(augmentedStart, []Symbol{startSym}, startText)
	if err != nil {
		return nil, err
	}
	err = prods.append(augmentedProd)
	if err != nil {
		return nil, err
	}
	for _, rule := range syntacticRules {
		lhs, _ := symTab.toSymbol(rule.LHS)
		for _, alt := range rule.RHS {
			rhs := make([]Symbol, 0, len(alt.Elements))
			tags := make([]string, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				if elem.ID == "" {
					return nil, &verr.GrammarError{
						Cause:  semErrPatternInSyntax,
						Detail: elem.Pattern,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					}
				}
				sym, ok := symTab.toSymbol(elem.ID)
				if !ok {
					cause := semErrUndefinedSym
					if _, skipped := skipKinds[mlspec.LexKindName(elem.ID)]; skipped {
						cause = semErrTermCannotBeSkipped
					}
					return nil, &verr.GrammarError{
						Cause:  cause,
						Detail: elem.ID,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					}
				}
				rhs = append(rhs, sym)
				tags = append(tags, elem.ID)
			}
			tag := strings.Join(tags, " ")
			if tag == "" {
				tag = "ε"
			}
			prod, err := newProduction(lhs, rhs, tag)
			if err != nil {
				return nil, err
			}
			err = prods.append(prod)
			if err != nil {
				return nil, &verr.GrammarError{
					Cause:  semErrDuplicateProduction,
					Detail: fmt.Sprintf("%v: %v", rule.LHS, tag),
					Row:    rule.Pos.Row,
					Col:    rule.Pos.Col,
				}
			}
		}
	}

	return &Grammar{
		name:   b.AST.Name,
		symTab: symTab,
		prods:  prods,
		lexSpec: &mlspec.LexSpec{
			Name:    b.AST.Name,
			Entries: entries,
		},
		skipKinds: skipKinds,
	}, nil
}

// isTerminalRule reports whether a production defines a terminal: a
// single alternative holding a single pattern or string element.
func isTerminalRule(prod *spec.ProductionNode) bool {
	if len(prod.RHS) != 1 || len(prod.RHS[0].Elements) != 1 {
		return false
	}
	return prod.RHS[0].Elements[0].ID == ""
}

// GenTable generates the LALR(1) parsing table for a grammar. Generation
// fails on a malformed grammar and on the first action conflict; it never
// emits a partial table.
func GenTable(gram *Grammar) (*ParsingTable, error) {
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

	b := &lrTableBuilder{
		automaton:  automaton,
		prods:      gram.prods,
		symTab:     gram.symTab,
		startProds: len(gram.prods.byLHS[0]),
	}
	return b.build()
}

func validate(gram *Grammar) error {
	if gram.prods.count() == 0 {
		return fmt.Errorf("grammar has no production")
	}
	for num := 0; num < gram.symTab.nonTerminalCount(); num++ {
		sym, err := newNonTerminalSymbol(num)
		if err != nil {
			return err
		}
		if len(gram.prods.findByLHS(sym)) == 0 {
			text, _ := gram.symTab.toText(sym)
			return fmt.Errorf("non-terminal '%v' has no production", text)
		}
	}
	return nil
}

// LexerSpec is a compiled lexical specification plus the mapping from
// lexical kinds onto the grammar's terminal indices.
type LexerSpec struct {
	Spec           *mlspec.CompiledLexSpec
	KindToTerminal []int
	Skip           []int
}

// GenLexerSpec compiles the grammar's terminal patterns into a DFA-backed
// lexical specification.
func GenLexerSpec(gram *Grammar) (*LexerSpec, error) {
	if len(gram.lexSpec.Entries) == 0 {
		return nil, fmt.Errorf("grammar has no terminal pattern")
	}
	cspec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}

	kindToTerm := make([]int, len(cspec.KindNames))
	skip := make([]int, len(cspec.KindNames))
	for i, k := range cspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		if _, ok := gram.skipKinds[k]; ok {
			skip[i] = 1
			continue
		}
		sym, ok := gram.symTab.toSymbol(k.String())
		if !ok || !sym.IsTerminal() {
			return nil, fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kindToTerm[i] = sym.Num()
	}

	return &LexerSpec{
		Spec:           cspec,
		KindToTerminal: kindToTerm,
		Skip:           skip,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
