package grammar

import "fmt"

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

// actionEntry packs one action-table cell into an int: 0 is the error
// cell, negative values shift to state -e-1, positive values reduce
// production e-1. A reduce of a start production is reported as accept.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state int) actionEntry {
	return actionEntry(-(state + 1))
}

func newReduceActionEntry(prod int) actionEntry {
	return actionEntry(prod + 1)
}

func (e actionEntry) describe(startProds int) (ActionType, int, int) {
	if e == actionEntryEmpty {
		return ActionTypeError, 0, 0
	}
	if e < 0 {
		return ActionTypeShift, int(-e) - 1, 0
	}
	prod := int(e) - 1
	if prod < startProds {
		return ActionTypeAccept, 0, prod
	}
	return ActionTypeReduce, 0, prod
}

// Action is an action-table cell in its exported form.
type Action struct {
	Type       ActionType
	State      int
	Production int
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v", a.Production)
	case ActionTypeAccept:
		return "accept"
	default:
		return "error"
	}
}

// ConflictError reports the first cell that two unequal actions competed
// for. Emission order is canonical, so the reported pair is deterministic
// for a given grammar.
type ConflictError struct {
	State         int
	Lookahead     int
	LookaheadText string
	Existing      Action
	Incoming      Action
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict in state %v on %v: %v vs %v", e.State, e.LookaheadText, e.Existing, e.Incoming)
}

// ParsingTable is the generated LALR(1) action/goto table. The action
// table has a row per state and a column per lookahead index; the goto
// table has a column per non-terminal. Both are dense, and the table
// shares no storage with the generator that built it.
type ParsingTable struct {
	actionTable    []actionEntry
	goToTable      []int
	stateCount     int
	lookaheadCount int
	termCount      int
	nonTermCount   int
	startProds     int

	terminals    []string
	nonTerminals []string
	prodLHS      []int
	prodRHSLens  []int
	prodTags     []string
}

// InitialState is the state every parse starts in.
const InitialState = stateNumInitial

// GetAction returns the action for a state under a lookahead index, with
// the shift target or the reduced production where applicable.
func (t *ParsingTable) GetAction(state, lookahead int) (ActionType, int, int) {
	return t.actionTable[state*t.lookaheadCount+lookahead].describe(t.startProds)
}

// GetGoto returns the successor state for a state and a non-terminal.
func (t *ParsingTable) GetGoto(state, nonTerminal int) (int, bool) {
	e := t.goToTable[state*t.nonTermCount+nonTerminal]
	if e == 0 {
		return 0, false
	}
	return e - 1, true
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) TerminalCount() int {
	return t.termCount
}

func (t *ParsingTable) NonTerminalCount() int {
	return t.nonTermCount
}

func (t *ParsingTable) ProductionCount() int {
	return len(t.prodLHS)
}

func (t *ParsingTable) ProductionLHS(prod int) int {
	return t.prodLHS[prod]
}

func (t *ParsingTable) ProductionRHSLen(prod int) int {
	return t.prodRHSLens[prod]
}

func (t *ParsingTable) ProductionTag(prod int) string {
	return t.prodTags[prod]
}

func (t *ParsingTable) TerminalText(term int) string {
	return t.terminals[term]
}

func (t *ParsingTable) NonTerminalText(nonTerminal int) string {
	return t.nonTerminals[nonTerminal]
}

// LookaheadText names a lookahead index for diagnostics.
func (t *ParsingTable) LookaheadText(lookahead int) string {
	if lookahead == LookaheadEOF {
		return "<eof>"
	}
	return t.terminals[lookahead-1]
}

func (t *ParsingTable) readAction(state, lookahead int) actionEntry {
	return t.actionTable[state*t.lookaheadCount+lookahead]
}

func (t *ParsingTable) writeAction(state, lookahead int, act actionEntry) {
	t.actionTable[state*t.lookaheadCount+lookahead] = act
}

type lrTableBuilder struct {
	automaton  *lalrAutomaton
	prods      *productionSet
	symTab     *symbolTable
	startProds int
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	termCount := b.symTab.terminalCount()
	nonTermCount := b.symTab.nonTerminalCount()
	stateCount := len(b.automaton.states)

	ptab := &ParsingTable{
		actionTable:    make([]actionEntry, stateCount*(termCount+1)),
		goToTable:      make([]int, stateCount*nonTermCount),
		stateCount:     stateCount,
		lookaheadCount: termCount + 1,
		termCount:      termCount,
		nonTermCount:   nonTermCount,
		startProds:     b.startProds,
	}

	ptab.terminals = make([]string, termCount)
	copy(ptab.terminals, b.symTab.termTexts)
	ptab.nonTerminals = make([]string, nonTermCount)
	copy(ptab.nonTerminals, b.symTab.nonTermTexts)
	ptab.prodLHS = make([]int, b.prods.count())
	ptab.prodRHSLens = make([]int, b.prods.count())
	ptab.prodTags = make([]string, b.prods.count())
	for _, prod := range b.prods.productions() {
		ptab.prodLHS[prod.num] = prod.lhs.Num()
		ptab.prodRHSLens[prod.num] = prod.rhsLen
		ptab.prodTags[prod.num] = prod.tag
	}

	for _, state := range b.automaton.states {
		for _, item := range state.items.items {
			if item.reducible {
				if item.prod.lhs.isStart() {
					// Accepting is reducing a start production with the
					// end of input in hand.
					err := b.putAction(ptab, state.num, LookaheadEOF, newReduceActionEntry(item.prod.num))
					if err != nil {
						return nil, err
					}
					continue
				}
				for _, la := range item.la.elements() {
					err := b.putAction(ptab, state.num, la, newReduceActionEntry(item.prod.num))
					if err != nil {
						return nil, err
					}
				}
				continue
			}

			next, ok := state.next[item.dottedSymbol]
			if !ok {
				return nil, fmt.Errorf("successor not found; state: %v, symbol: %v", state.num, item.dottedSymbol)
			}
			if item.dottedSymbol.IsTerminal() {
				err := b.putAction(ptab, state.num, LookaheadOfTerminal(item.dottedSymbol.Num()), newShiftActionEntry(next))
				if err != nil {
					return nil, err
				}
			} else {
				err := b.putGoTo(ptab, state.num, item.dottedSymbol.Num(), next)
				if err != nil {
					return nil, err
				}
			}
		}
	}

	return ptab, nil
}

// putAction writes a cell, failing on any occupied cell holding an
// unequal action. Re-writing an equal action is a no-op.
func (b *lrTableBuilder) putAction(tab *ParsingTable, state, lookahead int, act actionEntry) error {
	cur := tab.readAction(state, lookahead)
	if cur != actionEntryEmpty && cur != act {
		return &ConflictError{
			State:         state,
			Lookahead:     lookahead,
			LookaheadText: tab.LookaheadText(lookahead),
			Existing:      describeAction(cur, b.startProds),
			Incoming:      describeAction(act, b.startProds),
		}
	}
	tab.writeAction(state, lookahead, act)
	return nil
}

func (b *lrTableBuilder) putGoTo(tab *ParsingTable, state, nonTerminal, next int) error {
	pos := state*tab.nonTermCount + nonTerminal
	if cur := tab.goToTable[pos]; cur != 0 && cur != next+1 {
		return fmt.Errorf("goto conflict; state: %v, non-terminal: %v: %v vs %v", state, nonTerminal, cur-1, next)
	}
	tab.goToTable[pos] = next + 1
	return nil
}

func describeAction(e actionEntry, startProds int) Action {
	ty, state, prod := e.describe(startProds)
	return Action{
		Type:       ty,
		State:      state,
		Production: prod,
	}
}
