package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs Symbol, rhs []Symbol) productionID {
	seq := lhs.byte()
	for _, sym := range rhs {
		seq = append(seq, sym.byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

type production struct {
	id     productionID
	num    int
	lhs    Symbol
	rhs    []Symbol
	rhsLen int

	// tag names the alternative within its LHS group.
	tag string
}

func newProduction(lhs Symbol, rhs []Symbol, tag string) (*production, error) {
	if lhs.IsNil() || !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	return &production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
		tag:    tag,
	}, nil
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

// productionSet holds productions in definition order, grouped by LHS so
// that all alternatives of a non-terminal occupy a contiguous range of
// production numbers.
type productionSet struct {
	all     []*production
	byLHS   [][]*production
	id2Prod map[productionID]*production
}

func newProductionSet(nonTermCount int) *productionSet {
	return &productionSet{
		byLHS:   make([][]*production, nonTermCount),
		id2Prod: map[productionID]*production{},
	}
}

func (ps *productionSet) append(prod *production) error {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return fmt.Errorf("duplicate production; LHS: %v, tag: %v", prod.lhs, prod.tag)
	}
	lhsNum := prod.lhs.Num()
	if lhsNum >= len(ps.byLHS) {
		return fmt.Errorf("non-terminal number is out of range: %v", lhsNum)
	}
	if len(ps.all) > 0 {
		last := ps.all[len(ps.all)-1]
		if last.lhs != prod.lhs && len(ps.byLHS[lhsNum]) > 0 {
			return fmt.Errorf("productions of %v are not contiguous", prod.lhs)
		}
	}
	prod.num = len(ps.all)
	ps.all = append(ps.all, prod)
	ps.byLHS[lhsNum] = append(ps.byLHS[lhsNum], prod)
	ps.id2Prod[prod.id] = prod
	return nil
}

func (ps *productionSet) findByLHS(lhs Symbol) []*production {
	if !lhs.IsNonTerminal() || lhs.Num() >= len(ps.byLHS) {
		return nil
	}
	return ps.byLHS[lhs.Num()]
}

func (ps *productionSet) findByNum(num int) (*production, bool) {
	if num < 0 || num >= len(ps.all) {
		return nil, false
	}
	return ps.all[num], true
}

func (ps *productionSet) productions() []*production {
	return ps.all
}

func (ps *productionSet) count() int {
	return len(ps.all)
}
