package error

import (
	"fmt"
	"strings"
)

// GrammarError is an error tied to a position in a grammar source.
type GrammarError struct {
	Cause  error
	Detail string
	Source string
	Row    int
	Col    int
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%v: ", e.Source)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	return b.String()
}

type GrammarErrors []*GrammarError

func (e GrammarErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(e[0].Error())
	for _, err := range e[1:] {
		b.WriteString("\n")
		b.WriteString(err.Error())
	}
	return b.String()
}
