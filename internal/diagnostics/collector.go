package diagnostics

import (
	"fmt"
	"sort"
)

// Collector accumulates diagnostics for one compilation unit. Entries are
// deduplicated by position, code and message; Errors returns them ordered by
// position so output is deterministic.
//
// A Collector is owned by a single goroutine.
type Collector struct {
	set   map[string]*DiagnosticError
	order []string
}

func NewCollector() *Collector {
	return &Collector{set: make(map[string]*DiagnosticError)}
}

// Add records err unless an identical diagnostic is already present.
func (c *Collector) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	if c.set == nil {
		c.set = make(map[string]*DiagnosticError)
	}
	key := fmt.Sprintf("%s:%d:%d:%s:%s", err.File, err.Token.Line, err.Token.Column, err.Code, err.Message)
	if _, ok := c.set[key]; ok {
		return
	}
	c.set[key] = err
	c.order = append(c.order, key)
}

// AddAll records each of errs.
func (c *Collector) AddAll(errs []*DiagnosticError) {
	for _, err := range errs {
		c.Add(err)
	}
}

// Len returns the number of distinct diagnostics.
func (c *Collector) Len() int {
	return len(c.order)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, err := range c.set {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns all diagnostics sorted by file, line and column. Diagnostics
// at the same position keep insertion order.
func (c *Collector) Errors() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.set[key])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].File != result[j].File {
			return result[i].File < result[j].File
		}
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

// Messages returns the rendered messages in Errors order.
func (c *Collector) Messages() []string {
	var msgs []string
	for _, err := range c.Errors() {
		msgs = append(msgs, err.Message)
	}
	return msgs
}
