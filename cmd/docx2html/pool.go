package main

import (
	"fmt"

	docx2html "github.com/alnah/go-docx2html"
)

// poolAdapter exposes a docx2html.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *docx2html.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire returns nil when the pool cannot build another converter.
func (a *poolAdapter) Acquire() CLIConverter {
	c := a.pool.Acquire()
	if c == nil {
		return nil
	}
	return c
}

// Release panics on a converter that did not come from the pool.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*docx2html.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
