// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"fmt"
	"strings"
)

// printer renders statements as indented text.
type printer struct {
	w      strings.Builder
	indent int
}

func (p *printer) line(format string, a ...any) {
	p.w.WriteString(strings.Repeat("  ", p.indent))
	p.w.WriteString(fmt.Sprintf(format, a...))
	p.w.WriteString("\n")
}

func printStmt(s Stmt) string {
	p := &printer{}
	s.print(p)
	return strings.TrimSuffix(p.w.String(), "\n")
}

// Store writes the value of an expression into one element of a buffer.
// The store only takes place when the mask predicate is true.
type Store struct {
	Buf     *Buffer
	Indices []Expr
	Value   Expr
	Mask    Expr
}

var _ Stmt = (*Store)(nil)

func (*Store) node() {}

func (st *Store) print(p *printer) {
	target := fmt.Sprintf("%s[%s] = %s;", st.Buf.Name(), exprList(st.Indices), st.Value)
	if imm, ok := st.Mask.(*IntImm); ok && imm.Value == 1 {
		p.line("%s", target)
		return
	}
	p.line("if %s { %s }", st.Mask, target)
}

// String representation of the store.
func (st *Store) String() string { return printStmt(st) }

// For iterates its index variable over [Start, Stop) and executes its
// body statement once per iteration.
type For struct {
	Index *Var
	Start Expr
	Stop  Expr
	Body  Stmt
}

var _ Stmt = (*For)(nil)

func (*For) node() {}

func (f *For) print(p *printer) {
	p.line("for %s in [%s, %s) {", f.Index.Name(), f.Start, f.Stop)
	p.indent++
	f.Body.print(p)
	p.indent--
	p.line("}")
}

// String representation of the loop.
func (f *For) String() string { return printStmt(f) }

// Block is an ordered list of statements executed in sequence.
type Block struct {
	List []Stmt
}

var _ Stmt = (*Block)(nil)

func (*Block) node() {}

func (b *Block) print(p *printer) {
	for _, s := range b.List {
		s.print(p)
	}
}

// String representation of the block.
func (b *Block) String() string { return printStmt(b) }
