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
	"github.com/gx-org/backend/dtype"
)

// chunkSize is the number of nodes allocated at once by a slab.
const chunkSize = 256

// slab is a bump allocator for one kind of node. Nodes are allocated in
// fixed-size chunks: a chunk is never grown once created, so pointers
// into it stay valid for the life of the slab.
type slab[T any] struct {
	chunks [][]T
}

func (s *slab[T]) alloc() *T {
	last := len(s.chunks) - 1
	if last < 0 || len(s.chunks[last]) == cap(s.chunks[last]) {
		s.chunks = append(s.chunks, make([]T, 0, chunkSize))
		last++
	}
	chunk := &s.chunks[last]
	var zero T
	*chunk = append(*chunk, zero)
	return &(*chunk)[len(*chunk)-1]
}

func (s *slab[T]) len() int {
	total := 0
	for _, chunk := range s.chunks {
		total += len(chunk)
	}
	return total
}

func (s *slab[T]) reset() {
	s.chunks = nil
}

// Arena owns all the nodes of one compilation unit. Nodes reference each
// other with pointers valid for the life of the arena; the whole unit is
// freed at once by [Arena.Reset].
type Arena struct {
	vars    slab[Var]
	ints    slab[IntImm]
	floats  slab[FloatImm]
	loads   slab[Load]
	binops  slab[BinaryExpr]
	buffers slab[Buffer]
	stores  slab[Store]
	fors    slab[For]
	blocks  slab[Block]
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// NumNodes returns the total number of nodes allocated in the arena.
func (a *Arena) NumNodes() int {
	return a.vars.len() + a.ints.len() + a.floats.len() +
		a.loads.len() + a.binops.len() + a.buffers.len() +
		a.stores.len() + a.fors.len() + a.blocks.len()
}

// Reset frees all the nodes of the arena at once.
// Nodes allocated before the reset must not be used afterwards.
func (a *Arena) Reset() {
	a.vars.reset()
	a.ints.reset()
	a.floats.reset()
	a.loads.reset()
	a.binops.reset()
	a.buffers.reset()
	a.stores.reset()
	a.fors.reset()
	a.blocks.reset()
}

// NewVar returns a reference to a named index variable.
func (a *Arena) NewVar(name string, dt dtype.DataType) *Var {
	v := a.vars.alloc()
	*v = Var{NameT: name, DTypeF: dt}
	return v
}

// NewIntImm returns an integer literal.
func (a *Arena) NewIntImm(value int64) *IntImm {
	imm := a.ints.alloc()
	*imm = IntImm{Value: value}
	return imm
}

// NewFloatImm returns a floating point literal of the given data type.
func (a *Arena) NewFloatImm(value float64, dt dtype.DataType) *FloatImm {
	imm := a.floats.alloc()
	*imm = FloatImm{Value: value, DTypeF: dt}
	return imm
}

// NewLoad returns an expression reading one element of a buffer.
func (a *Arena) NewLoad(buf *Buffer, indices ...Expr) *Load {
	ld := a.loads.alloc()
	*ld = Load{Buf: buf, Indices: indices}
	return ld
}

// NewBinary returns an expression combining two operands with an operator.
func (a *Arena) NewBinary(op BinaryOp, x, y Expr) *BinaryExpr {
	e := a.binops.alloc()
	*e = BinaryExpr{Op: op, X: x, Y: y}
	return e
}

// NewStore returns a statement writing a value into one element of a buffer.
func (a *Arena) NewStore(buf *Buffer, indices []Expr, value, mask Expr) *Store {
	st := a.stores.alloc()
	*st = Store{Buf: buf, Indices: indices, Value: value, Mask: mask}
	return st
}

// NewFor returns a loop statement iterating over [start, stop).
func (a *Arena) NewFor(index *Var, start, stop Expr, body Stmt) *For {
	f := a.fors.alloc()
	*f = For{Index: index, Start: start, Stop: stop, Body: body}
	return f
}

// NewBlock returns a statement executing its arguments in sequence.
func (a *Arena) NewBlock(stmts ...Stmt) *Block {
	b := a.blocks.alloc()
	*b = Block{List: stmts}
	return b
}
