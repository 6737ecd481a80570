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

package lower

import (
	"github.com/gx-org/tensorexpr/ir"
)

// Tensor describes one output of a tensor program: an output buffer,
// one index variable per free axis, the variables and extents of the
// reduction axes, and the scalar expression computed at each
// coordinate.
//
// A tensor is built once by [Compute], [Reduce], or [FromStmt], then
// read by [Tensor.LowerToStmt]. The builders establish the invariants
// lowering relies on: the number of free variables always matches the
// rank of the output buffer, and variables follow the declaration
// order of their dimension arguments.
type Tensor struct {
	arena      *ir.Arena
	buf        *ir.Buffer
	freeVars   []*ir.Var
	reduceVars []*ir.Var
	reduceDims []ir.Expr
	body       ir.Expr
	stmt       ir.Stmt
}

// FromStmt returns a tensor already materialized into buf by stmt.
// The tensor has no functional body: its axes are pre-expanded and
// lowering returns stmt unchanged.
func FromStmt(a *ir.Arena, buf *ir.Buffer, stmt ir.Stmt) *Tensor {
	return &Tensor{arena: a, buf: buf, stmt: stmt}
}

// Name of the tensor, which is the name of its output buffer.
func (t *Tensor) Name() string { return t.buf.Name() }

// Buf returns the output buffer descriptor of the tensor.
func (t *Tensor) Buf() *ir.Buffer { return t.buf }

// NDim returns the number of free axes of the tensor.
func (t *Tensor) NDim() int { return len(t.freeVars) }

// ReduceNDim returns the number of reduction axes of the tensor.
func (t *Tensor) ReduceNDim() int { return len(t.reduceVars) }

// FreeVars returns the index variables of the free axes, in
// declaration order.
func (t *Tensor) FreeVars() []*ir.Var { return t.freeVars }

// ReduceVars returns the index variables of the reduction axes, in
// declaration order.
func (t *Tensor) ReduceVars() []*ir.Var { return t.reduceVars }

// Body returns the expression computing the value of the tensor at one
// coordinate, if the tensor has one.
func (t *Tensor) Body() (ir.Expr, bool) {
	return t.body, t.body != nil
}

// Load returns the value of the tensor at the given coordinates,
// reading from the tensor's output buffer. The tensor must be
// materialized by an earlier stage of the pipeline.
func (t *Tensor) Load(indices ...ir.Expr) ir.Expr {
	return t.arena.NewLoad(t.buf, indices...)
}

func (t *Tensor) freeIndices() []ir.Expr {
	indices := make([]ir.Expr, len(t.freeVars))
	for i, v := range t.freeVars {
		indices[i] = v
	}
	return indices
}

// ElementStmt returns the innermost statement of the loop nest: the
// store of the tensor body into the output buffer at the free-axis
// coordinates.
func (t *Tensor) ElementStmt() ir.Stmt {
	return t.arena.NewStore(t.buf, t.freeIndices(), t.body, t.arena.NewIntImm(1))
}

// LowerToStmt converts the tensor into the statement tree computing it.
//
// The element statement is wrapped in one loop per reduction axis, then
// in one loop per free axis. Loops are built innermost first, walking
// the axes in reverse declaration order, so the first declared axis
// ends up outermost and varies slowest. When the output buffer declares
// an initializer, a store of the initializer is grouped before the
// reduction loops: the accumulator is set exactly once per free-axis
// coordinate, before any reduction iteration reads it.
//
// LowerToStmt is a pure function of the tensor: calling it again
// produces a structurally identical tree.
func (t *Tensor) LowerToStmt() ir.Stmt {
	// A tensor without a functional body has its axes already expanded.
	if t.body == nil {
		return t.stmt
	}
	s := t.ElementStmt()
	if t.NDim() == 0 && t.ReduceNDim() == 0 {
		return s
	}
	if t.ReduceNDim() > 0 {
		for i := len(t.reduceVars) - 1; i >= 0; i-- {
			s = t.arena.NewFor(t.reduceVars[i], t.arena.NewIntImm(0), t.reduceDims[i], s)
		}
		if init, ok := t.buf.Initializer(); ok {
			initStore := t.arena.NewStore(t.buf, t.freeIndices(), init, t.arena.NewIntImm(1))
			s = t.arena.NewBlock(initStore, s)
		}
	}
	for i := len(t.freeVars) - 1; i >= 0; i-- {
		s = t.arena.NewFor(t.freeVars[i], t.arena.NewIntImm(0), t.buf.Dim(i), s)
	}
	return s
}
