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

// Package ir defines the scalar expression and statement nodes produced
// by tensor-expression lowering.
//
// All nodes are allocated by an [Arena] owning every node of one
// compilation unit. References between nodes are plain pointers scoped
// to the arena: nodes never own each other and the whole unit is freed
// at once when the arena is reset.
package ir

import (
	"fmt"
	"strings"

	"github.com/gx-org/backend/dtype"
)

type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()

		// String representation of the node.
		String() string
	}

	// Expr is a scalar expression node.
	Expr interface {
		Node

		// DType returns the data type of the value computed by the expression.
		DType() dtype.DataType
	}

	// Stmt is a statement node.
	Stmt interface {
		Node

		print(*printer)
	}
)

// ----------------------------------------------------------------------------
// Expressions.

// Var is a reference to a named index variable.
type Var struct {
	NameT  string
	DTypeF dtype.DataType
}

var _ Expr = (*Var)(nil)

func (*Var) node() {}

// Name of the variable.
func (v *Var) Name() string { return v.NameT }

// DType returns the data type of the variable.
func (v *Var) DType() dtype.DataType { return v.DTypeF }

// String representation of the variable.
func (v *Var) String() string { return v.NameT }

// IntImm is an integer literal.
type IntImm struct {
	Value int64
}

var _ Expr = (*IntImm)(nil)

func (*IntImm) node() {}

// DType returns the data type of the literal.
func (*IntImm) DType() dtype.DataType { return dtype.Int64 }

// String representation of the literal.
func (imm *IntImm) String() string { return fmt.Sprint(imm.Value) }

// FloatImm is a floating point literal.
type FloatImm struct {
	Value  float64
	DTypeF dtype.DataType
}

var _ Expr = (*FloatImm)(nil)

func (*FloatImm) node() {}

// DType returns the data type of the literal.
func (imm *FloatImm) DType() dtype.DataType { return imm.DTypeF }

// String representation of the literal.
func (imm *FloatImm) String() string { return fmt.Sprint(imm.Value) }

// Load reads one element of a buffer.
type Load struct {
	Buf     *Buffer
	Indices []Expr
}

var _ Expr = (*Load)(nil)

func (*Load) node() {}

// DType returns the element type of the buffer being read.
func (ld *Load) DType() dtype.DataType { return ld.Buf.DType() }

// String representation of the load.
func (ld *Load) String() string {
	return fmt.Sprintf("%s[%s]", ld.Buf.Name(), exprList(ld.Indices))
}

// BinaryOp is the operator of a binary expression.
type BinaryOp int

// Operators of binary expressions.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Max
	Min
)

// String representation of the operator.
func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Max:
		return "Max"
	case Min:
		return "Min"
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

func (op BinaryOp) infix() bool { return op <= Div }

// BinaryExpr combines two expressions with an operator.
// The data type of the expression is the data type of its left operand.
type BinaryExpr struct {
	Op   BinaryOp
	X, Y Expr
}

var _ Expr = (*BinaryExpr)(nil)

func (*BinaryExpr) node() {}

// DType returns the data type of the expression.
func (e *BinaryExpr) DType() dtype.DataType { return e.X.DType() }

// String representation of the expression.
func (e *BinaryExpr) String() string {
	if e.Op.infix() {
		return fmt.Sprintf("(%s %s %s)", e.X, e.Op, e.Y)
	}
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.X, e.Y)
}

func exprList(exprs []Expr) string {
	ss := make([]string, len(exprs))
	for i, expr := range exprs {
		ss[i] = expr.String()
	}
	return strings.Join(ss, ", ")
}
