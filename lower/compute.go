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
	"github.com/pkg/errors"

	"github.com/gx-org/tensorexpr/base/uname"
	"github.com/gx-org/tensorexpr/ir"
)

// Compute builds a tensor whose value at each coordinate of the index
// domain declared by dims is given by the body callback. The callback
// receives one index variable per dimension argument, in declaration
// order. The output buffer is named after the tensor and sized by the
// declared extents.
func Compute(a *ir.Arena, name string, dims []DimArg, body func(vars []*ir.Var) ir.Expr) (*Tensor, error) {
	extents, vars, err := unpackDims(a, uname.New(), freeRoot, dims)
	if err != nil {
		return nil, errors.Wrapf(err, "compute %s", name)
	}
	expr := body(vars)
	buf := a.NewBuffer(name, expr.DType(), extents...)
	return &Tensor{arena: a, buf: buf, freeVars: vars, body: expr}, nil
}

// Compute1 builds a tensor over a one-axis index domain.
// Declaring any other number of dimension arguments is a malformed
// input, reported before any IR node is allocated.
func Compute1(a *ir.Arena, name string, dims []DimArg, body func(i *ir.Var) ir.Expr) (*Tensor, error) {
	if len(dims) != 1 {
		return nil, arityError(name, "Compute1", 1, len(dims))
	}
	return Compute(a, name, dims, func(vars []*ir.Var) ir.Expr {
		return body(vars[0])
	})
}

// Compute2 builds a tensor over a two-axis index domain.
// Declaring any other number of dimension arguments is a malformed
// input, reported before any IR node is allocated.
func Compute2(a *ir.Arena, name string, dims []DimArg, body func(i, j *ir.Var) ir.Expr) (*Tensor, error) {
	if len(dims) != 2 {
		return nil, arityError(name, "Compute2", 2, len(dims))
	}
	return Compute(a, name, dims, func(vars []*ir.Var) ir.Expr {
		return body(vars[0], vars[1])
	})
}

// Compute3 builds a tensor over a three-axis index domain.
// Declaring any other number of dimension arguments is a malformed
// input, reported before any IR node is allocated.
func Compute3(a *ir.Arena, name string, dims []DimArg, body func(i, j, k *ir.Var) ir.Expr) (*Tensor, error) {
	if len(dims) != 3 {
		return nil, arityError(name, "Compute3", 3, len(dims))
	}
	return Compute(a, name, dims, func(vars []*ir.Var) ir.Expr {
		return body(vars[0], vars[1], vars[2])
	})
}

// Compute4 builds a tensor over a four-axis index domain.
// Declaring any other number of dimension arguments is a malformed
// input, reported before any IR node is allocated.
func Compute4(a *ir.Arena, name string, dims []DimArg, body func(i, j, k, l *ir.Var) ir.Expr) (*Tensor, error) {
	if len(dims) != 4 {
		return nil, arityError(name, "Compute4", 4, len(dims))
	}
	return Compute(a, name, dims, func(vars []*ir.Var) ir.Expr {
		return body(vars[0], vars[1], vars[2], vars[3])
	})
}

func arityError(name, builder string, want, got int) error {
	return errors.Wrapf(&ArityError{
		Builder: builder,
		Want:    want,
		Got:     got,
	}, "compute %s", name)
}
