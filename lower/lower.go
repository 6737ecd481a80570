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

// Package lower converts functional tensor descriptions into imperative
// loop nests.
//
// A caller declares an index domain as a list of dimension arguments,
// then builds a [Tensor] with [Compute] (one value per coordinate) or
// [Reduce] (extra axes folded into an accumulator). Lowering a tensor
// with [Tensor.LowerToStmt] produces the statement tree consumed by the
// next stage of the pipeline: nested loops around a store of the tensor
// body, with, for reductions, an initializer store placed once per
// output coordinate before the reduction loops.
package lower

import (
	"go.uber.org/multierr"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tensorexpr/base/uname"
	"github.com/gx-org/tensorexpr/ir"
)

// Roots of the names synthesized for anonymous dimension arguments.
const (
	freeRoot   = "i"
	reduceRoot = "r"
)

// DimArg declares one axis of an index domain: an extent and an
// optional explicit loop-variable name.
type DimArg struct {
	extent ir.Expr
	name   string
}

// Dim declares an axis with a synthesized loop-variable name.
func Dim(extent ir.Expr) DimArg {
	return DimArg{extent: extent}
}

// NamedDim declares an axis with an explicit loop-variable name.
func NamedDim(extent ir.Expr, name string) DimArg {
	return DimArg{extent: extent, name: name}
}

// Extent of the axis.
func (d DimArg) Extent() ir.Expr { return d.extent }

// Name returns the explicit loop-variable name of the axis, if one was
// declared.
func (d DimArg) Name() (string, bool) {
	return d.name, d.name != ""
}

// unpackDims splits dimension arguments into two parallel sequences of
// extents and loop variables, preserving declaration order. Anonymous
// arguments get a fresh name built from root. Explicit names are
// registered first so that no synthesized name can collide with them;
// two arguments declaring the same explicit name are rejected.
func unpackDims(a *ir.Arena, names *uname.Unique, root string, dims []DimArg) ([]ir.Expr, []*ir.Var, error) {
	var errs error
	for _, dim := range dims {
		name, ok := dim.Name()
		if !ok {
			continue
		}
		if !names.Register(name) {
			errs = multierr.Append(errs, &DuplicateDimError{Name: name})
		}
	}
	if errs != nil {
		return nil, nil, errs
	}
	extents := make([]ir.Expr, len(dims))
	vars := make([]*ir.Var, len(dims))
	for i, dim := range dims {
		name, ok := dim.Name()
		if !ok {
			name = names.Name(root)
		}
		extents[i] = dim.Extent()
		vars[i] = a.NewVar(name, dtype.Int64)
	}
	return extents, vars, nil
}
