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
	"math"

	"github.com/pkg/errors"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tensorexpr/base/uname"
	"github.com/gx-org/tensorexpr/ir"
)

type (
	// InitFunc returns the initial accumulator value for a given
	// element type. A nil InitFunc declares no initializer: the
	// accumulator buffer is assumed to be initialized by the caller.
	InitFunc func(a *ir.Arena, dt dtype.DataType) ir.Expr

	// CombineFunc folds one freshly computed value into the
	// accumulator. Both arguments are expressions; the result is the
	// new accumulator value. The function must be pure.
	CombineFunc func(a *ir.Arena, acc, value ir.Expr) ir.Expr

	// Reducer describes how reduction-axis values fold into an
	// accumulator: an initial value and a combining function.
	Reducer struct {
		init    InitFunc
		combine CombineFunc
	}
)

// NewReducer returns a reducer with a custom initial value and
// combining function.
func NewReducer(init InitFunc, combine CombineFunc) Reducer {
	return Reducer{init: init, combine: combine}
}

// Sum returns a reducer adding values into a zero-initialized
// accumulator.
func Sum() Reducer {
	return NewReducer(zeroValue, func(a *ir.Arena, acc, value ir.Expr) ir.Expr {
		return a.NewBinary(ir.Add, acc, value)
	})
}

// Maximum returns a reducer keeping the largest value, starting from
// the lowest value of the element type.
func Maximum() Reducer {
	return NewReducer(lowestValue, func(a *ir.Arena, acc, value ir.Expr) ir.Expr {
		return a.NewBinary(ir.Max, acc, value)
	})
}

// Minimum returns a reducer keeping the smallest value, starting from
// the highest value of the element type.
func Minimum() Reducer {
	return NewReducer(highestValue, func(a *ir.Arena, acc, value ir.Expr) ir.Expr {
		return a.NewBinary(ir.Min, acc, value)
	})
}

func isFloat(dt dtype.DataType) bool {
	switch dt {
	case dtype.Float32, dtype.Float64, dtype.Bfloat16:
		return true
	}
	return false
}

func zeroValue(a *ir.Arena, dt dtype.DataType) ir.Expr {
	if isFloat(dt) {
		return a.NewFloatImm(0, dt)
	}
	return a.NewIntImm(0)
}

func lowestValue(a *ir.Arena, dt dtype.DataType) ir.Expr {
	if isFloat(dt) {
		return a.NewFloatImm(math.Inf(-1), dt)
	}
	return a.NewIntImm(math.MinInt64)
}

func highestValue(a *ir.Arena, dt dtype.DataType) ir.Expr {
	if isFloat(dt) {
		return a.NewFloatImm(math.Inf(1), dt)
	}
	return a.NewIntImm(math.MaxInt64)
}

// Reduce builds a tensor folding values loaded from buf across the
// reduction axes declared by reduceDims. The free axes declared by dims
// form the output shape; the source buffer is read at the free
// coordinates followed by the reduction coordinates.
func Reduce(a *ir.Arena, name string, dims []DimArg, reducer Reducer, buf *ir.Buffer, reduceDims []DimArg) (*Tensor, error) {
	return reduceOver(a, name, dims, reducer, buf.DType(), func(indices []ir.Expr) ir.Expr {
		return a.NewLoad(buf, indices...)
	}, reduceDims)
}

// ReduceTensor builds a tensor folding the values of an existing tensor
// across the reduction axes declared by reduceDims. The source tensor
// is read through its per-coordinate accessor and must be materialized
// by an earlier stage of the pipeline.
func ReduceTensor(a *ir.Arena, name string, dims []DimArg, reducer Reducer, src *Tensor, reduceDims []DimArg) (*Tensor, error) {
	return reduceOver(a, name, dims, reducer, src.Buf().DType(), func(indices []ir.Expr) ir.Expr {
		return src.Load(indices...)
	}, reduceDims)
}

// reduceOver is the generic reduction path shared by all the reduction
// builders. Free and reduction axes are unpacked with a single name
// scope, so explicit names cannot collide across the two lists and
// synthesized names stay unique within the call.
func reduceOver(a *ir.Arena, name string, dims []DimArg, reducer Reducer, dt dtype.DataType, load func(indices []ir.Expr) ir.Expr, reduceDims []DimArg) (*Tensor, error) {
	names := uname.New()
	extents, vars, err := unpackDims(a, names, freeRoot, dims)
	if err != nil {
		return nil, errors.Wrapf(err, "reduce %s", name)
	}
	reduceExtents, reduceVars, err := unpackDims(a, names, reduceRoot, reduceDims)
	if err != nil {
		return nil, errors.Wrapf(err, "reduce %s", name)
	}
	var buf *ir.Buffer
	if reducer.init != nil {
		buf = a.NewInitializedBuffer(name, dt, reducer.init(a, dt), extents...)
	} else {
		buf = a.NewBuffer(name, dt, extents...)
	}
	indices := make([]ir.Expr, 0, len(vars)+len(reduceVars))
	for _, v := range vars {
		indices = append(indices, v)
	}
	for _, v := range reduceVars {
		indices = append(indices, v)
	}
	acc := a.NewLoad(buf, varExprs(vars)...)
	body := reducer.combine(a, acc, load(indices))
	return &Tensor{
		arena:      a,
		buf:        buf,
		freeVars:   vars,
		reduceVars: reduceVars,
		reduceDims: reduceExtents,
		body:       body,
	}, nil
}

func varExprs(vars []*ir.Var) []ir.Expr {
	exprs := make([]ir.Expr, len(vars))
	for i, v := range vars {
		exprs[i] = v
	}
	return exprs
}
