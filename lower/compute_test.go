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

package lower_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tensorexpr/ir"
	"github.com/gx-org/tensorexpr/lower"
)

func TestComputeScalar(t *testing.T) {
	a := ir.NewArena()
	tensor, err := lower.Compute(a, "s", nil, func([]*ir.Var) ir.Expr {
		return a.NewIntImm(42)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := tensor.NDim(); got != 0 {
		t.Errorf("got %d free axes but want 0", got)
	}
	got := tensor.LowerToStmt()
	if _, ok := got.(*ir.Store); !ok {
		t.Fatalf("got a %T but want a bare store", got)
	}
	if diff := cmp.Diff("s[] = 42;", got.String()); diff != "" {
		t.Errorf("incorrect lowering (-want +got):\n%s", diff)
	}
}

func TestCompute2LoopNest(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{
		lower.NamedDim(a.NewIntImm(4), "i"),
		lower.NamedDim(a.NewIntImm(4), "j"),
	}
	tensor, err := lower.Compute2(a, "out", dims, func(i, j *ir.Var) ir.Expr {
		return a.NewBinary(ir.Add, i, j)
	})
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"for i in [0, 4) {",
		"  for j in [0, 4) {",
		"    out[i, j] = (i + j);",
		"  }",
		"}",
	}, "\n")
	if diff := cmp.Diff(want, tensor.LowerToStmt().String()); diff != "" {
		t.Errorf("incorrect lowering (-want +got):\n%s", diff)
	}
}

func TestComputeLoopOrder(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{
		lower.NamedDim(a.NewIntImm(2), "a"),
		lower.NamedDim(a.NewIntImm(3), "b"),
		lower.NamedDim(a.NewIntImm(4), "c"),
	}
	tensor, err := lower.Compute3(a, "out", dims, func(i, j, k *ir.Var) ir.Expr {
		return a.NewBinary(ir.Add, a.NewBinary(ir.Add, i, j), k)
	})
	if err != nil {
		t.Fatal(err)
	}
	s := tensor.LowerToStmt()
	var order []string
	for range dims {
		loop, ok := s.(*ir.For)
		if !ok {
			t.Fatalf("got a %T but want a loop", s)
		}
		order = append(order, loop.Index.Name())
		s = loop.Body
	}
	if _, ok := s.(*ir.Store); !ok {
		t.Fatalf("innermost statement is a %T but want a store", s)
	}
	want := []string{"a", "b", "c"}
	if !cmp.Equal(order, want) {
		t.Errorf("incorrect loop order: got %v but want %v", order, want)
	}
}

func TestComputeSynthesizedNames(t *testing.T) {
	a := ir.NewArena()
	tests := []struct {
		dims []lower.DimArg
		want []string
	}{
		{
			dims: []lower.DimArg{
				lower.Dim(a.NewIntImm(2)),
				lower.Dim(a.NewIntImm(3)),
			},
			want: []string{"i", "i1"},
		},
		{
			dims: []lower.DimArg{
				lower.NamedDim(a.NewIntImm(2), "i"),
				lower.Dim(a.NewIntImm(3)),
			},
			want: []string{"i", "i1"},
		},
		{
			dims: []lower.DimArg{
				lower.Dim(a.NewIntImm(2)),
				lower.NamedDim(a.NewIntImm(3), "j"),
			},
			want: []string{"i", "j"},
		},
	}
	for ti, test := range tests {
		tensor, err := lower.Compute(a, "out", test.dims, func(vars []*ir.Var) ir.Expr {
			return vars[0]
		})
		if err != nil {
			t.Fatalf("test %d: %v", ti, err)
		}
		var got []string
		for _, v := range tensor.FreeVars() {
			got = append(got, v.Name())
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: incorrect variable names: got %v but want %v", ti, got, test.want)
		}
	}
}

func TestComputeArityMismatch(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{
		lower.Dim(a.NewIntImm(4)),
		lower.Dim(a.NewIntImm(4)),
	}
	before := a.NumNodes()
	_, err := lower.Compute3(a, "out", dims, func(i, j, k *ir.Var) ir.Expr {
		return i
	})
	if err == nil {
		t.Fatal("got no error but want an arity mismatch")
	}
	if !lower.IsMalformedInput(err) {
		t.Errorf("error %v is not reported as malformed input", err)
	}
	var arity *lower.ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("error %v does not carry the arity mismatch", err)
	}
	if arity.Want != 3 || arity.Got != 2 {
		t.Errorf("got arity expected=%d actual=%d but want expected=3 actual=2", arity.Want, arity.Got)
	}
	if got := a.NumNodes(); got != before {
		t.Errorf("%d nodes allocated by the failed build but want 0", got-before)
	}
}

func TestComputeDuplicateDims(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{
		lower.NamedDim(a.NewIntImm(2), "i"),
		lower.NamedDim(a.NewIntImm(3), "i"),
		lower.NamedDim(a.NewIntImm(4), "j"),
		lower.NamedDim(a.NewIntImm(5), "j"),
	}
	_, err := lower.Compute(a, "out", dims, func(vars []*ir.Var) ir.Expr {
		return vars[0]
	})
	if err == nil {
		t.Fatal("got no error but want duplicate dimension names to be rejected")
	}
	if !lower.IsMalformedInput(err) {
		t.Errorf("error %v is not reported as malformed input", err)
	}
	var duplicate *lower.DuplicateDimError
	if !errors.As(err, &duplicate) {
		t.Fatalf("error %v does not carry a duplicate name", err)
	}
	for _, name := range []string{`"i"`, `"j"`} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention duplicate %s", err.Error(), name)
		}
	}
}

func TestComputeBufferMatchesDomain(t *testing.T) {
	a := ir.NewArena()
	src := a.NewBuffer("src", dtype.Float32, a.NewIntImm(8))
	dims := []lower.DimArg{lower.Dim(a.NewIntImm(8))}
	tensor, err := lower.Compute1(a, "out", dims, func(i *ir.Var) ir.Expr {
		return a.NewLoad(src, i)
	})
	if err != nil {
		t.Fatal(err)
	}
	buf := tensor.Buf()
	if got, want := buf.NDim(), tensor.NDim(); got != want {
		t.Errorf("buffer rank %d does not match %d free axes", got, want)
	}
	if got, want := buf.DType(), dtype.Float32; got != want {
		t.Errorf("got buffer dtype %s but want %s", got.String(), want.String())
	}
	if got, want := buf.Dim(0).String(), "8"; got != want {
		t.Errorf("got extent %s but want %s", got, want)
	}
}
