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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/tensorexpr/ir"
	"github.com/gx-org/tensorexpr/lower"
)

func TestFromStmtIdentity(t *testing.T) {
	a := ir.NewArena()
	i := a.NewVar("i", dtype.Int64)
	buf := a.NewBuffer("out", dtype.Int64, a.NewIntImm(4))
	stmt := a.NewFor(i, a.NewIntImm(0), a.NewIntImm(4),
		a.NewStore(buf, []ir.Expr{i}, i, a.NewIntImm(1)))
	tensor := lower.FromStmt(a, buf, stmt)
	if _, ok := tensor.Body(); ok {
		t.Errorf("pre-expanded tensor declares a body but want none")
	}
	if got := tensor.LowerToStmt(); got != ir.Stmt(stmt) {
		t.Errorf("lowering a pre-expanded tensor returned a new statement:\n%s", got)
	}
}

func TestLowerIsIdempotent(t *testing.T) {
	a := ir.NewArena()
	src := a.NewBuffer("src", dtype.Float32, a.NewIntImm(4), a.NewIntImm(8))
	tensor, err := lower.Reduce(a, "out",
		[]lower.DimArg{lower.Dim(a.NewIntImm(4))},
		lower.Sum(), src,
		[]lower.DimArg{lower.Dim(a.NewIntImm(8))},
	)
	if err != nil {
		t.Fatal(err)
	}
	first := tensor.LowerToStmt().String()
	second := tensor.LowerToStmt().String()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("lowering twice produced different trees (-first +second):\n%s", diff)
	}
}

func TestElementStmt(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{
		lower.NamedDim(a.NewIntImm(4), "i"),
		lower.NamedDim(a.NewIntImm(4), "j"),
	}
	tensor, err := lower.Compute2(a, "out", dims, func(i, j *ir.Var) ir.Expr {
		return a.NewBinary(ir.Mul, i, j)
	})
	if err != nil {
		t.Fatal(err)
	}
	store, ok := tensor.ElementStmt().(*ir.Store)
	if !ok {
		t.Fatal("element statement is not a store")
	}
	if diff := cmp.Diff("out[i, j] = (i * j);", store.String()); diff != "" {
		t.Errorf("incorrect element statement (-want +got):\n%s", diff)
	}
}

func TestTensorLoad(t *testing.T) {
	a := ir.NewArena()
	dims := []lower.DimArg{lower.NamedDim(a.NewIntImm(4), "i")}
	tensor, err := lower.Compute1(a, "out", dims, func(i *ir.Var) ir.Expr {
		return i
	})
	if err != nil {
		t.Fatal(err)
	}
	k := a.NewVar("k", dtype.Int64)
	if got, want := tensor.Load(k).String(), "out[k]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestTensorAccessors(t *testing.T) {
	a := ir.NewArena()
	src := a.NewBuffer("src", dtype.Int64, a.NewIntImm(4), a.NewIntImm(8))
	tensor, err := lower.Reduce(a, "acc",
		[]lower.DimArg{lower.NamedDim(a.NewIntImm(4), "i")},
		lower.Sum(), src,
		[]lower.DimArg{lower.NamedDim(a.NewIntImm(8), "r")},
	)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tensor.Name(), "acc"; got != want {
		t.Errorf("got name %s but want %s", got, want)
	}
	if got, want := tensor.NDim(), 1; got != want {
		t.Errorf("got %d free axes but want %d", got, want)
	}
	if got, want := tensor.ReduceNDim(), 1; got != want {
		t.Errorf("got %d reduction axes but want %d", got, want)
	}
	body, ok := tensor.Body()
	if !ok {
		t.Fatal("tensor declares no body but want one")
	}
	if got, want := body.String(), "(acc[i] + src[i, r])"; got != want {
		t.Errorf("got body %s but want %s", got, want)
	}
}
