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

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// Buffer describes a storage area for tensor elements: a name, an
// element data type, one extent expression per axis, and an optional
// initializer expression.
//
// The descriptor does not own any storage. It is referenced by [Load]
// and [Store] nodes and constructed through an [Arena].
type Buffer struct {
	name string
	dt   dtype.DataType
	dims []Expr
	init Expr
}

// Name of the buffer.
func (b *Buffer) Name() string { return b.name }

// DType returns the element type of the buffer.
func (b *Buffer) DType() dtype.DataType { return b.dt }

// NDim returns the number of axes of the buffer.
func (b *Buffer) NDim() int { return len(b.dims) }

// Dim returns the extent of the i-th axis.
func (b *Buffer) Dim(i int) Expr { return b.dims[i] }

// Dims returns the extents of all the axes of the buffer.
func (b *Buffer) Dims() []Expr { return b.dims }

// Initializer returns the expression initializing every element of the
// buffer, if the buffer declares one.
func (b *Buffer) Initializer() (Expr, bool) {
	return b.init, b.init != nil
}

// String representation of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("%s:%s[%s]", b.name, b.dt.String(), exprList(b.dims))
}

// NewBuffer returns a buffer descriptor with one extent expression per axis.
func (a *Arena) NewBuffer(name string, dt dtype.DataType, dims ...Expr) *Buffer {
	buf := a.buffers.alloc()
	*buf = Buffer{name: name, dt: dt, dims: dims}
	return buf
}

// NewInitializedBuffer returns a buffer descriptor declaring an
// initializer expression for its elements.
func (a *Arena) NewInitializedBuffer(name string, dt dtype.DataType, init Expr, dims ...Expr) *Buffer {
	buf := a.NewBuffer(name, dt, dims...)
	buf.init = init
	return buf
}

// NewBufferFromShape returns a buffer descriptor matching a concrete
// backend shape: one integer literal extent per axis length.
func (a *Arena) NewBufferFromShape(name string, sh *shape.Shape) *Buffer {
	dims := make([]Expr, len(sh.AxisLengths))
	for i, axlen := range sh.AxisLengths {
		dims[i] = a.NewIntImm(int64(axlen))
	}
	return a.NewBuffer(name, sh.DType, dims...)
}
