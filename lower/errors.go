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
	"fmt"

	"github.com/pkg/errors"
)

// malformedInput marks errors caused by an invalid tensor-program
// construction. All the errors of this package are of this kind: they
// are raised when a tensor is built, never when it is lowered.
type malformedInput interface {
	error

	// malformedInput prevents external implementations of the interface.
	malformedInput()
}

// ArityError reports a mismatch between the number of declared
// dimension arguments and the arity of the body callback.
type ArityError struct {
	// Builder is the name of the builder function reporting the mismatch.
	Builder string
	// Want is the arity of the body callback.
	Want int
	// Got is the number of dimension arguments declared by the caller.
	Got int
}

var _ malformedInput = (*ArityError)(nil)

func (*ArityError) malformedInput() {}

// Error returns a string description of the error.
func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: mismatch between body arity and dimension arguments: expected %d but got %d", e.Builder, e.Want, e.Got)
}

// DuplicateDimError reports two dimension arguments of the same builder
// call declaring the same explicit loop-variable name.
type DuplicateDimError struct {
	// Name declared by more than one dimension argument.
	Name string
}

var _ malformedInput = (*DuplicateDimError)(nil)

func (*DuplicateDimError) malformedInput() {}

// Error returns a string description of the error.
func (e *DuplicateDimError) Error() string {
	return fmt.Sprintf("duplicate loop variable %q in dimension arguments", e.Name)
}

// IsMalformedInput reports whether err was caused by an invalid
// tensor-program construction.
func IsMalformedInput(err error) bool {
	var malformed malformedInput
	return errors.As(err, &malformed)
}
