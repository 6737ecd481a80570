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

// Package uname provides unique loop-variable names.
package uname

import "fmt"

// Unique generates unique names.
type Unique struct {
	names map[string]int
}

// New name generator.
func New() *Unique {
	return &Unique{names: make(map[string]int)}
}

// Register reserves an explicit name.
// Returns false if the name has already been taken.
func (n *Unique) Register(name string) bool {
	if _, taken := n.names[name]; taken {
		return false
	}
	n.names[name] = 1
	return true
}

// Name returns a unique name given a desired base name.
// If the base name is available, it is returned directly. Else, a unique
// suffix is appended, skipping suffixes colliding with registered names.
func (n *Unique) Name(root string) string {
	next, taken := n.names[root]
	if !taken {
		n.names[root] = 1
		return root
	}
	for {
		name := fmt.Sprintf("%s%d", root, next)
		next++
		if _, taken := n.names[name]; !taken {
			n.names[root] = next
			n.names[name] = 1
			return name
		}
	}
}
