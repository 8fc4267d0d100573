// Copyright (C) 2026  QuitStore Contributors.
//
// This program is free software: you can Use, Study, Modify and Redistribute
// it under the terms of the GNU Affero General Public License version 3, or
// (at your option) any later version, as published by the Free Software
// Foundation.
//
// This program is distributed WITHOUT ANY WARRANTY; without even the implied
// warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//
// See COPYING file for full licensing terms.

package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexHeapDeepestFirst(t *testing.T) {
	h := newIndexHeap()
	h.Set("", builderEntry{})
	h.Set("a", builderEntry{parent: "", hasParent: true})
	h.Set("a/b", builderEntry{parent: "a", hasParent: true})
	h.Set("a/b/c", builderEntry{parent: "a/b", hasParent: true})
	h.Set("x/y", builderEntry{parent: "x", hasParent: true})

	var order []string
	for {
		p, _, ok := h.PopItem()
		if !ok {
			break
		}
		order = append(order, p)
	}

	// a/b and x/y tie at depth 1; lexicographic tiebreak orders them.
	assert.Equal(t, []string{"a/b/c", "a/b", "x/y", "a", ""}, order)
}

func TestIndexHeapOverwriteKeepsSinglePosition(t *testing.T) {
	h := newIndexHeap()
	h.Set("a", builderEntry{parent: "", hasParent: true})
	h.Set("a", builderEntry{parent: "root", hasParent: true})

	assert.Equal(t, 1, h.Len())
	v, ok := h.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "root", v.parent)
}
