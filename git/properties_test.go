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

func TestExtractProperties(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		props   map[string]string
		message string
	}{
		{
			name:    "no properties",
			raw:     "just a plain message\n\nwith a body",
			props:   map[string]string{},
			message: "just a plain message\n\nwith a body",
		},
		{
			name:    "single bare value",
			raw:     "graph: default\n\nadd triples",
			props:   map[string]string{"graph": "default"},
			message: "add triples",
		},
		{
			name:    "quoted value with spaces",
			raw:     "author: 'Jane Doe'\ngraph: \"http://example.org/g\"\n\nmessage body",
			props:   map[string]string{"author": "Jane Doe", "graph": "http://example.org/g"},
			message: "message body",
		},
		{
			name:    "stops at first non-matching line",
			raw:     "graph: default\nthis is not a property line\nother: value\n\nbody",
			props:   map[string]string{"graph": "default"},
			message: "this is not a property line\nother: value\n\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, message := extractProperties(tt.raw)
			assert.Equal(t, tt.props, props)
			assert.Equal(t, tt.message, message)
		})
	}
}
