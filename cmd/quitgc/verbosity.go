// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file (in go.git repository).

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// verbosity is both a bool and an int flag, so repeating -v increases it
// ("-v -v -v" -> 3) while a single "-v" still behaves like a switch.
// inspired/copied by/from cmd.dist.count in go.git
type verbosity int

func (c *verbosity) String() string {
	return strconv.Itoa(int(*c))
}

func (c *verbosity) Set(s string) error {
	switch s {
	case "true":
		*c++
	case "false":
		*c = 0
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid count %q", s)
		}
		*c = verbosity(n)
	}
	return nil
}

func (c *verbosity) Type() string { return "count" }

// IsBoolFlag marks the flag as a switch for the standard flag package; with
// pflag, a bare "-v" is accepted because main registers the flag with
// NoOptDefVal "true".
func (c *verbosity) IsBoolFlag() bool { return true }

var _ pflag.Value = (*verbosity)(nil)
