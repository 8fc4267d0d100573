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

package gitdb

import "lab.nexedi.com/kirr/go123/mem"

// cloneString makes an owned copy of s. git2go returns many strings (paths,
// signature name/email, tree entry names) as views into cgo-owned memory;
// callers must not retain them past the call that produced them unless they
// are copied first.
func cloneString(s string) string {
	return string(mem.Bytes(s))
}

// bytesClone makes an owned copy of b.
func bytesClone(b []byte) []byte {
	return []byte(mem.String(b))
}
