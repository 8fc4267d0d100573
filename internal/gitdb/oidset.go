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

// OidSet is a set of object ids, used by Repository.Revisions to deduplicate
// commits reachable from more than one branch during a multi-branch walk.
type OidSet map[Oid]struct{}

func (s OidSet) Add(o Oid) {
	s[o] = struct{}{}
}

func (s OidSet) Contains(o Oid) bool {
	_, ok := s[o]
	return ok
}

// Elements returns every member of the set, in no particular order.
func (s OidSet) Elements() []Oid {
	ev := make([]Oid, 0, len(s))
	for o := range s {
		ev = append(ev, o)
	}
	return ev
}
