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

import "fmt"

// ErrRepositoryNotFound is returned by Open when no repository exists at the
// given path, create was false, and no origin to clone from was given.
type ErrRepositoryNotFound struct {
	Path string
}

func (e *ErrRepositoryNotFound) Error() string {
	return fmt.Sprintf("gitdb: repository %q does not exist", e.Path)
}

// ErrReferenceNotFound is returned by LookupReference for an unknown name.
type ErrReferenceNotFound struct {
	Name string
}

func (e *ErrReferenceNotFound) Error() string {
	return fmt.Sprintf("gitdb: reference %q not found", e.Name)
}

// ErrWalkDone is returned by RevWalkIter.Next once the walk is exhausted.
type ErrWalkDone struct{}

func (e *ErrWalkDone) Error() string { return "gitdb: walk exhausted" }

// walkDone is the shared sentinel value, comparable with errors.Is.
var walkDone = &ErrWalkDone{}
