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

import (
	git2go "github.com/libgit2/git2go/v31"
)

// Reference is a named pointer at a commit oid, copied out of git2go.
type Reference struct {
	Name   string
	Target Oid
}

// LookupReference resolves a fully-qualified reference name (e.g.
// "refs/heads/master") to its target oid.
func (h *Handle) LookupReference(name string) (*Reference, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	ref, err := h.repo.References.Lookup(name)
	if err != nil {
		return nil, &ErrReferenceNotFound{Name: name}
	}
	defer ref.Free()

	return &Reference{Name: cloneString(ref.Name()), Target: oidFromGit2go(ref.Target())}, nil
}

// SetReference creates or moves a reference to target, creating its parent
// namespace as needed. logMessage becomes the reflog entry.
func (h *Handle) SetReference(name string, target Oid, logMessage string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	ref, err := h.repo.References.Lookup(name)
	if err == nil {
		defer ref.Free()
		newRef, err := ref.SetTarget(target.toGit2go(), logMessage)
		if err != nil {
			return err
		}
		newRef.Free()
		return nil
	}

	newRef, err := h.repo.References.Create(name, target.toGit2go(), true, logMessage)
	if err != nil {
		return err
	}
	newRef.Free()
	return nil
}

// ListReferences returns every reference name in the repository (both
// refs/heads/* and refs/tags/*, plus anything else libgit2 tracks).
func (h *Handle) ListReferences() ([]string, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	names, err := h.repo.References.List()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = cloneString(n)
	}
	return out, nil
}

// SortOrder selects the commit ordering a RevWalk produces, matching the
// two orders spec.md §4.A names.
type SortOrder int

const (
	// SortTopoReverse walks in topological order and reverses it, so
	// parents are yielded before children (oldest-first).
	SortTopoReverse SortOrder = iota
	// SortTime walks newest-commit-first by commit time.
	SortTime
)

func (s SortOrder) toGit2go() git2go.SortType {
	switch s {
	case SortTopoReverse:
		return git2go.SortTopological | git2go.SortReverse
	case SortTime:
		return git2go.SortTime
	default:
		return git2go.SortNone
	}
}

// RevWalkIter lazily yields commit oids from a Walk call.
type RevWalkIter struct {
	walk *git2go.RevWalk
	id   git2go.Oid
}

// Walk starts a revision walk from start in the given order.
func (h *Handle) Walk(start Oid, order SortOrder) (*RevWalkIter, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	w, err := h.repo.Walk()
	if err != nil {
		return nil, err
	}
	w.Sorting(order.toGit2go())
	if err := w.Push(start.toGit2go()); err != nil {
		w.Free()
		return nil, err
	}
	return &RevWalkIter{walk: w}, nil
}

// Next advances the walk and returns the next commit oid. It returns
// *ErrWalkDone (via errors.Is) once the walk is exhausted.
func (it *RevWalkIter) Next() (Oid, error) {
	if it.walk == nil {
		return Oid{}, walkDone
	}
	err := it.walk.Next(&it.id)
	if err != nil {
		it.walk.Free()
		it.walk = nil
		return Oid{}, walkDone
	}
	return oidFromGit2go(&it.id), nil
}

// Close releases the underlying libgit2 walker. Safe to call after the walk
// has already been exhausted, and safe to call more than once.
func (it *RevWalkIter) Close() {
	if it.walk != nil {
		it.walk.Free()
		it.walk = nil
	}
}
