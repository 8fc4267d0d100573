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

// Package git implements the version-controlled quad store's core: a
// revision-graph navigator, a content-addressed staging index, a history
// walker, and remote push/pull, all built on top of internal/gitdb (a safe
// wrapper over git2go/libgit2).
package git

import "fmt"

// RepositoryNotFoundError is returned by Open when path does not contain a
// repository, create was false, and no origin was given.
type RepositoryNotFoundError struct {
	Path string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository %q does not exist", e.Path)
}

// RevisionNotFoundError is returned when a revision id/ref cannot be
// resolved.
type RevisionNotFoundError struct {
	Ref string
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found", e.Ref)
}

// NodeNotFoundError is returned when a path is absent from a commit's tree.
type NodeNotFoundError struct {
	Path   string
	Commit string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found in commit %s", e.Path, e.Commit)
}

// IndexErrorKind distinguishes IndexError causes for callers that want to
// branch on them instead of matching on the error string.
type IndexErrorKind int

const (
	IndexErrorGeneric IndexErrorKind = iota
	IndexErrorAlreadyCommitted
	IndexErrorPathIsFile
)

// IndexError reports a precondition violation inside Index/IndexTree, e.g.
// double-commit or trying to replace a file with a directory.
type IndexError struct {
	Kind    IndexErrorKind
	Message string
}

func (e *IndexError) Error() string { return "index: " + e.Message }

// QuitGitPushError reports that a remote rejected a ref during push, or that
// the named remote does not exist.
type QuitGitPushError struct {
	Ref     string
	Message string
}

func (e *QuitGitPushError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("git push error: %s", e.Message)
	}
	return fmt.Sprintf("the reference %q could not be pushed: %s", e.Ref, e.Message)
}

// MergeConflictError is raised by Pull when a non-fast-forward merge leaves
// conflicting paths in the index. The core does not attempt content
// resolution (spec.md §1 Non-goals); it surfaces the conflicting paths and
// stops.
type MergeConflictError struct {
	Paths []string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflicts in %d path(s): %v", len(e.Paths), e.Paths)
}

// UnsupportedOperationError is returned by Merge/Revert, which spec.md §4.E
// explicitly leaves unimplemented.
type UnsupportedOperationError struct {
	Operation string
	Reason    string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported: %s", e.Operation, e.Reason)
}
