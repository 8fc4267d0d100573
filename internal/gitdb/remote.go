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

// HasRemote reports whether a remote with the given name is configured.
func (h *Handle) HasRemote(name string) (bool, error) {
	if err := h.checkOpen(); err != nil {
		return false, err
	}
	names, err := h.repo.Remotes.List()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Fetch downloads objects and refs from the named remote.
func (h *Handle) Fetch(remoteName string, creds *CredentialAdapter) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	remote, err := h.repo.Remotes.Lookup(remoteName)
	if err != nil {
		return err
	}
	defer remote.Free()

	opts := &git2go.FetchOptions{}
	if creds != nil {
		opts.RemoteCallbacks = creds.callbacks()
	}
	return remote.Fetch(nil, opts, "")
}

// Push pushes refspec to the named remote. After Push returns, callers must
// check creds.LastPushError() - libgit2 cannot surface a per-ref rejection
// as a Go error from inside Push itself.
func (h *Handle) Push(remoteName, refspec string, creds *CredentialAdapter) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	remote, err := h.repo.Remotes.Lookup(remoteName)
	if err != nil {
		return err
	}
	defer remote.Free()

	opts := &git2go.PushOptions{}
	if creds != nil {
		creds.lastPushError = nil
		opts.RemoteCallbacks = creds.callbacks()
	}
	return remote.Push([]string{refspec}, opts)
}

// MergeAnalysisResult mirrors the subset of git2go.MergeAnalysis that
// Repository.Pull needs to branch on.
type MergeAnalysisResult int

const (
	MergeAnalysisNone MergeAnalysisResult = iota
	MergeAnalysisUpToDate
	MergeAnalysisFastForward
	MergeAnalysisNormal
	MergeAnalysisUnknown
)

// MergeAnalysis computes how theirHead relates to the current HEAD.
func (h *Handle) MergeAnalysis(theirHead Oid) (MergeAnalysisResult, error) {
	if err := h.checkOpen(); err != nil {
		return MergeAnalysisNone, err
	}

	commit, err := h.repo.LookupCommit(theirHead.toGit2go())
	if err != nil {
		return MergeAnalysisNone, err
	}
	defer commit.Free()

	annotated, err := h.repo.AnnotatedCommitFromRevspec(theirHead.String())
	if err != nil {
		// fall back to building it straight from the commit lookup
		annotated, err = h.repo.NewAnnotatedCommitFromId(theirHead.toGit2go())
		if err != nil {
			return MergeAnalysisNone, err
		}
	}
	defer annotated.Free()

	analysis, _, err := h.repo.MergeAnalysis([]*git2go.AnnotatedCommit{annotated})
	if err != nil {
		return MergeAnalysisNone, err
	}

	switch {
	case analysis&git2go.MergeAnalysisUpToDate != 0:
		return MergeAnalysisUpToDate, nil
	case analysis&git2go.MergeAnalysisFastForward != 0:
		return MergeAnalysisFastForward, nil
	case analysis&git2go.MergeAnalysisNormal != 0:
		return MergeAnalysisNormal, nil
	default:
		return MergeAnalysisUnknown, nil
	}
}

// CheckoutTree checks out the tree of the given commit into the working
// directory, used by Pull's fast-forward path.
func (h *Handle) CheckoutTree(commitID Oid) error {
	commit, err := h.repo.LookupCommit(commitID.toGit2go())
	if err != nil {
		return err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	defer tree.Free()

	return h.repo.CheckoutTree(tree, &git2go.CheckoutOpts{Strategy: git2go.CheckoutSafe})
}

// SetHead moves HEAD to point at target.
func (h *Handle) SetHead(target Oid) error {
	head, err := h.repo.Head()
	if err == nil {
		defer head.Free()
		newRef, err := head.SetTarget(target.toGit2go(), "pull: fast-forward")
		if err != nil {
			return err
		}
		newRef.Free()
		return nil
	}
	return h.SetReference("HEAD", target, "pull: fast-forward")
}

// MergeConflict describes one conflicting path found in the repository
// index after a non-fast-forward Merge.
type MergeConflict struct {
	Path string
}

// Merge performs a non-fast-forward merge of theirHead into HEAD, leaving
// the result staged in the repository index. It does not create a commit -
// the caller inspects Conflicts() and, if clean, calls WriteIndexTree +
// CreateCommit.
func (h *Handle) Merge(theirHead Oid) error {
	annotated, err := h.repo.NewAnnotatedCommitFromId(theirHead.toGit2go())
	if err != nil {
		return err
	}
	defer annotated.Free()

	return h.repo.Merge(
		[]*git2go.AnnotatedCommit{annotated},
		&git2go.MergeOptions{},
		&git2go.CheckoutOpts{Strategy: git2go.CheckoutSafe},
	)
}

// Conflicts returns the set of conflicting paths in the repository index, or
// nil if the index is clean.
func (h *Handle) Conflicts() ([]MergeConflict, error) {
	idx, err := h.repo.Index()
	if err != nil {
		return nil, err
	}
	defer idx.Free()

	if !idx.HasConflicts() {
		return nil, nil
	}

	it, err := idx.ConflictIterator()
	if err != nil {
		return nil, err
	}
	defer it.Free()

	var out []MergeConflict
	for {
		conflict, err := it.Next()
		if err != nil {
			break
		}
		path := conflict.Our.Path
		if path == "" {
			path = conflict.Their.Path
		}
		out = append(out, MergeConflict{Path: cloneString(path)})
	}
	return out, nil
}

// WriteIndexTree writes the repository index (post-merge) as a tree object,
// used to build the merge commit.
func (h *Handle) WriteIndexTree() (Oid, error) {
	idx, err := h.repo.Index()
	if err != nil {
		return Oid{}, err
	}
	defer idx.Free()

	id, err := idx.WriteTree()
	if err != nil {
		return Oid{}, err
	}
	return oidFromGit2go(id), nil
}

// StateCleanup clears libgit2's MERGE_HEAD/merge-in-progress bookkeeping
// after a merge commit has been created, so a subsequent `git status` does
// not still report "you are in the middle of a merge".
func (h *Handle) StateCleanup() error {
	return h.repo.StateCleanup()
}
