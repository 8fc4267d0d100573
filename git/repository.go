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
	"errors"
	"fmt"
	"strings"

	"github.com/k00ni/QuitStore/internal/gitdb"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	refHeadsPrefix = "refs/heads/"
	refTagsPrefix  = "refs/tags/"
)

// OpenOptions controls Open's behavior; see spec.md §4.A.
type OpenOptions struct {
	// Create initializes a new repository at Path if none exists.
	Create bool
	// Origin clones from this URL when no repository exists yet.
	Origin string
	// GC enables the gc.auto bookkeeping.
	GC bool
	// Log receives informational/diagnostic messages. Defaults to
	// logrus.StandardLogger() when nil.
	Log *logrus.Logger
}

// Repository binds the object-database handle, the credential adapter, and
// the revision/index/node machinery together (spec.md §2 component E).
//
// A Repository exclusively owns its object-database handle; Revisions,
// Nodes, and Indexes it produces hold a non-owning reference back to it and
// must not outlive it (spec.md §3 "Ownership").
type Repository struct {
	path   string
	handle *gitdb.Handle
	creds  *gitdb.CredentialAdapter
	log    *logrus.Logger
}

// Open opens, initializes, or clones the repository at path per opts.
func Open(path string, opts OpenOptions) (*Repository, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	creds := gitdb.NewCredentialAdapterFromEnv()

	handle, err := gitdb.Open(path, gitdb.OpenOptions{
		Create:      opts.Create,
		Origin:      opts.Origin,
		GC:          opts.GC,
		Credentials: creds,
		Log:         log,
	})
	if err != nil {
		var notFound *gitdb.ErrRepositoryNotFound
		if errors.As(err, &notFound) {
			return nil, &RepositoryNotFoundError{Path: path}
		}
		return nil, err
	}

	return &Repository{path: path, handle: handle, creds: creds, log: log}, nil
}

// Close releases the object-database handle. Idempotent.
func (r *Repository) Close() error { return r.handle.Close() }

// IsEmpty reports whether the repository has no commits yet.
func (r *Repository) IsEmpty() (bool, error) { return r.handle.IsEmpty() }

// IsBare reports whether the repository has no working tree.
func (r *Repository) IsBare() bool { return r.handle.IsBare() }

// Revision resolves id (a ref name, short/long oid, or "HEAD") to a
// Revision. id defaults to "HEAD".
func (r *Repository) Revision(id string) (*Revision, error) {
	if id == "" {
		id = "HEAD"
	}
	oid, err := r.handle.RevparseSingle(id)
	if err != nil {
		return nil, &RevisionNotFoundError{Ref: id}
	}
	commit, err := r.handle.LookupCommit(oid)
	if err != nil {
		return nil, err
	}
	return newRevision(r, commit), nil
}

func (r *Repository) lookupBranchOrTag(name string) (*gitdb.Reference, error) {
	for _, prefix := range []string{refHeadsPrefix, refTagsPrefix} {
		ref, err := r.handle.LookupReference(prefix + name)
		if err == nil {
			return ref, nil
		}
	}
	return nil, &RevisionNotFoundError{Ref: name}
}

// Revisions walks commit history in the given order (default
// SortTopoReverse). If name is empty, the union of every local branch's walk
// is returned, deduplicated by commit oid as it is discovered. Otherwise
// name is resolved against refs/heads/<name> then refs/tags/<name>.
func (r *Repository) Revisions(name string, order gitdb.SortOrder) ([]*Revision, error) {
	var startRefs []string

	if name == "" {
		branches, err := r.Branches()
		if err != nil {
			return nil, err
		}
		startRefs = branches
	} else {
		ref, err := r.lookupBranchOrTag(name)
		if err != nil {
			return nil, err
		}
		startRefs = []string{ref.Name}
	}

	seen := make(gitdb.OidSet)
	var out []*Revision

	for _, refName := range startRefs {
		ref, err := r.handle.LookupReference(refName)
		if err != nil {
			continue
		}

		iter, err := r.handle.Walk(ref.Target, order)
		if err != nil {
			return nil, err
		}
		defer iter.Close()

		for {
			oid, err := iter.Next()
			if err != nil {
				break
			}
			if seen.Contains(oid) {
				continue
			}
			seen.Add(oid)

			commit, err := r.handle.LookupCommit(oid)
			if err != nil {
				return nil, err
			}
			out = append(out, newRevision(r, commit))
		}
	}

	return out, nil
}

// Branches lists refs/heads/* reference names.
func (r *Repository) Branches() ([]string, error) {
	return r.refsWithPrefix(refHeadsPrefix)
}

// Tags lists refs/tags/* reference names.
func (r *Repository) Tags() ([]string, error) {
	return r.refsWithPrefix(refTagsPrefix)
}

// TagsOrBranches lists refs/tags/* and refs/heads/* reference names.
func (r *Repository) TagsOrBranches() ([]string, error) {
	all, err := r.handle.ListReferences()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range all {
		if strings.HasPrefix(n, refTagsPrefix) || strings.HasPrefix(n, refHeadsPrefix) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *Repository) refsWithPrefix(prefix string) ([]string, error) {
	all, err := r.handle.ListReferences()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range all {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Index creates a new staging area, optionally bound to rev as its base
// revision (nil means an orphan commit).
func (r *Repository) Index(rev *Revision) *Index {
	idx := newIndex(r)
	idx.revision = rev
	return idx
}

// IndexAt is a convenience wrapper resolving ref to a Revision before
// creating the Index, wrapping RevisionNotFound as IndexError like the
// original's Index.set_revision.
func (r *Repository) IndexAt(ref string) (*Index, error) {
	rev, err := r.Revision(ref)
	if err != nil {
		return nil, &IndexError{Kind: IndexErrorGeneric, Message: err.Error()}
	}
	return r.Index(rev), nil
}

// Pull fetches from remoteName and merges branch into the current HEAD, per
// spec.md §4.E. An unknown remote is silently skipped - this preserves the
// Python original's contract; see DESIGN.md for discussion of whether that
// is a bug.
func (r *Repository) Pull(remoteName, branch string) error {
	if remoteName == "" {
		remoteName = "origin"
	}
	if branch == "" {
		branch = "master"
	}

	has, err := r.handle.HasRemote(remoteName)
	if err != nil {
		return err
	}
	if !has {
		return nil
	}

	r.log.WithFields(logrus.Fields{"remote": remoteName, "branch": branch}).Debug("pulling")

	if err := r.handle.Fetch(remoteName, r.creds); err != nil {
		return pkgerrors.Wrapf(err, "pull: fetch %q", remoteName)
	}

	remoteRef, err := r.handle.LookupReference(fmt.Sprintf("refs/remotes/%s/%s", remoteName, branch))
	if err != nil {
		return pkgerrors.Wrapf(err, "pull: resolve %s/%s", remoteName, branch)
	}

	analysis, err := r.handle.MergeAnalysis(remoteRef.Target)
	if err != nil {
		return pkgerrors.Wrap(err, "pull: merge analysis")
	}

	switch analysis {
	case gitdb.MergeAnalysisUpToDate:
		return nil

	case gitdb.MergeAnalysisFastForward:
		if err := r.handle.CheckoutTree(remoteRef.Target); err != nil {
			return err
		}
		if err := r.handle.SetReference(refHeadsPrefix+branch, remoteRef.Target, "pull: fast-forward"); err != nil {
			return err
		}
		return r.handle.SetHead(remoteRef.Target)

	case gitdb.MergeAnalysisNormal:
		if err := r.handle.Merge(remoteRef.Target); err != nil {
			return err
		}

		conflicts, err := r.handle.Conflicts()
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			paths := make([]string, len(conflicts))
			for i, c := range conflicts {
				r.log.WithField("path", c.Path).Error("conflicts found")
				paths[i] = c.Path
			}
			return &MergeConflictError{Paths: paths}
		}

		sig, err := r.handle.DefaultSignature()
		if err != nil {
			return err
		}

		treeOid, err := r.handle.WriteIndexTree()
		if err != nil {
			return err
		}

		head, err := r.Revision("HEAD")
		if err != nil {
			return err
		}

		if _, err := r.handle.CreateCommit("HEAD", sig, sig, "Merge!", treeOid,
			[]gitdb.Oid{head.Oid(), remoteRef.Target}); err != nil {
			return err
		}

		return r.handle.StateCleanup()

	default:
		return fmt.Errorf("git: unknown merge analysis result")
	}
}

// Push pushes refspec to remoteName.
func (r *Repository) Push(remoteName, refspec string) error {
	if remoteName == "" {
		remoteName = "origin"
	}
	if refspec == "" {
		refspec = "refs/heads/master:refs/heads/master"
	}

	has, err := r.handle.HasRemote(remoteName)
	if err != nil {
		return err
	}
	if !has {
		return &QuitGitPushError{Message: fmt.Sprintf("there is no remote %q", remoteName)}
	}

	if err := r.handle.Push(remoteName, refspec, r.creds); err != nil {
		if pushErr := r.creds.LastPushError(); pushErr != nil {
			return &QuitGitPushError{Ref: pushErr.Ref, Message: pushErr.Message}
		}
		return pkgerrors.Wrapf(err, "push to %q", remoteName)
	}
	if pushErr := r.creds.LastPushError(); pushErr != nil {
		return &QuitGitPushError{Ref: pushErr.Ref, Message: pushErr.Message}
	}
	return nil
}

// Merge is explicitly unsupported; see spec.md §4.E and
// https://github.com/libgit2/pygit2/issues/725, which the original cites.
func (r *Repository) Merge(reference, target, branch string) error {
	return &UnsupportedOperationError{Operation: "merge", Reason: "see https://github.com/libgit2/pygit2/issues/725"}
}

// Revert is explicitly unsupported.
func (r *Repository) Revert(reference, target, branch string) error {
	return &UnsupportedOperationError{Operation: "revert", Reason: "not yet supported"}
}
