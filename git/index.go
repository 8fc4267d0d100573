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
	"path"
	"sort"
	"time"

	"github.com/k00ni/QuitStore/internal/gitdb"
)

type stashEntry struct {
	oid       gitdb.Oid
	mode      gitdb.Filemode
	tombstone bool
}

// Index is a mutable staging area over a base Revision (or none, for an
// orphan commit). Callers stream Add/Remove calls into it and then Commit it
// exactly once (spec.md §3 "Index").
type Index struct {
	repo     *Repository
	revision *Revision
	stash    map[string]stashEntry
	dirty    bool
}

func newIndex(repo *Repository) *Index {
	return &Index{repo: repo, stash: make(map[string]stashEntry)}
}

// SetRevision binds this index to a base revision, wrapping RevisionNotFound
// as an IndexError (carried over from the original's Index.set_revision).
func (idx *Index) SetRevision(ref string) error {
	rev, err := idx.repo.Revision(ref)
	if err != nil {
		return &IndexError{Kind: IndexErrorGeneric, Message: err.Error()}
	}
	idx.revision = rev
	return nil
}

// Add stages content at path, overwriting any prior add/remove for the same
// path. mode defaults to a regular file if zero is passed.
func (idx *Index) Add(p string, content []byte, mode gitdb.Filemode) error {
	p = normalizePath(p)

	oid, err := idx.repo.handle.CreateBlob(content)
	if err != nil {
		return err
	}

	if mode == 0 {
		mode = gitdb.FilemodeBlob
	}
	idx.stash[p] = stashEntry{oid: oid, mode: mode}
	return nil
}

// Remove stages a deletion (tombstone) at path, overwriting any prior
// add/remove for the same path.
func (idx *Index) Remove(p string) {
	p = normalizePath(p)
	idx.stash[p] = stashEntry{tombstone: true}
}

// CommitOptions carries the optional arguments to Index.Commit. Zero values
// take the defaults described in spec.md §4.D.
type CommitOptions struct {
	Ref             string // default "HEAD"
	CommitterName   string // default AuthorName
	CommitterEmail  string // default AuthorEmail
	Parents         []gitdb.Oid
	HasParents      bool // true iff Parents should override the default
	AuthorTime      time.Time
	CommitterTime   time.Time
}

// Commit builds a new tree from the staged operations and creates a commit
// pointing at it. The index becomes dirty and rejects any further Commit
// call (spec.md §4.D step 1, §5 "single-shot").
func (idx *Index) Commit(message, authorName, authorEmail string, opts CommitOptions) (*Revision, error) {
	if idx.dirty {
		return nil, &IndexError{Kind: IndexErrorAlreadyCommitted, Message: "Index already committed"}
	}

	ref := opts.Ref
	if ref == "" {
		ref = "HEAD"
	}
	committerName := opts.CommitterName
	if committerName == "" {
		committerName = authorName
	}
	committerEmail := opts.CommitterEmail
	if committerEmail == "" {
		committerEmail = authorEmail
	}

	var parents []gitdb.Oid
	if opts.HasParents {
		parents = opts.Parents
	} else if idx.revision != nil {
		parents = []gitdb.Oid{idx.revision.Oid()}
	}

	// Sort index items by (blob-oid, path): a stable linearization for
	// reproducible iteration, not semantically required (spec.md §4.D step 2).
	type item struct {
		path  string
		entry stashEntry
	}
	items := make([]item, 0, len(idx.stash))
	for p, e := range idx.stash {
		items = append(items, item{path: p, entry: e})
	}
	sort.Slice(items, func(i, j int) bool {
		oi, oj := items[i].entry.oid, items[j].entry.oid
		if oi != oj {
			return oi.String() < oj.String()
		}
		return items[i].path < items[j].path
	})

	tree, err := newIndexTree(idx.repo, idx.revision)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it.entry.tombstone {
			if err := tree.Remove(it.path); err != nil {
				return nil, err
			}
		} else {
			if err := tree.Add(it.path, it.entry.oid, it.entry.mode); err != nil {
				return nil, err
			}
		}
	}

	rootOid, err := tree.Write()
	if err != nil {
		return nil, err
	}

	idx.dirty = true

	now := time.Now()
	authorTime := opts.AuthorTime
	if authorTime.IsZero() {
		authorTime = now
	}
	committerTime := opts.CommitterTime
	if committerTime.IsZero() {
		committerTime = now
	}

	author := gitdb.Signature{Name: authorName, Email: authorEmail, When: authorTime}
	committer := gitdb.Signature{Name: committerName, Email: committerEmail, When: committerTime}

	commitOid, err := idx.repo.handle.CreateCommit(ref, author, committer, message, rootOid, parents)
	if err != nil {
		return nil, err
	}

	commit, err := idx.repo.handle.LookupCommit(commitOid)
	if err != nil {
		return nil, err
	}
	return newRevision(idx.repo, commit), nil
}

// normalizePath mirrors Python's os.path.normpath for the subset that
// matters here: no trailing separators, no leading "./".
func normalizePath(p string) string {
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}
