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
	"sync"

	"github.com/k00ni/QuitStore/internal/gitdb"
)

// Revision is an immutable snapshot of one commit: identity, authorship,
// parents (lazy), and the property block parsed out of its message.
//
// Revision holds a non-owning reference to its Repository (spec.md §9,
// "Cyclic references"): it must not outlive the Repository that produced it.
type Revision struct {
	repo   *Repository
	commit *gitdb.RawCommit

	once       sync.Once
	properties map[string]string
	message    string

	parentsMu   sync.Mutex
	parentsDone bool
	parents     []*Revision
}

func newRevision(repo *Repository, commit *gitdb.RawCommit) *Revision {
	return &Revision{repo: repo, commit: commit}
}

// ID returns the full 40-hex commit id.
func (r *Revision) ID() string { return r.commit.Id.String() }

// ShortID returns the first 10 hex characters of the commit id.
func (r *Revision) ShortID() string { return r.commit.Id.Short(10) }

// Oid exposes the raw object id, e.g. to seed a new Index off this revision.
func (r *Revision) Oid() gitdb.Oid { return r.commit.Id }

// Author returns the commit's author signature.
func (r *Revision) Author() gitdb.Signature { return r.commit.Author }

// Committer returns the commit's committer signature.
func (r *Revision) Committer() gitdb.Signature { return r.commit.Committer }

func (r *Revision) parse() {
	r.once.Do(func() {
		r.properties, r.message = extractProperties(r.commit.Message)
	})
}

// Properties returns the key/value pairs parsed out of the leading property
// block of the commit message. Computed once and cached (spec.md §3).
func (r *Revision) Properties() map[string]string {
	r.parse()
	out := make(map[string]string, len(r.properties))
	for k, v := range r.properties {
		out[k] = v
	}
	return out
}

// Message returns the commit message with the property block stripped and
// surrounding whitespace trimmed.
func (r *Revision) Message() string {
	r.parse()
	return r.message
}

// Parents returns this commit's parent revisions in commit-parent order,
// materialized lazily on first access and cached thereafter (spec.md §9). A
// lookup failure is not cached, so a later call can retry instead of
// silently returning (nil, nil).
func (r *Revision) Parents() ([]*Revision, error) {
	r.parentsMu.Lock()
	defer r.parentsMu.Unlock()

	if r.parentsDone {
		return r.parents, nil
	}

	parents := make([]*Revision, 0, len(r.commit.ParentIds))
	for _, pid := range r.commit.ParentIds {
		pc, err := r.repo.handle.LookupCommit(pid)
		if err != nil {
			return nil, err
		}
		parents = append(parents, newRevision(r.repo, pc))
	}

	r.parents = parents
	r.parentsDone = true
	return r.parents, nil
}

// Node resolves path against this revision's tree. An empty path, ".", or
// no path at all resolves the tree root.
func (r *Revision) Node(path string) (*Node, error) {
	return newNode(r.repo, r.commit, path)
}
