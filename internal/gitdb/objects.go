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
	"runtime"

	git2go "github.com/libgit2/git2go/v31"
)

// CreateBlob content-addresses data and stores it in the object database.
func (h *Handle) CreateBlob(data []byte) (Oid, error) {
	if err := h.checkOpen(); err != nil {
		return Oid{}, err
	}
	id, err := h.repo.CreateBlobFromBuffer(data)
	if err != nil {
		return Oid{}, err
	}
	o := oidFromGit2go(id)
	runtime.KeepAlive(h.repo)
	return o, nil
}

// LookupBlob reads a blob's content into an owned copy.
func (h *Handle) LookupBlob(id Oid) (*RawBlob, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	blob, err := h.repo.LookupBlob(id.toGit2go())
	if err != nil {
		return nil, err
	}
	rb := &RawBlob{Id: id, Size: blob.Size(), data: bytesClone(blob.Contents())}
	runtime.KeepAlive(blob)
	return rb, nil
}

// LookupTree reads a tree's entries into an owned copy.
func (h *Handle) LookupTree(id Oid) (*RawTree, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	tree, err := h.repo.LookupTree(id.toGit2go())
	if err != nil {
		return nil, err
	}
	n := tree.EntryCount()
	entries := make([]TreeEntry, 0, n)
	for i := uint64(0); i < n; i++ {
		entries = append(entries, treeEntryFromGit2go(tree.EntryByIndex(i)))
	}
	rt := &RawTree{Id: id, Entries: entries}
	runtime.KeepAlive(tree)
	return rt, nil
}

// LookupCommit reads a commit's metadata into an owned copy.
func (h *Handle) LookupCommit(id Oid) (*RawCommit, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	commit, err := h.repo.LookupCommit(id.toGit2go())
	if err != nil {
		return nil, err
	}
	rc := rawCommitFromGit2go(commit)
	runtime.KeepAlive(commit)
	return rc, nil
}

func rawCommitFromGit2go(c *git2go.Commit) *RawCommit {
	n := c.ParentCount()
	parents := make([]Oid, 0, n)
	for i := uint(0); i < n; i++ {
		parents = append(parents, oidFromGit2go(c.ParentId(i)))
	}
	return &RawCommit{
		Id:        oidFromGit2go(c.Id()),
		TreeId:    oidFromGit2go(c.TreeId()),
		ParentIds: parents,
		Author:    signatureFromGit2go(c.Author()),
		Committer: signatureFromGit2go(c.Committer()),
		Message:   cloneString(c.Message()),
	}
}

// RevparseSingle resolves a revision spec (branch, tag, short/long oid, HEAD,
// ...) to a commit oid.
func (h *Handle) RevparseSingle(spec string) (Oid, error) {
	if err := h.checkOpen(); err != nil {
		return Oid{}, err
	}
	obj, err := h.repo.RevparseSingle(spec)
	if err != nil {
		return Oid{}, err
	}
	defer obj.Free()

	commit, err := obj.AsCommit()
	if err != nil {
		return Oid{}, err
	}
	defer commit.Free()

	o := oidFromGit2go(commit.Id())
	return o, nil
}

// CreateCommit creates a new commit object and, if ref is non-empty, advances
// that reference to point at it.
func (h *Handle) CreateCommit(ref string, author, committer Signature, message string, tree Oid, parentIds []Oid) (Oid, error) {
	if err := h.checkOpen(); err != nil {
		return Oid{}, err
	}

	treeObj, err := h.repo.LookupTree(tree.toGit2go())
	if err != nil {
		return Oid{}, err
	}
	defer treeObj.Free()

	parents := make([]*git2go.Commit, 0, len(parentIds))
	for _, pid := range parentIds {
		p, err := h.repo.LookupCommit(pid.toGit2go())
		if err != nil {
			return Oid{}, err
		}
		defer p.Free()
		parents = append(parents, p)
	}

	refname := ref
	id, err := h.repo.CreateCommit(refname, author.toGit2go(), committer.toGit2go(), message, treeObj, parents...)
	if err != nil {
		return Oid{}, err
	}
	return oidFromGit2go(id), nil
}

// TreeBuilder creates a new tree builder, optionally seeded from base (pass
// Oid{} for an empty builder - i.e. building an orphan tree).
func (h *Handle) TreeBuilder(base Oid) (*TreeBuilder, error) {
	if err := h.checkOpen(); err != nil {
		return nil, err
	}

	var b *git2go.TreeBuilder
	var err error
	if base.IsZero() {
		b, err = h.repo.TreeBuilder()
	} else {
		var tree *git2go.Tree
		tree, err = h.repo.LookupTree(base.toGit2go())
		if err != nil {
			return nil, err
		}
		defer tree.Free()
		b, err = h.repo.TreeBuilderFromTree(tree)
	}
	if err != nil {
		return nil, err
	}

	return &TreeBuilder{b: b}, nil
}

// TreeBuilder mutates a tree in place and writes it as a new tree object.
// It wraps git2go.TreeBuilder with the same "insert subtree oid under
// parent, then clear" discipline spec.md §4.D requires of IndexTree.write().
type TreeBuilder struct {
	b *git2go.TreeBuilder
}

// Insert adds or replaces an entry.
func (t *TreeBuilder) Insert(name string, id Oid, mode Filemode) error {
	return t.b.Insert(name, id.toGit2go(), mode.toGit2go())
}

// Remove deletes an entry. No-op error if the entry does not exist.
func (t *TreeBuilder) Remove(name string) error {
	return t.b.Remove(name)
}

// Write seals the builder into a tree object and returns its oid.
func (t *TreeBuilder) Write() (Oid, error) {
	id, err := t.b.Write()
	if err != nil {
		return Oid{}, err
	}
	return oidFromGit2go(id), nil
}

// Clear releases the builder's entries, freeing the underlying libgit2
// builder. Must be called after Write(); the builder is unusable afterward.
func (t *TreeBuilder) Clear() {
	t.b.Clear()
	t.b.Free()
}
