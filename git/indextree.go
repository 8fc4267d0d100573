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
	"fmt"
	"path"
	"strings"

	"github.com/k00ni/QuitStore/internal/gitdb"
)

// treeBuilderHandle is a thin indirection so IndexHeap can store a pointer
// to the same builder across Get/Set calls without re-inserting it.
type treeBuilderHandle struct {
	tb *gitdb.TreeBuilder
}

// IndexTree is the transient structure Index.Commit uses to materialize a
// new root tree, re-using unchanged subtrees from the base revision. It is
// constructed and dropped entirely inside Commit (spec.md §3 "Ownership").
type IndexTree struct {
	repo         *Repository
	baseRevision *Revision
	builders     *IndexHeap
}

func newIndexTree(repo *Repository, base *Revision) (*IndexTree, error) {
	var baseTree gitdb.Oid
	if base != nil {
		baseTree = base.commit.TreeId
	}

	tb, err := repo.handle.TreeBuilder(baseTree)
	if err != nil {
		return nil, err
	}

	t := &IndexTree{repo: repo, baseRevision: base, builders: newIndexHeap()}
	t.builders.Set("", builderEntry{hasParent: false, builder: &treeBuilderHandle{tb: tb}})
	return t, nil
}

// getBuilder lazily materializes the chain of builders from the root down to
// dirPath, seeding each intermediate directory from the base revision's
// existing tree when one is present there (spec.md §4.D).
func (t *IndexTree) getBuilder(dirPath string) (*treeBuilderHandle, error) {
	if dirPath == "" {
		entry, _ := t.builders.Get("")
		return entry.builder, nil
	}

	parts := strings.Split(dirPath, "/")
	for i := range parts {
		sub := strings.Join(parts[:i+1], "/")
		if _, exists := t.builders.Get(sub); exists {
			continue
		}

		parent := ""
		if i > 0 {
			parent = strings.Join(parts[:i], "/")
		}

		var seed gitdb.Oid
		if t.baseRevision != nil {
			entry, objType, err := resolvePath(t.repo.handle, t.baseRevision.commit.TreeId, sub)
			if err == nil {
				if objType != gitdb.ObjectTree {
					return nil, &IndexError{
						Kind:    IndexErrorPathIsFile,
						Message: fmt.Sprintf("cannot create a tree builder, %q is a file", sub),
					}
				}
				seed = entry.Id
			}
			// NodeNotFound: directory is new, build an empty builder.
		}

		tb, err := t.repo.handle.TreeBuilder(seed)
		if err != nil {
			return nil, err
		}
		t.builders.Set(sub, builderEntry{parent: parent, hasParent: true, builder: &treeBuilderHandle{tb: tb}})
	}

	entry, _ := t.builders.Get(dirPath)
	return entry.builder, nil
}

// Add inserts path -> (oid, mode) into the appropriate directory builder.
func (t *IndexTree) Add(p string, oid gitdb.Oid, mode gitdb.Filemode) error {
	tb, err := t.getBuilder(dirnameOf(p))
	if err != nil {
		return err
	}
	return tb.tb.Insert(basenameOf(p), oid, mode)
}

// Remove stages a deletion. The path must exist in the base revision.
func (t *IndexTree) Remove(p string) error {
	if t.baseRevision == nil {
		return &NodeNotFoundError{Path: p, Commit: ""}
	}
	if _, err := t.baseRevision.Node(p); err != nil {
		return err
	}

	tb, err := t.getBuilder(dirnameOf(p))
	if err != nil {
		return err
	}
	return tb.tb.Remove(basenameOf(p))
}

// Write seals every builder bottom-up: the deepest directory is written and
// cleared first, its oid inserted into its parent builder as a subtree
// entry, until only the root builder remains and is written last. This is
// the heap-ordered protocol of spec.md §4.D / §9: the depth key guarantees
// children are sealed before parents; an equivalent implementation could use
// a post-order trie walk instead of a heap.
func (t *IndexTree) Write() (gitdb.Oid, error) {
	for {
		p, entry, ok := t.builders.PopItem()
		if !ok {
			return gitdb.Oid{}, fmt.Errorf("git: index tree heap exhausted before root was written")
		}

		oid, err := entry.builder.tb.Write()
		if err != nil {
			return gitdb.Oid{}, err
		}
		entry.builder.tb.Clear()

		if !entry.hasParent {
			return oid, nil
		}

		parentEntry, ok := t.builders.Get(entry.parent)
		if !ok {
			return gitdb.Oid{}, fmt.Errorf("git: index tree builder for %q has no parent %q", p, entry.parent)
		}
		if err := parentEntry.builder.tb.Insert(basenameOf(p), oid, gitdb.FilemodeTree); err != nil {
			return gitdb.Oid{}, err
		}
	}
}

func dirnameOf(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

func basenameOf(p string) string {
	return path.Base(p)
}
