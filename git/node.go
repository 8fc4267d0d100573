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
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/k00ni/QuitStore/internal/gitdb"
)

// NodeKind distinguishes the two variants a Node can be.
type NodeKind int

const (
	KindDirectory NodeKind = iota
	KindFile
)

// Node is a typed, immutable view over one path inside a commit's tree: a
// directory or a file, never both (spec.md §3 "is_dir XOR is_file").
type Node struct {
	repo   *Repository
	commit *gitdb.RawCommit
	name   string
	kind   NodeKind

	oid  gitdb.Oid
	tree *gitdb.RawTree // set when kind == KindDirectory
	blob *gitdb.RawBlob // set when kind == KindFile, loaded lazily by Content/Reader
}

func newNode(repo *Repository, commit *gitdb.RawCommit, p string) (*Node, error) {
	if p == "" || p == "." {
		root, err := repo.handle.LookupTree(commit.TreeId)
		if err != nil {
			return nil, err
		}
		return &Node{repo: repo, commit: commit, name: "", kind: KindDirectory, oid: commit.TreeId, tree: root}, nil
	}

	clean := path.Clean(p)
	entry, objType, err := resolvePath(repo.handle, commit.TreeId, clean)
	if err != nil {
		return nil, &NodeNotFoundError{Path: p, Commit: commit.Id.String()}
	}

	n := &Node{repo: repo, commit: commit, name: clean, oid: entry.Id}
	switch objType {
	case gitdb.ObjectTree:
		n.kind = KindDirectory
		tree, err := repo.handle.LookupTree(entry.Id)
		if err != nil {
			return nil, err
		}
		n.tree = tree
	case gitdb.ObjectBlob:
		n.kind = KindFile
	default:
		return nil, &NodeNotFoundError{Path: p, Commit: commit.Id.String()}
	}
	return n, nil
}

// resolvePath walks path segment by segment from root, returning the final
// entry and its object type. Used both by newNode and by IndexTree to check
// whether an intermediate path is a file (which would make it invalid as a
// directory).
func resolvePath(h *gitdb.Handle, rootTree gitdb.Oid, clean string) (gitdb.TreeEntry, gitdb.ObjectType, error) {
	parts := strings.Split(clean, "/")

	tree, err := h.LookupTree(rootTree)
	if err != nil {
		return gitdb.TreeEntry{}, 0, err
	}

	var entry gitdb.TreeEntry
	for i, part := range parts {
		e, ok := tree.EntryByName(part)
		if !ok {
			return gitdb.TreeEntry{}, 0, errors.New("gitdb: path not found")
		}
		entry = e
		last := i == len(parts)-1
		if !last {
			if entry.Type != gitdb.ObjectTree {
				return gitdb.TreeEntry{}, 0, errors.New("gitdb: intermediate path is not a directory")
			}
			tree, err = h.LookupTree(entry.Id)
			if err != nil {
				return gitdb.TreeEntry{}, 0, err
			}
		}
	}
	return entry, entry.Type, nil
}

// Name returns the normalized path of this node, empty for the root.
func (n *Node) Name() string { return n.name }

// Oid returns the underlying blob or tree object id.
func (n *Node) Oid() gitdb.Oid { return n.oid }

// IsDir reports whether this node is a directory.
func (n *Node) IsDir() bool { return n.kind == KindDirectory }

// IsFile reports whether this node is a file.
func (n *Node) IsFile() bool { return n.kind == KindFile }

// Dirname returns the parent directory of Name, "" for a root-level entry.
func (n *Node) Dirname() string {
	d := path.Dir(n.name)
	if d == "." {
		return ""
	}
	return d
}

// Basename returns the final path component of Name.
func (n *Node) Basename() string { return path.Base(n.name) }

func (n *Node) loadBlob() error {
	if n.blob != nil || n.kind != KindFile {
		return nil
	}
	b, err := n.repo.handle.LookupBlob(n.oid)
	if err != nil {
		return err
	}
	n.blob = b
	return nil
}

// Content returns a file node's bytes decoded as UTF-8. Defined only for
// files; returns an error for a directory node.
func (n *Node) Content() (string, error) {
	if !n.IsFile() {
		return "", errors.New("git: content is only defined for file nodes")
	}
	if err := n.loadBlob(); err != nil {
		return "", err
	}
	return string(n.blob.Data()), nil
}

// ContentLength returns a file node's byte length. Defined only for files.
func (n *Node) ContentLength() (int64, error) {
	if !n.IsFile() {
		return 0, errors.New("git: content_length is only defined for file nodes")
	}
	if err := n.loadBlob(); err != nil {
		return 0, err
	}
	return n.blob.Size, nil
}

// Reader streams a file node's content without buffering it as a string,
// added for the n-quads file layer (SPEC_FULL.md component C) which reads
// graphs line by line rather than as one decoded string.
func (n *Node) Reader() (io.Reader, error) {
	if !n.IsFile() {
		return nil, errors.New("git: reader is only defined for file nodes")
	}
	if err := n.loadBlob(); err != nil {
		return nil, err
	}
	return bytes.NewReader(n.blob.Data()), nil
}

// Entries yields this directory's children in underlying tree order. When
// recursive, each directory child is followed immediately by its own
// subtree (pre-order), per spec.md §4.C.
func (n *Node) Entries(recursive bool) ([]*Node, error) {
	if !n.IsDir() {
		return nil, nil
	}

	childDir := n.name

	var out []*Node
	for _, e := range n.tree.Entries {
		childPath := joinPath(childDir, e.Name)
		child, err := newNode(n.repo, n.commit, childPath)
		if err != nil {
			return nil, err
		}
		out = append(out, child)

		if recursive && child.IsDir() {
			sub, err := child.Entries(true)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}
	return out, nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// History walks this node's owning commit's ancestors in commit-time order,
// emitting a new Node each time the entry at this node's path changes oid.
// Iteration stops the first time the path is absent from an ancestor's
// tree - including re-additions after a deletion are not surfaced, a known
// limitation carried over unchanged from spec.md §4.C / §9.
func (n *Node) History() ([]*Node, error) {
	iter, err := n.repo.handle.Walk(n.commit.Id, gitdb.SortTime)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*Node
	first := true
	var prevOid gitdb.Oid

	for {
		cid, err := iter.Next()
		if err != nil {
			break
		}

		commit, err := n.repo.handle.LookupCommit(cid)
		if err != nil {
			return nil, err
		}

		var entryOid gitdb.Oid
		if n.name == "" {
			entryOid = commit.TreeId
		} else {
			entry, _, err := resolvePath(n.repo.handle, commit.TreeId, n.name)
			if err != nil {
				// path absent from this ancestor's tree: terminate (spec.md §4.C)
				return out, nil
			}
			entryOid = entry.Id
		}

		if !first && entryOid != prevOid {
			node, err := newNode(n.repo, commit, n.name)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		}

		prevOid = entryOid
		first = false
	}

	return out, nil
}
