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

// Package gitdb wraps git2go (the cgo binding to libgit2) and exposes only
// copied-out, garbage-collector-safe values.
//
// git2go methods such as Blob.Contents() or Tree.EntryByName() return slices
// and pointers that alias memory owned by the underlying cgo object; if that
// object is collected before the caller is done with the slice, the program
// either crashes or silently corrupts data. This package localizes every such
// access behind a copy and a runtime.KeepAlive of the owning object, the same
// discipline git-backup's internal/git package uses around git2go.Odb and
// git2go.Commit.
package gitdb

import (
	"encoding/hex"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v31"
)

// Oid is a content-addressed object id, copied out of git2go at the moment
// it is observed so it never aliases cgo memory.
type Oid [20]byte

// ZeroOid is the null oid, used to mark "no base revision".
var ZeroOid Oid

func (o Oid) IsZero() bool { return o == ZeroOid }

func (o Oid) String() string { return hex.EncodeToString(o[:]) }

// Short returns the first n hex characters of the oid.
func (o Oid) Short(n int) string {
	s := o.String()
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func oidFromGit2go(id *git2go.Oid) Oid {
	var o Oid
	if id == nil {
		return o
	}
	copy(o[:], id[:])
	return o
}

func (o Oid) toGit2go() *git2go.Oid {
	id := git2go.Oid{}
	copy(id[:], o[:])
	return &id
}

// ParseOid parses a 40-character hex string into an Oid.
func ParseOid(s string) (Oid, error) {
	var o Oid
	if hex.DecodedLen(len(s)) != len(o) {
		return o, fmt.Errorf("gitdb: %q is not a valid object id", s)
	}
	if _, err := hex.Decode(o[:], []byte(s)); err != nil {
		return o, fmt.Errorf("gitdb: %q is not a valid object id: %w", s, err)
	}
	return o, nil
}

// Signature is an authorship/committer record, copied out of git2go.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func signatureFromGit2go(s *git2go.Signature) Signature {
	if s == nil {
		return Signature{}
	}
	return Signature{
		Name:  cloneString(s.Name),
		Email: cloneString(s.Email),
		When:  s.When,
	}
}

func (s Signature) toGit2go() *git2go.Signature {
	return &git2go.Signature{Name: s.Name, Email: s.Email, When: s.When}
}

// Filemode mirrors the subset of git2go.Filemode the index/tree machinery
// needs to distinguish blobs, executables, symlinks and subtrees.
type Filemode int

const (
	FilemodeBlob           Filemode = Filemode(git2go.FilemodeBlob)
	FilemodeBlobExecutable Filemode = Filemode(git2go.FilemodeBlobExecutable)
	FilemodeLink           Filemode = Filemode(git2go.FilemodeLink)
	FilemodeTree           Filemode = Filemode(git2go.FilemodeTree)
)

func (m Filemode) toGit2go() git2go.Filemode { return git2go.Filemode(m) }

// ObjectType mirrors git2go.ObjectType for the object kinds this package
// surfaces to callers (commit, tree, blob).
type ObjectType int

const (
	ObjectAny ObjectType = ObjectType(git2go.ObjectAny)
	ObjectTree ObjectType = ObjectType(git2go.ObjectTree)
	ObjectBlob ObjectType = ObjectType(git2go.ObjectBlob)
	ObjectCommit ObjectType = ObjectType(git2go.ObjectCommit)
)

func objectTypeFromGit2go(t git2go.ObjectType) ObjectType { return ObjectType(t) }

// TreeEntry is one entry of a Tree, copied out of git2go.TreeEntry.
type TreeEntry struct {
	Name     string
	Id       Oid
	Filemode Filemode
	Type     ObjectType
}

func treeEntryFromGit2go(e *git2go.TreeEntry) TreeEntry {
	if e == nil {
		return TreeEntry{}
	}
	return TreeEntry{
		Name:     cloneString(e.Name),
		Id:       oidFromGit2go(e.Id),
		Filemode: Filemode(e.Filemode),
		Type:     objectTypeFromGit2go(e.Type),
	}
}

// RawCommit is an immutable, copied-out view of a git2go.Commit.
type RawCommit struct {
	Id        Oid
	TreeId    Oid
	ParentIds []Oid
	Author    Signature
	Committer Signature
	Message   string
}

// RawTree is an immutable, copied-out view of a git2go.Tree.
type RawTree struct {
	Id      Oid
	Entries []TreeEntry
}

// EntryByName returns the entry with the given name, or false if absent.
func (t *RawTree) EntryByName(name string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// RawBlob is an immutable, copied-out view of a git2go.Blob.
type RawBlob struct {
	Id   Oid
	Size int64
	data []byte
}

// Data returns a private copy of the blob content. Safe to retain past the
// lifetime of the Handle that produced it.
func (b *RawBlob) Data() []byte {
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}
