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
	"testing"

	"github.com/k00ni/QuitStore/internal/gitdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(t.TempDir(), OpenOptions{Create: true})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func commitFile(t *testing.T, repo *Repository, base *Revision, path, content string) *Revision {
	t.Helper()
	idx := repo.Index(base)
	require.NoError(t, idx.Add(path, []byte(content), 0))
	rev, err := idx.Commit("update "+path, "Jane Doe", "jane@example.org", CommitOptions{})
	require.NoError(t, err)
	return rev
}

func TestEmptyRepositoryHasNoRevisions(t *testing.T) {
	repo := openTestRepo(t)

	empty, err := repo.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = repo.Revision("HEAD")
	assert.Error(t, err)
}

func TestCommitThenReadBack(t *testing.T) {
	repo := openTestRepo(t)

	rev := commitFile(t, repo, nil, "hello.txt", "hello, world")

	node, err := rev.Node("hello.txt")
	require.NoError(t, err)
	assert.True(t, node.IsFile())

	content, err := node.Content()
	require.NoError(t, err)
	assert.Equal(t, "hello, world", content)
}

func TestShallowEditPreservesSiblings(t *testing.T) {
	repo := openTestRepo(t)

	rev1 := commitFile(t, repo, nil, "a/one.txt", "one")
	idx := repo.Index(rev1)
	require.NoError(t, idx.Add("a/two.txt", []byte("two"), 0))
	rev2, err := idx.Commit("add two", "Jane Doe", "jane@example.org", CommitOptions{})
	require.NoError(t, err)

	one, err := rev2.Node("a/one.txt")
	require.NoError(t, err)
	content, err := one.Content()
	require.NoError(t, err)
	assert.Equal(t, "one", content)

	two, err := rev2.Node("a/two.txt")
	require.NoError(t, err)
	content, err = two.Content()
	require.NoError(t, err)
	assert.Equal(t, "two", content)
}

func TestDoubleCommitRejected(t *testing.T) {
	repo := openTestRepo(t)

	idx := repo.Index(nil)
	require.NoError(t, idx.Add("x.txt", []byte("x"), 0))
	_, err := idx.Commit("first", "Jane Doe", "jane@example.org", CommitOptions{})
	require.NoError(t, err)

	_, err = idx.Commit("second", "Jane Doe", "jane@example.org", CommitOptions{})
	require.Error(t, err)
	var indexErr *IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, IndexErrorAlreadyCommitted, indexErr.Kind)
}

func TestHistoryEmitsOnlyChangedRevisions(t *testing.T) {
	repo := openTestRepo(t)

	rev1 := commitFile(t, repo, nil, "a.txt", "v1")
	rev2 := commitFile(t, repo, rev1, "unrelated.txt", "noise")
	rev3 := commitFile(t, repo, rev2, "a.txt", "v2")

	node, err := rev3.Node("a.txt")
	require.NoError(t, err)

	history, err := node.History()
	require.NoError(t, err)
	require.Len(t, history, 1)

	content, err := history[0].Content()
	require.NoError(t, err)
	assert.Equal(t, "v1", content)
}

func TestRevisionsWalksAllCommits(t *testing.T) {
	repo := openTestRepo(t)

	commitFile(t, repo, nil, "a.txt", "1")
	rev2 := commitFile(t, repo, mustRevision(t, repo), "a.txt", "2")
	_ = rev2

	revs, err := repo.Revisions("", gitdb.SortTopoReverse)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func mustRevision(t *testing.T, repo *Repository) *Revision {
	t.Helper()
	rev, err := repo.Revision("HEAD")
	require.NoError(t, err)
	return rev
}
