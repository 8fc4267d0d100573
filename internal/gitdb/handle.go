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
	"errors"
	"runtime"

	git2go "github.com/libgit2/git2go/v31"
	"github.com/sirupsen/logrus"
)

// OpenOptions controls how Open locates or creates the on-disk repository.
type OpenOptions struct {
	// Create initializes a new repository at Path if none exists.
	Create bool
	// Origin, if set, clones from this URL into Path instead of an empty
	// init when no repository exists yet.
	Origin string
	// GC enables the gc.auto bookkeeping described in spec.md §4.A.
	GC bool
	// Credentials supplies auth material for the clone, if Origin is set.
	Credentials *CredentialAdapter
	// Log receives informational/diagnostic messages. Defaults to
	// logrus.StandardLogger() when nil.
	Log *logrus.Logger
}

// Handle owns a libgit2 repository object. It is not safe for concurrent
// mutation - callers must serialize writes (see spec.md §5).
type Handle struct {
	path string
	repo *git2go.Repository
	log  *logrus.Logger
}

// Open opens the repository at path, creating or cloning it first per opts.
func Open(path string, opts OpenOptions) (*Handle, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	repo, err := git2go.OpenRepository(path)
	if err != nil {
		if !opts.Create && opts.Origin == "" {
			return nil, &ErrRepositoryNotFound{Path: path}
		}

		if opts.Origin != "" {
			cloneOpts := &git2go.CloneOptions{Bare: false}
			if opts.Credentials != nil {
				cloneOpts.FetchOptions = git2go.FetchOptions{
					RemoteCallbacks: opts.Credentials.callbacks(),
				}
			}
			log.WithFields(logrus.Fields{"url": opts.Origin, "path": path}).Info("cloning repository")
			repo, err = git2go.Clone(opts.Origin, path, cloneOpts)
			if err != nil {
				log.WithError(err).Warn("clone failed")
				return nil, err
			}
		} else {
			repo, err = git2go.InitRepository(path, false)
			if err != nil {
				return nil, err
			}
		}
	}

	h := &Handle{path: path, repo: repo, log: log}

	if opts.GC {
		configureGCAuto(log, path)
	}

	return h, nil
}

// Close releases the underlying libgit2 repository handle. Close is
// idempotent; calling it more than once is a no-op.
func (h *Handle) Close() error {
	if h.repo == nil {
		return nil
	}
	h.repo.Free()
	h.repo = nil
	return nil
}

func (h *Handle) checkOpen() error {
	if h.repo == nil {
		return errors.New("gitdb: handle is closed")
	}
	return nil
}

// Path returns the filesystem path this handle was opened against.
func (h *Handle) Path() string {
	p := cloneString(h.repo.Path())
	runtime.KeepAlive(h.repo)
	return p
}

// IsEmpty reports whether the repository has no commits yet.
func (h *Handle) IsEmpty() (bool, error) {
	if err := h.checkOpen(); err != nil {
		return false, err
	}
	empty, err := h.repo.IsEmpty()
	runtime.KeepAlive(h.repo)
	return empty, err
}

// IsBare reports whether the repository has no working tree.
func (h *Handle) IsBare() bool {
	bare := h.repo.IsBare()
	runtime.KeepAlive(h.repo)
	return bare
}

// DefaultSignature returns the signature libgit2 would use for operations
// that do not take an explicit author (used by pull's merge commit).
func (h *Handle) DefaultSignature() (Signature, error) {
	s, err := h.repo.DefaultSignature()
	if err != nil {
		return Signature{}, err
	}
	sig := signatureFromGit2go(s)
	runtime.KeepAlive(h.repo)
	return sig, nil
}
