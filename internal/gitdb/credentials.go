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
	"fmt"
	"net"
	"os"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v31"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// PushError carries the remote's rejection message for a single ref, as
// reported through the push-update-reference callback. Component F of
// spec.md §4.F: a synchronous Push call cannot itself raise from inside
// libgit2's callback, so the adapter records the error here and the caller
// inspects it once Push returns.
type PushError struct {
	Ref     string
	Message string
}

func (e *PushError) Error() string {
	return fmt.Sprintf("gitdb: the reference %q could not be pushed: %s", e.Ref, e.Message)
}

// CredentialAdapter supplies authentication material to libgit2 on demand
// and captures asynchronous push rejections. One adapter is bound to one
// Handle and reused across clone/fetch/push.
type CredentialAdapter struct {
	// SSHKeyHome overrides $HOME/.ssh as the directory id_rsa/id_rsa.pub
	// are looked up in. Sourced from QUIT_SSH_KEY_HOME.
	SSHKeyHome string

	// Username/Password back GIT_USERNAME/GIT_PASSWORD plaintext auth.
	Username string
	Password string

	lastPushError *PushError
}

// NewCredentialAdapterFromEnv builds an adapter using the environment
// variables spec.md §6 names: SSH_AUTH_SOCK (implicitly, via the agent
// socket check in credentials()), QUIT_SSH_KEY_HOME, GIT_USERNAME,
// GIT_PASSWORD.
func NewCredentialAdapterFromEnv() *CredentialAdapter {
	return &CredentialAdapter{
		SSHKeyHome: os.Getenv("QUIT_SSH_KEY_HOME"),
		Username:   os.Getenv("GIT_USERNAME"),
		Password:   os.Getenv("GIT_PASSWORD"),
	}
}

// LastPushError returns the rejection recorded by the most recent push, or
// nil if the remote acknowledged every ref.
func (c *CredentialAdapter) LastPushError() *PushError {
	return c.lastPushError
}

func (c *CredentialAdapter) callbacks() git2go.RemoteCallbacks {
	return git2go.RemoteCallbacks{
		CredentialsCallback:      c.credentials,
		PushUpdateReferenceCallback: c.pushUpdateReference,
	}
}

// credentials implements git2go.CredentialsCallback, selecting in the order
// described by spec.md §4.F: SSH agent, then SSH key files, then plaintext
// username/password.
func (c *CredentialAdapter) credentials(url string, usernameFromURL string, allowedTypes git2go.CredType) (*git2go.Cred, error) {
	if allowedTypes&git2go.CredTypeSSHKey != 0 {
		if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
			if err := probeSSHAgent(sock); err != nil {
				return nil, fmt.Errorf("gitdb: SSH_AUTH_SOCK set but unusable: %w", err)
			}
			return git2go.NewCredSshKeyFromAgent(usernameFromURL)
		}

		home := c.SSHKeyHome
		if home == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("gitdb: no SSH keys could be found: %w", err)
			}
			home = filepath.Join(h, ".ssh")
		}

		pub := filepath.Join(home, "id_rsa.pub")
		priv := filepath.Join(home, "id_rsa")
		if fileExists(pub) && fileExists(priv) {
			if err := validatePrivateKeyFile(priv); err != nil {
				return nil, fmt.Errorf("gitdb: %s: %w", priv, err)
			}
			return git2go.NewCredSshKey(usernameFromURL, pub, priv, "")
		}

		return nil, fmt.Errorf(
			"gitdb: no SSH keys could be found, please specify SSH_AUTH_SOCK or add keys to %s", home,
		)
	}

	if allowedTypes&git2go.CredTypeUserpassPlaintext != 0 {
		if c.Username != "" && c.Password != "" {
			return git2go.NewCredUserpassPlaintext(c.Username, c.Password)
		}
		return nil, fmt.Errorf(
			"gitdb: remote requested plaintext username/password authentication but " +
				"GIT_USERNAME or GIT_PASSWORD are not set",
		)
	}

	return nil, fmt.Errorf("gitdb: only unsupported credential types allowed by remote end")
}

// pushUpdateReference implements git2go.PushUpdateReferenceCallback. If the
// remote rejects a ref, message is non-empty; the rejection is recorded on
// the adapter and the push of that ref is signalled as failed.
func (c *CredentialAdapter) pushUpdateReference(refname, message string) error {
	if message != "" {
		c.lastPushError = &PushError{Ref: refname, Message: message}
		return fmt.Errorf("gitdb: push rejected: %s", message)
	}
	return nil
}

// probeSSHAgent verifies SSH_AUTH_SOCK actually names a reachable agent
// socket before handing control to libgit2, which otherwise reports an
// opaque "failed to authenticate" error when the socket is stale.
func probeSSHAgent(sock string) error {
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := agent.NewClient(conn)
	_, err = client.List()
	return err
}

// validatePrivateKeyFile confirms the file at path parses as an SSH private
// key before it is handed to libgit2, so a malformed key produces a clear
// error instead of libgit2's generic authentication failure.
func validatePrivateKeyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = ssh.ParsePrivateKey(data)
	if err != nil && !isPassphraseProtected(err) {
		return err
	}
	return nil
}

func isPassphraseProtected(err error) bool {
	_, ok := err.(*ssh.PassphraseMissingError)
	return ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
