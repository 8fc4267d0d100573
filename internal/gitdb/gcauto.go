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
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// defaultGCAutoThreshold is used when gc.auto is unset in the repository
// config, matching the Python original's hardcoded 256.
const defaultGCAutoThreshold = 256

// gcAutoEnvOverride lets an operator tune the default without invoking git
// config by hand.
const gcAutoEnvOverride = "QUIT_GC_AUTO_THRESHOLD"

// configureGCAuto reads gc.auto from the repository's git config by spawning
// the git binary (libgit2's own Config type does not expose a convenient
// "get-or-set-default" round trip, and shelling out mirrors the behavior of
// the Python original, which used subprocess for exactly this). If gc.auto
// is unset, it is set to the default threshold. Any failure - most likely
// because the git binary is not on PATH - is logged and garbage collection
// is left disabled for the rest of the process lifetime.
func configureGCAuto(log *logrus.Logger, path string) {
	threshold, err := runGitConfig(path, "gc.auto")
	if err != nil {
		log.WithError(err).Info("git garbage collection could not be configured and was disabled")
		return
	}

	threshold = strings.TrimSpace(threshold)
	if threshold == "" {
		threshold = strconv.Itoa(gcAutoThresholdDefault())
		if _, err := runGitConfigSet(path, "gc.auto", threshold); err != nil {
			log.WithError(err).Info("git garbage collection could not be configured and was disabled")
			return
		}
		log.WithField("threshold", threshold).Info("set default gc.auto threshold")
	}

	log.WithField("threshold", threshold).Info("garbage collection is enabled")
}

func gcAutoThresholdDefault() int {
	if v := os.Getenv(gcAutoEnvOverride); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultGCAutoThreshold
}

func runGitConfig(dir, key string) (string, error) {
	cmd := exec.Command("git", "config", key)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			// "git config <key>" exits 1 when the key is unset - not a failure.
			return "", nil
		}
		return "", err
	}
	return stdout.String(), nil
}

func runGitConfigSet(dir, key, value string) (string, error) {
	cmd := exec.Command("git", "config", key, value)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.String(), err
}
