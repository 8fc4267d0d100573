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

// Command quitgc inspects and maintains a version-controlled quad store's
// underlying Git repository: listing revisions, printing a path's content at
// a revision, and running the gc.auto bookkeeping pass standalone.
package main

import (
	"fmt"
	"os"

	"github.com/k00ni/QuitStore/git"
	"github.com/k00ni/QuitStore/internal/gitdb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	repoPath string
	verbose  verbosity
)

func main() {
	root := &cobra.Command{
		Use:   "quitgc",
		Short: "inspect and maintain a quit repository's underlying Git store",
	}
	root.PersistentFlags().StringVar(&repoPath, "repo", ".", "path to the repository")
	root.PersistentFlags().VarPF(&verbose, "verbose", "v", "increase verbosity (repeatable)").NoOptDefVal = "true"

	root.AddCommand(logCmd(), catCmd(), gcCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "quitgc:", err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	switch {
	case verbose >= 2:
		log.SetLevel(logrus.TraceLevel)
	case verbose == 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func openRepo() (*git.Repository, error) {
	return git.Open(repoPath, git.OpenOptions{Log: newLogger()})
}

func logCmd() *cobra.Command {
	var branch string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "list revisions reachable from a branch (default: all branches)",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			revs, err := repo.Revisions(branch, gitdb.SortTopoReverse)
			if err != nil {
				return err
			}
			for _, rev := range revs {
				fmt.Printf("%s %s\n", rev.ShortID(), firstLine(rev.Message()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "restrict to this branch")
	return cmd
}

func catCmd() *cobra.Command {
	var rev string
	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "print a file node's content at a revision (default HEAD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			revision, err := repo.Revision(rev)
			if err != nil {
				return err
			}
			node, err := revision.Node(args[0])
			if err != nil {
				return err
			}
			content, err := node.Content()
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		},
	}
	cmd.Flags().StringVar(&rev, "rev", "HEAD", "revision to read from")
	return cmd
}

func gcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "run the gc.auto bookkeeping pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			repo, err := git.Open(repoPath, git.OpenOptions{Log: log, GC: true})
			if err != nil {
				return err
			}
			return repo.Close()
		},
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
