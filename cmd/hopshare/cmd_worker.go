// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	var op string
	workerCmd := &cobra.Command{
		Use:    "worker",
		Short:  "Serve pool tasks on stdin/stdout (started by process pools)",
		Hidden: true,
		Args:   cobra.NoArgs,
		// stdout carries the task stream: no config, no logs, no metrics file
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return workerRegistry().Serve(cmd.Context(), op, os.Stdin, os.Stdout)
		},
	}
	workerCmd.Flags().StringVar(&op, "op", "", "op to serve")
	_ = workerCmd.MarkFlagRequired("op")
	return workerCmd
}
