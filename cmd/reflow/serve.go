package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reflow/internal/server"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Run the reflow language server over stdio",
	SilenceUsage: true,
	RunE:         runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := server.NewServer(os.Stdin, os.Stdout, server.ServerOptions{})
	if err := srv.Run(cmd.Context()); err != nil {
		if errors.Is(err, server.ErrExit) {
			return nil
		}
		if errors.Is(err, server.ErrExitWithoutShutdown) {
			return fmt.Errorf("serve: exit without shutdown")
		}
		return err
	}
	return nil
}
