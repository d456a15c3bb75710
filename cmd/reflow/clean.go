package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reflow/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the reflow result cache",
	Long:  "Remove the on-disk cache of formatting results.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("reflow")
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "cache removed")
	return nil
}
