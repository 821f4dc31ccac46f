package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/manuscript-match/internal/check"
	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/help"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Diagnose config, manifest and output directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := check.Run(a.cfg, a.configPath)
			fmt.Fprint(cmd.OutOrStdout(), report.Format())
			if report.HasFailures() {
				return errors.New("check failed")
			}
			return nil
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "init [manuscript-dir]",
		Short:       "Write a default config pointing at a manuscript",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve manuscript dir: %w", err)
			}
			if info, err := os.Stat(abs); err != nil || !info.IsDir() {
				return fmt.Errorf("manuscript dir %s not found", abs)
			}

			path, err := config.WriteDefault(abs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", config.CompressHome(path))
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "man [dir]",
		Short:       "Generate man pages",
		Hidden:      true,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "man"
			if len(args) == 1 {
				dir = args[0]
			}
			written, err := help.Generate(cmd.Root(), dir, version, "")
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
			return nil
		},
	}
}
