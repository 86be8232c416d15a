/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChenM0M/Vecho/internal/kv"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local key-value fallback store",
	Long: `Clear all locally persisted document state.

This only touches the local fallback store (sqlite or redis). State the
media worker holds is not affected; on the next worker-backed start the
document is loaded from the worker again.

WARNING: if the worker has no copy of the document, this is irreversible.

Examples:
  # Interactive reset (will prompt for confirmation)
  vecho reset

  # Force reset without confirmation
  vecho reset --force
`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	if !resetForce {
		fmt.Printf("This will clear the local %s store. Type 'yes' to continue: ", cfg.KVBackend)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			fmt.Println("aborted")
			return nil
		}
	}

	store, err := kv.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open kv store: %w", err)
	}
	defer store.Close()

	keys := len(store.Keys())
	store.Clear()

	logger.Info().Int("keys", keys).Msg("local store cleared")
	return nil
}
