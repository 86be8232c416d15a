/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChenM0M/Vecho/internal/server"
	"github.com/ChenM0M/Vecho/internal/workflows"
)

var (
	workflowsImportFile   string
	workflowsImportDryRun bool
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Manage stored workflow definitions",
}

var workflowsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import workflow definitions from a YAML file",
	Long:  "Parse a workflow YAML file and add each definition to the document store",
	RunE:  runWorkflowsImport,
}

func init() {
	workflowsImportCmd.Flags().StringVarP(&workflowsImportFile, "file", "f", "", "Path to the workflow YAML file (required)")
	workflowsImportCmd.Flags().BoolVar(&workflowsImportDryRun, "dry-run", false, "Validate the file without storing anything")
	_ = workflowsImportCmd.MarkFlagRequired("file")
	workflowsCmd.AddCommand(workflowsImportCmd)
	rootCmd.AddCommand(workflowsCmd)
}

func runWorkflowsImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	defs, err := workflows.Load(workflowsImportFile)
	if err != nil {
		return fmt.Errorf("load workflow file: %w", err)
	}

	if workflowsImportDryRun {
		for _, wf := range defs {
			fmt.Printf("ok: %s (%d nodes, %d connections)\n", wf.Name, len(wf.Nodes), len(wf.Connections))
		}
		return nil
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize document store: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown cleanup failed")
		}
	}()

	for _, wf := range defs {
		added := srv.Store().AddWorkflow(wf)
		fmt.Printf("imported: %s (%s)\n", added.Name, added.ID)
	}

	return nil
}
