package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "audit-engine",
	Short: "Consolidation and scoring engine for company audits",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
}
