package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seoaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoaudit",
		Short: "Rule-based SEO audit of crawled pages",
		Long: `seoaudit audits the pages of a website for SEO issues.

It reads the per-URL records exported by a crawler (JSON or JSON Lines),
runs a fixed set of detection rules per category (HTTP errors, titles,
meta descriptions, headings, images, technical tags, performance and
mixed content) and writes a consolidated report as an XLSX workbook,
Markdown or JSON. Every run can be kept in a local history and compared
with earlier runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
