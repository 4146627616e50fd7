// Package cli provides the cobra command surface. Commands call into
// the demystify service through its driving port; all wiring happens in
// cmd/karaar before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/karaar-labs/karaar/internal/core/ports/driving"
	"github.com/karaar-labs/karaar/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// demystifyService is the wired service. Commands guard against nil so
// a partially wired binary fails with a clear message instead of a panic.
var demystifyService driving.DemystifyService

// verbose enables debug logging to stderr.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "karaar",
	Short: "Explain legal documents in plain language",
	Long: `Karaar analyses legal documents (contracts, agreements, notices)
and explains them in simple language for workers in India.

Upload a document to get a plain-language summary, explanations of the
key legal terms with links to trustworthy resources, and the ability to
ask follow-up questions about the document.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// SetDemystifyService wires the demystify service into the commands.
func SetDemystifyService(svc driving.DemystifyService) {
	demystifyService = svc
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
