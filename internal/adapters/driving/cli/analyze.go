package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a legal document",
	Long: `Analyze a legal document and print a plain-language report.

The report contains a simple summary, the key legal terms with
explanations and resource links, and a session ID for follow-up
questions via 'karaar ask'.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// analyzeQuestion holds the --ask flag value.
var analyzeQuestion string

func init() {
	analyzeCmd.Flags().StringVar(&analyzeQuestion, "ask", "", "Ask a question right after analysis")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if demystifyService == nil {
		return errors.New("demystify service not configured")
	}

	filePath := args[0]
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("cannot read %s: %w", filePath, err)
	}

	session, err := demystifyService.Create(cmd.Context(), filePath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyDocument):
			return fmt.Errorf("no text could be extracted from %s", filePath)
		case errors.Is(err, domain.ErrUnsupportedType):
			return fmt.Errorf("unsupported file type: %s", filePath)
		default:
			return fmt.Errorf("analysis failed: %w", err)
		}
	}

	printReport(cmd, session)

	if analyzeQuestion != "" {
		answer, err := demystifyService.Ask(cmd.Context(), session.ID, analyzeQuestion)
		if err != nil {
			return askError(err, session.ID)
		}
		cmd.Printf("\nQ: %s\nA: %s\n", analyzeQuestion, answer)
	}

	return nil
}

func printReport(cmd *cobra.Command, session *domain.Session) {
	cmd.Printf("Document: %s\n", session.Document.Title)
	cmd.Printf("Session:  %s\n\n", session.ID)

	cmd.Println("Summary")
	cmd.Println("-------")
	cmd.Printf("%s\n\n", session.Report.Summary)

	if len(session.Report.KeyTerms) > 0 {
		cmd.Println("Key Terms")
		cmd.Println("---------")
		for _, term := range session.Report.KeyTerms {
			cmd.Printf("  %s\n", term.Term)
			cmd.Printf("    %s\n", term.Explanation)
			cmd.Printf("    Learn more: %s\n\n", term.ResourceLink)
		}
	}

	cmd.Printf("%s\n", session.Report.OverallAdvice)
	cmd.Printf("\nAsk follow-up questions with: karaar ask %s \"your question\"\n", session.ID)
}
