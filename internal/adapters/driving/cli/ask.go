package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [session-id] [question]",
	Short: "Ask a question about an analyzed document",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if demystifyService == nil {
		return errors.New("demystify service not configured")
	}

	sessionID, question := args[0], args[1]

	answer, err := demystifyService.Ask(cmd.Context(), sessionID, question)
	if err != nil {
		return askError(err, sessionID)
	}

	cmd.Printf("%s\n", answer)
	return nil
}

func askError(err error, sessionID string) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return fmt.Errorf("no session with ID %s; run 'karaar sessions' to list them", sessionID)
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationUnavailable),
		errors.Is(err, domain.ErrIndexUnavailable):
		return fmt.Errorf("question answering is unavailable: %w", err)
	default:
		return fmt.Errorf("question failed: %w", err)
	}
}
