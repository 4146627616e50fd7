package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List analysis sessions",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a session and its uploaded file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if demystifyService == nil {
		return errors.New("demystify service not configured")
	}

	sessions, err := demystifyService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions. Analyze a document with: karaar analyze <file>")
		return nil
	}

	for i := range sessions {
		cmd.Printf("  %s\n", sessions[i].ID)
		cmd.Printf("    Document: %s\n", sessions[i].Document.Title)
		cmd.Printf("    Created:  %s\n", sessions[i].CreatedAt.Format("2006-01-02 15:04"))
		cmd.Println()
	}

	cmd.Printf("Total: %d sessions\n", len(sessions))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if demystifyService == nil {
		return errors.New("demystify service not configured")
	}

	sessionID := args[0]
	if err := demystifyService.Delete(cmd.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("no session with ID %s", sessionID)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	cmd.Printf("Session %s deleted\n", sessionID)
	return nil
}
