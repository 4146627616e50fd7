package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karaar-labs/karaar/internal/adapters/driving/httpapi"
)

// serveAddr is the listen address for the HTTP API.
var serveAddr string

// serveUploadDir overrides where uploaded documents are stored.
var serveUploadDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Endpoints:
  POST   /demystify/upload       Upload a document, get report + session ID
  POST   /demystify/chat         Ask a question about an uploaded document
  GET    /demystify/sessions     List sessions
  GET    /demystify/session/:id  Get a session's report
  DELETE /demystify/session/:id  Delete a session`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8000", "Listen address")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "Directory for uploaded documents")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if demystifyService == nil {
		return errors.New("demystify service not configured")
	}

	server, err := httpapi.New(demystifyService, httpapi.Config{
		UploadDir: serveUploadDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	cmd.Printf("Listening on %s\n", serveAddr)
	return server.Run(serveAddr)
}
