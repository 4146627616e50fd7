package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

// stubDemystify implements driving.DemystifyService for command tests.
type stubDemystify struct {
	session   *domain.Session
	sessions  []domain.Session
	answer    string
	createErr error
	getErr    error
	askErr    error
	deleteErr error
	listErr   error
}

func (s *stubDemystify) Create(_ context.Context, _ string) (*domain.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.session, nil
}

func (s *stubDemystify) CreateUpload(_ context.Context, _ string) (*domain.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.session, nil
}

func (s *stubDemystify) Get(_ context.Context, _ string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.session, nil
}

func (s *stubDemystify) Ask(_ context.Context, _, _ string) (string, error) {
	if s.askErr != nil {
		return "", s.askErr
	}
	return s.answer, nil
}

func (s *stubDemystify) Delete(_ context.Context, _ string) error {
	return s.deleteErr
}

func (s *stubDemystify) List(_ context.Context) ([]domain.Session, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.sessions, nil
}

// setupTestService wires a stub service and returns a cleanup func.
func setupTestService(stub *stubDemystify) func() {
	previous := demystifyService
	demystifyService = stub
	return func() {
		demystifyService = previous
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func stubSession() *domain.Session {
	return &domain.Session{
		ID: "sess-1",
		Document: domain.Document{
			ID:    "doc-1",
			Title: "contract.txt",
		},
		Report: domain.Report{
			Summary: "A simple summary.",
			KeyTerms: []domain.ExplainedTerm{
				{Term: "Indemnity", Explanation: "You cover losses.", ResourceLink: "https://example.org"},
			},
			OverallAdvice: domain.OverallAdvice,
		},
		CreatedAt: time.Now(),
	}
}
