package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karaar-labs/karaar/internal/core/domain"
)

func TestSessionsCmd_Use(t *testing.T) {
	assert.Equal(t, "sessions", sessionsCmd.Use)
}

func TestSessionsCmd_HasDeleteSubcommand(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range sessionsCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "delete")
}

func TestSessionsCmd_Empty(t *testing.T) {
	cleanup := setupTestService(&stubDemystify{})
	defer cleanup()

	out, err := executeCommand("sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions")
}

func TestSessionsCmd_ListsSessions(t *testing.T) {
	cleanup := setupTestService(&stubDemystify{sessions: []domain.Session{*stubSession()}})
	defer cleanup()

	out, err := executeCommand("sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "contract.txt")
	assert.Contains(t, out, "Total: 1 sessions")
}

func TestSessionsDeleteCmd_Success(t *testing.T) {
	cleanup := setupTestService(&stubDemystify{})
	defer cleanup()

	out, err := executeCommand("sessions", "delete", "sess-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Session sess-1 deleted")
}

func TestSessionsDeleteCmd_NotFound(t *testing.T) {
	cleanup := setupTestService(&stubDemystify{deleteErr: domain.ErrSessionNotFound})
	defer cleanup()

	_, err := executeCommand("sessions", "delete", "gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session with ID gone")
}
