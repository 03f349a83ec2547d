package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/freight/internal/app"
	"github.com/pscheid92/freight/internal/plugin"
)

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"a"}}, nil))
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := renderTable([]string{"ID", "App"}, [][]string{{"7"}}, []columnAlignment{alignRight})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	header := strings.ToUpper(lines[1])
	assert.Contains(t, header, "ID")
	assert.Contains(t, header, "APP")
	assert.Contains(t, lines[3], "7")
}

func TestRenderFailures(t *testing.T) {
	out := renderFailures([]app.AuditFailure{
		{AppID: 42, Name: "web", Err: &plugin.ValidationError{Name: "invalid_check", Message: "Invalid check: nope"}},
	})

	assert.Contains(t, out, "42")
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "invalid_check")
	assert.Contains(t, out, "Invalid check: nope")
}

func TestSanitizeURL(t *testing.T) {
	assert.Equal(t, "postgres://user:xxxxx@db:5432/freight", sanitizeURL("postgres://user:secret@db:5432/freight"))
	assert.Equal(t, "invalid URL", sanitizeURL("postgres://user:secret@db:port/x\x7f"))
}

func TestRootCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cmd := newRootCommand()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL required")
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})

	require.Error(t, cmd.Execute())
}
