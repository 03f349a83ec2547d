package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_LengthAndUniqueness(t *testing.T) {
	ids := make(map[string]struct{}, 100)
	for range 100 {
		id := NewID()
		assert.Len(t, id, 8)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 100)
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "req-42.a_b", FromHeader("req-42.a_b"))

	for _, bad := range []string{"", "has space", "line\nbreak", strings.Repeat("x", 65)} {
		id := FromHeader(bad)
		assert.NotEqual(t, bad, id)
		assert.Len(t, id, 8)
	}
}

func TestID(t *testing.T) {
	id, ok := ID(WithID(context.Background(), "abc12345"))
	assert.True(t, ok)
	assert.Equal(t, "abc12345", id)

	_, ok = ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil))).With("component", "test")

	logger.InfoContext(WithID(context.Background(), "attr1234"), "with id")
	logger.InfoContext(context.Background(), "without id")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "correlation_id=attr1234")
	assert.Contains(t, lines[0], "component=test")
	assert.NotContains(t, lines[1], "correlation_id")
}
