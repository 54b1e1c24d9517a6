package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLinesRecorder(t *testing.T) {
	var buf bytes.Buffer
	session := NewJSONLinesRecorder(&buf).NewSession()

	require.NoError(t, session.CommandRun("echo hi > f", []string{"echo", "hi"}))
	require.NoError(t, session.ParseError("echo '", assert.AnError))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NotNil(t, first.CommandRun)
	assert.Equal(t, "echo hi > f", first.CommandRun.Line)
	assert.Equal(t, []string{"echo", "hi"}, first.CommandRun.Args)
	assert.NotEmpty(t, first.SessionID)
	assert.NotZero(t, first.TimestampMicros)

	var second Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NotNil(t, second.ParseError)
	assert.Equal(t, "echo '", second.ParseError.Line)
	assert.NotEmpty(t, second.ParseError.Error)
	// Both events carry the same session ID.
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestSessionlessOmitsID(t *testing.T) {
	var buf bytes.Buffer
	session := NewJSONLinesRecorder(&buf).Sessionless()

	require.NoError(t, session.SessionClosed(2))

	var event Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Empty(t, event.SessionID)
	require.NotNil(t, event.SessionClosed)
	assert.Equal(t, 2, event.SessionClosed.ExitStatus)
}

func TestNopLogger(t *testing.T) {
	session := NewNopLogger().NewSession()
	assert.NoError(t, session.Login("user", "127.0.0.1:2022", ""))
}
