// Package logger is a JSON-lines event log for shell sessions.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"
)

// Event is one log line. Exactly one of the payload fields is set.
type Event struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	CommandRun    *CommandRun    `json:"command_run,omitempty"`
	ParseError    *ParseError    `json:"parse_error,omitempty"`
	Login         *Login         `json:"login,omitempty"`
	SessionClosed *SessionClosed `json:"session_closed,omitempty"`
}

// CommandRun records one dispatched command line.
type CommandRun struct {
	Line string   `json:"line"`
	Args []string `json:"args"`
}

// ParseError records a line the tokenizer rejected.
type ParseError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

// Login records the start of an SSH session.
type Login struct {
	Username             string `json:"username"`
	RemoteAddr           string `json:"remote_addr"`
	PublicKeyFingerprint string `json:"public_key_fingerprint,omitempty"`
}

// SessionClosed records the end of a session and the shell's exit status.
type SessionClosed struct {
	ExitStatus int `json:"exit_status"`
}

// Recorder is a callback that stores events in an external datastore.
type Recorder func(e *Event) error

// Logger captures shell interaction events.
type Logger struct {
	Record Recorder
}

// NewJSONLinesRecorder creates a Logger that exports events in newline
// delimited JSON object format. Writes are serialized so concurrent SSH
// sessions can share one log file.
func NewJSONLinesRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(e *Event) error {
			entry, err := json.Marshal(e)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger discards every event.
func NewNopLogger() *Logger {
	return &Logger{Record: func(*Event) error { return nil }}
}

// NewSession creates a logger with an attached random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger with no session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (s *SessionLogger) record(e *Event) error {
	e.TimestampMicros = time.Now().UnixMicro()
	e.SessionID = s.sessionID
	return s.Record(e)
}

func (s *SessionLogger) CommandRun(line string, args []string) error {
	return s.record(&Event{CommandRun: &CommandRun{Line: line, Args: args}})
}

func (s *SessionLogger) ParseError(line string, err error) error {
	return s.record(&Event{ParseError: &ParseError{Line: line, Error: err.Error()}})
}

func (s *SessionLogger) Login(username, remoteAddr, fingerprint string) error {
	return s.record(&Event{Login: &Login{
		Username:             username,
		RemoteAddr:           remoteAddr,
		PublicKeyFingerprint: fingerprint,
	}})
}

func (s *SessionLogger) SessionClosed(exitStatus int) error {
	return s.record(&Event{SessionClosed: &SessionClosed{ExitStatus: exitStatus}})
}
