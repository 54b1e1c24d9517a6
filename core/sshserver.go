package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/gliderlabs/ssh"
	"github.com/juju/ratelimit"
	gossh "golang.org/x/crypto/ssh"

	"github.com/gish-shell/gish/core/config"
	"github.com/gish-shell/gish/core/logger"
)

type sshContextKey struct {
	name string
}

// contextAuthFingerprint holds the fingerprint of the public key the client
// offered, recorded for the session log.
var contextAuthFingerprint = sshContextKey{"auth-fingerprint"}

// sessionOutputRate bounds how fast a session may write to the client, so a
// runaway command can't wedge a slow connection.
const sessionOutputRate = 1 << 20 // bytes per second

// Server exposes the same shell over SSH.
type Server struct {
	configuration *config.Configuration
	logger        *logger.Logger
	sshServer     *ssh.Server
}

func NewServer(configuration *config.Configuration, log *logger.Logger) (*Server, error) {
	if configuration.SSH.Password == "" {
		return nil, errors.New("refusing to serve without ssh.password set")
	}

	server := &Server{
		configuration: configuration,
		logger:        log,
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", configuration.SSH.Port),
		Handler: func(s ssh.Session) {
			server.handleConnection(s)
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			ctx.SetValue(contextAuthFingerprint, gossh.FingerprintSHA256(key))
			return false
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return 1 == subtle.ConstantTimeCompare(
				[]byte(password), []byte(configuration.SSH.Password))
		},
	}

	if keyPath := configuration.SSH.HostKeyPath; keyPath != "" {
		server.sshServer.SetOption(ssh.HostKeyFile(keyPath))
	}

	return server, nil
}

func (s *Server) handleConnection(sess ssh.Session) {
	sessionLogger := s.logger.NewSession()

	fingerprint, _ := sess.Context().Value(contextAuthFingerprint).(string)
	sessionLogger.Login(sess.User(), sess.RemoteAddr().String(), fingerprint)

	pty, winch, isPty := sess.Pty()
	windowWidth := pty.Window.Width
	go func() {
		for window := range winch {
			windowWidth = window.Width
		}
	}()

	bucket := ratelimit.NewBucketWithRate(sessionOutputRate, sessionOutputRate)
	stdout := ratelimit.Writer(sess, bucket)
	stderr := ratelimit.Writer(sess.Stderr(), bucket)

	sh, err := NewShell(s.configuration, sessionLogger, IOConfig{
		Stdin:      sess,
		Stdout:     stdout,
		Stderr:     stderr,
		IsTerminal: func() bool { return isPty },
		Width:      func() int { return windowWidth },
	})
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "gish: %v\n", err)
		sess.Exit(1)
		return
	}

	code, err := sh.Run()
	if err != nil {
		fmt.Fprintf(sess.Stderr(), "gish: %v\n", err)
	}
	sessionLogger.SessionClosed(code)
	sess.Exit(code)
}

// ListenAndServe blocks serving SSH connections.
func (s *Server) ListenAndServe() error {
	return s.sshServer.ListenAndServe()
}

// Shutdown stops the listener and waits for sessions to finish or the
// context to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
