// Package sftppool manages a bounded cache of reusable SFTP sessions.
//
// A Session is an authenticated handle to a remote SFTP endpoint. Sessions
// are produced by a Factory and cached by a Pool so that callers can borrow
// a ready-to-use session without paying connection-setup cost on every
// request. Only idle sessions are bounded; the pool never limits how many
// sessions are checked out at once.
package sftppool

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Transport is one closable layer of a session. Each session has two:
// the SFTP subsystem channel and the SSH connection underneath it.
type Transport interface {
	// Connected reports whether this layer is still open.
	Connected() bool

	// Close tears this layer down. Safe to call more than once.
	Close() error
}

// Session is a live, authenticated handle to a remote SFTP endpoint.
// The channel and connection are independently queryable and closable so
// that teardown can proceed even when one layer is already gone.
//
// A session is owned by exactly one party at a time: the pool while idle,
// or the caller that acquired it. Callers perform remote I/O through the
// session while it is checked out, then hand it back with Pool.Release.
type Session interface {
	// Channel returns the SFTP subsystem channel.
	Channel() Transport

	// Conn returns the underlying SSH connection.
	Conn() Transport

	// ReadDir lists the remote directory at path.
	ReadDir(path string) ([]os.FileInfo, error)

	// Open opens the remote file at path for reading.
	Open(path string) (io.ReadCloser, error)

	// Remove deletes the remote file at path.
	Remove(path string) error
}

// SFTPSession implements Session over a pkg/sftp client and the SSH
// connection it rides on. Instances are created by DialFactory.
type SFTPSession struct {
	sftpClient *sftp.Client
	channel    *transportState
	conn       *transportState
}

// transportState wraps a closer with connected-state tracking.
// Neither *sftp.Client nor *ssh.Client exposes liveness directly, so we
// track it ourselves: open at creation, closed after the first Close.
type transportState struct {
	closer io.Closer

	mu     sync.Mutex
	closed bool
}

func newTransportState(closer io.Closer) *transportState {
	return &transportState{closer: closer}
}

// Connected reports whether Close has been called yet.
func (t *transportState) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return !t.closed
}

// Close closes the underlying transport. Subsequent calls are no-ops.
func (t *transportState) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return t.closer.Close() //nolint:wrapcheck // External package error, wrapped by caller where context matters
}

// NewSFTPSession wraps an established SFTP client and its SSH connection.
// The session takes ownership of both; closing the session's transports
// closes them.
func NewSFTPSession(sftpClient *sftp.Client, sshClient *ssh.Client) *SFTPSession {
	return &SFTPSession{
		sftpClient: sftpClient,
		channel:    newTransportState(sftpClient),
		conn:       newTransportState(sshClient),
	}
}

// Channel returns the SFTP subsystem channel.
func (s *SFTPSession) Channel() Transport {
	return s.channel
}

// Conn returns the underlying SSH connection.
func (s *SFTPSession) Conn() Transport {
	return s.conn
}

// ReadDir lists the remote directory at path.
func (s *SFTPSession) ReadDir(path string) ([]os.FileInfo, error) {
	return s.sftpClient.ReadDir(path) //nolint:wrapcheck // External package error, wrapped by caller with the path it cares about
}

// Open opens the remote file at path for reading.
func (s *SFTPSession) Open(path string) (io.ReadCloser, error) {
	return s.sftpClient.Open(path) //nolint:wrapcheck // External package error, wrapped by caller with the path it cares about
}

// Remove deletes the remote file at path.
func (s *SFTPSession) Remove(path string) error {
	return s.sftpClient.Remove(path) //nolint:wrapcheck // External package error, wrapped by caller with the path it cares about
}
