// Package source delivers files arriving in a local mirror directory as
// messages, triggering a remote synchronization pass whenever the local
// directory runs dry.
package source

import (
	"fmt"
	"os"

	"github.com/joe/fetch-files/pkg/filesystem"
)

// localDirPerm is the mode used when auto-creating the local directory.
const localDirPerm = 0755

// Syncer runs one remote-to-local synchronization pass.
// Satisfied by *synchronizer.Synchronizer.
type Syncer interface {
	Sync() error
}

// Poller yields the next locally available file message, or nil when the
// local directory has nothing new to offer.
type Poller interface {
	Poll() (*Message, error)
}

// Config holds the message source settings.
type Config struct {
	LocalDir   string // local mirror directory
	AutoCreate bool   // create LocalDir if it does not exist
}

// SynchronizingSource serves file messages from the local directory,
// falling back to a single synchronizer pass when a poll comes up empty.
// There is no retry loop: one sync per empty poll, then one more poll,
// and whatever that yields (possibly nothing) is the answer.
type SynchronizingSource struct {
	poller Poller
	syncer Syncer
}

// New validates the local directory and wires the poller to the syncer.
// A missing directory is created when cfg.AutoCreate is set and is an
// error otherwise.
func New(localFS filesystem.FileSystem, poller Poller, syncer Syncer, cfg Config) (*SynchronizingSource, error) {
	info, err := localFS.Stat(cfg.LocalDir)
	switch {
	case err != nil && cfg.AutoCreate:
		if err := localFS.MkdirAll(cfg.LocalDir, localDirPerm); err != nil {
			return nil, fmt.Errorf("failed to create local directory %s: %w", cfg.LocalDir, err)
		}
	case err != nil:
		return nil, fmt.Errorf("local directory %s does not exist: %w", cfg.LocalDir, os.ErrNotExist)
	case !info.IsDir():
		return nil, fmt.Errorf("local path %s is not a directory", cfg.LocalDir) //nolint:err113 // Validation error with actual path
	}

	return &SynchronizingSource{
		poller: poller,
		syncer: syncer,
	}, nil
}

// Receive returns the next available file message. When the local
// directory is empty it runs one synchronization pass and polls again;
// a nil message with a nil error means nothing is available yet.
func (s *SynchronizingSource) Receive() (*Message, error) {
	message, err := s.poller.Poll()
	if err != nil {
		return nil, fmt.Errorf("failed to poll local directory: %w", err)
	}
	if message != nil {
		return message, nil
	}

	if err := s.syncer.Sync(); err != nil {
		return nil, fmt.Errorf("remote synchronization failed: %w", err)
	}

	message, err = s.poller.Poll()
	if err != nil {
		return nil, fmt.Errorf("failed to poll local directory: %w", err)
	}

	return message, nil
}
