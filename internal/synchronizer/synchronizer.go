// Package synchronizer pulls files from a remote SFTP directory into a
// local mirror directory, borrowing sessions from a session pool for the
// duration of each pass.
package synchronizer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/joe/fetch-files/pkg/filesystem"
	"github.com/joe/fetch-files/pkg/sftppool"
)

// WritingSuffix marks files that are still being downloaded. A file is
// written under its name plus this suffix and renamed into place once
// complete, so consumers of the local directory never see partial content.
const WritingSuffix = ".writing"

// SessionPool is the slice of the pool the synchronizer needs: borrow a
// session, give it back. Satisfied by *sftppool.Pool.
type SessionPool interface {
	Acquire() (sftppool.Session, error)
	Release(sftppool.Session)
}

// Config holds the synchronizer settings.
type Config struct {
	RemoteDir    string // remote directory to mirror
	LocalDir     string // local mirror directory
	Pattern      string // optional filename glob; empty fetches everything
	DeleteRemote bool   // remove remote files once mirrored locally
}

// Synchronizer copies remote files into the local directory. Each Sync
// call is a single remote round-trip: list, fetch what is missing locally,
// optionally delete the remote copies.
type Synchronizer struct {
	pool         SessionPool
	localFS      filesystem.FileSystem
	remoteDir    string
	localDir     string
	filter       FileFilter
	deleteRemote bool
}

// New creates a synchronizer. The filename filter is wired in here, at
// construction time; it is not mutable afterwards.
func New(pool SessionPool, localFS filesystem.FileSystem, cfg Config) *Synchronizer {
	return &Synchronizer{
		pool:         pool,
		localFS:      localFS,
		remoteDir:    cfg.RemoteDir,
		localDir:     cfg.LocalDir,
		filter:       NewGlobFilter(cfg.Pattern),
		deleteRemote: cfg.DeleteRemote,
	}
}

// Sync performs one remote-to-local pass. Listing and session-acquisition
// failures abort the pass; a failure on an individual file is logged and
// the pass moves on to the next file.
func (s *Synchronizer) Sync() error {
	session, err := s.pool.Acquire()
	if err != nil {
		return fmt.Errorf("failed to acquire SFTP session: %w", err)
	}
	defer s.pool.Release(session)

	entries, err := session.ReadDir(s.remoteDir)
	if err != nil {
		return fmt.Errorf("failed to list remote directory %s: %w", s.remoteDir, err)
	}

	wanted := lo.Filter(entries, func(entry os.FileInfo, _ int) bool {
		return !entry.IsDir() && s.filter.ShouldInclude(entry.Name())
	})

	for _, entry := range wanted {
		if err := s.fetch(session, entry); err != nil {
			slog.Warn("failed to fetch remote file", "file", entry.Name(), "error", err)
			continue
		}

		if s.deleteRemote {
			remotePath := path.Join(s.remoteDir, entry.Name())
			if err := session.Remove(remotePath); err != nil {
				slog.Warn("failed to delete remote file after sync", "file", entry.Name(), "error", err)
			}
		}
	}

	return nil
}

// fetch downloads one remote file unless it is already mirrored. The file
// is streamed to a temporary local name and renamed into place, and the
// remote modtime is preserved on the local copy.
func (s *Synchronizer) fetch(session sftppool.Session, entry os.FileInfo) error {
	localPath := filepath.Join(s.localDir, entry.Name())
	if _, err := s.localFS.Stat(localPath); err == nil {
		// Already mirrored
		return nil
	}

	remotePath := path.Join(s.remoteDir, entry.Name())
	reader, err := session.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	tempPath := localPath + WritingSuffix
	writer, err := s.localFS.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", tempPath, err)
	}

	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		// Drop the partial download so a later pass retries from scratch
		_ = s.localFS.Remove(tempPath)

		return fmt.Errorf("failed to copy remote file %s: %w", remotePath, err)
	}

	if err := writer.Close(); err != nil {
		_ = s.localFS.Remove(tempPath)
		return fmt.Errorf("failed to close local file %s: %w", tempPath, err)
	}

	if err := s.localFS.Rename(tempPath, localPath); err != nil {
		_ = s.localFS.Remove(tempPath)
		return fmt.Errorf("failed to move %s into place: %w", tempPath, err)
	}

	// Best effort; a modtime mismatch is not worth failing the fetch
	if err := s.localFS.Chtimes(localPath, entry.ModTime(), entry.ModTime()); err != nil {
		slog.Warn("failed to preserve remote modtime", "file", entry.Name(), "error", err)
	}

	return nil
}
