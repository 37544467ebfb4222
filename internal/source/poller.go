package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joe/fetch-files/internal/synchronizer"
	"github.com/joe/fetch-files/pkg/filesystem"
)

// Message is one file delivered from the local mirror directory.
type Message struct {
	// Path is the file's location in the local directory.
	Path string
	// Name is the bare filename.
	Name string
}

// DirectoryPoller walks the local directory in lexical order and delivers
// each regular file exactly once. In-progress downloads (the synchronizer's
// .writing files) are never delivered.
type DirectoryPoller struct {
	localFS filesystem.FileSystem
	dir     string

	mu   sync.Mutex
	seen map[string]bool
}

// NewDirectoryPoller creates a poller over the given local directory.
func NewDirectoryPoller(localFS filesystem.FileSystem, dir string) *DirectoryPoller {
	return &DirectoryPoller{
		localFS: localFS,
		dir:     dir,
		seen:    make(map[string]bool),
	}
}

// Poll returns the next undelivered file, or nil when there is none.
func (p *DirectoryPoller) Poll() (*Message, error) {
	entries, err := p.localFS.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read local directory %s: %w", p.dir, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || p.seen[name] {
			continue
		}
		if strings.HasSuffix(name, synchronizer.WritingSuffix) {
			continue
		}

		p.seen[name] = true

		return &Message{
			Path: filepath.Join(p.dir, name),
			Name: name,
		}, nil
	}

	return nil, nil //nolint:nilnil // A nil message with no error means "nothing available", per the Poller contract
}
