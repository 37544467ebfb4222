//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package source_test

import (
	"errors"
	"testing"
	"time"

	"github.com/joe/fetch-files/internal/source"
	"github.com/joe/fetch-files/internal/synchronizer"
	"github.com/joe/fetch-files/pkg/filesystem"
)

// scriptedPoller returns canned messages in order, nil once exhausted.
type scriptedPoller struct {
	messages []*source.Message
	err      error
	polls    int
}

func (p *scriptedPoller) Poll() (*source.Message, error) {
	p.polls++
	if p.err != nil {
		return nil, p.err
	}
	if len(p.messages) == 0 {
		return nil, nil //nolint:nilnil // Poller contract: nil message means nothing available
	}

	next := p.messages[0]
	p.messages = p.messages[1:]

	return next, nil
}

// recordingSyncer counts passes and can populate a poller on demand.
type recordingSyncer struct {
	calls  int
	err    error
	onSync func()
}

func (s *recordingSyncer) Sync() error {
	s.calls++
	if s.onSync != nil {
		s.onSync()
	}

	return s.err
}

func newSourceFS(dir string) *filesystem.MockFileSystem {
	localFS := filesystem.NewMockFileSystem()
	localFS.AddDir(dir, time.Now())

	return localFS
}

func TestSynchronizingSource_Receive_LocalHit_SkipsSync(t *testing.T) {
	t.Parallel()

	poller := &scriptedPoller{messages: []*source.Message{{Path: "local/a.txt", Name: "a.txt"}}}
	syncer := &recordingSyncer{}
	src, err := source.New(newSourceFS("local"), poller, syncer, source.Config{LocalDir: "local"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	message, err := src.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if message == nil || message.Name != "a.txt" {
		t.Fatalf("Receive() = %v, want a.txt", message)
	}
	if syncer.calls != 0 {
		t.Errorf("syncer ran %d times on a local hit, want 0", syncer.calls)
	}
	if poller.polls != 1 {
		t.Errorf("poller polled %d times, want 1", poller.polls)
	}
}

func TestSynchronizingSource_Receive_EmptyLocal_SyncsOnceAndRepolls(t *testing.T) {
	t.Parallel()

	poller := &scriptedPoller{}
	syncer := &recordingSyncer{}
	// The sync pass "lands" a file that the second poll picks up.
	syncer.onSync = func() {
		poller.messages = append(poller.messages, &source.Message{Path: "local/b.txt", Name: "b.txt"})
	}

	src, err := source.New(newSourceFS("local"), poller, syncer, source.Config{LocalDir: "local"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	message, err := src.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if message == nil || message.Name != "b.txt" {
		t.Fatalf("Receive() = %v, want b.txt", message)
	}
	if syncer.calls != 1 {
		t.Errorf("syncer ran %d times, want exactly 1", syncer.calls)
	}
	if poller.polls != 2 {
		t.Errorf("poller polled %d times, want 2", poller.polls)
	}
}

func TestSynchronizingSource_Receive_NothingAnywhere_ReturnsNil(t *testing.T) {
	t.Parallel()

	poller := &scriptedPoller{}
	syncer := &recordingSyncer{}
	src, err := source.New(newSourceFS("local"), poller, syncer, source.Config{LocalDir: "local"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	message, err := src.Receive()
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if message != nil {
		t.Errorf("Receive() = %v, want nil when remote is empty too", message)
	}
	if syncer.calls != 1 {
		t.Errorf("syncer ran %d times, want exactly 1 (single round-trip, not a loop)", syncer.calls)
	}
}

func TestSynchronizingSource_Receive_SyncFailure_Surfaces(t *testing.T) {
	t.Parallel()

	syncErr := errors.New("listing failed")
	poller := &scriptedPoller{}
	syncer := &recordingSyncer{err: syncErr}
	src, err := source.New(newSourceFS("local"), poller, syncer, source.Config{LocalDir: "local"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := src.Receive(); !errors.Is(err, syncErr) {
		t.Fatalf("Receive() error = %v, want the sync error", err)
	}
}

func TestSynchronizingSource_New_MissingDir_AutoCreate(t *testing.T) {
	t.Parallel()

	localFS := filesystem.NewMockFileSystem()
	_, err := source.New(localFS, &scriptedPoller{}, &recordingSyncer{},
		source.Config{LocalDir: "mirror", AutoCreate: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := localFS.Stat("mirror")
	if err != nil || !info.IsDir() {
		t.Errorf("local directory was not auto-created: info=%v err=%v", info, err)
	}
}

func TestSynchronizingSource_New_MissingDir_NoAutoCreate_Fails(t *testing.T) {
	t.Parallel()

	localFS := filesystem.NewMockFileSystem()
	_, err := source.New(localFS, &scriptedPoller{}, &recordingSyncer{},
		source.Config{LocalDir: "mirror", AutoCreate: false})
	if err == nil {
		t.Fatal("New() succeeded with a missing local directory and no auto-create")
	}
}

func TestSynchronizingSource_New_LocalPathIsFile_Fails(t *testing.T) {
	t.Parallel()

	localFS := filesystem.NewMockFileSystem()
	localFS.AddFile("mirror", []byte("not a dir"), time.Now())

	_, err := source.New(localFS, &scriptedPoller{}, &recordingSyncer{},
		source.Config{LocalDir: "mirror", AutoCreate: true})
	if err == nil {
		t.Fatal("New() succeeded with a file where the local directory should be")
	}
}

func TestDirectoryPoller_DeliversEachFileOnceInOrder(t *testing.T) {
	t.Parallel()

	localFS := newSourceFS("local")
	localFS.AddFile("local/b.txt", []byte("b"), time.Now())
	localFS.AddFile("local/a.txt", []byte("a"), time.Now())

	poller := source.NewDirectoryPoller(localFS, "local")

	first, err := poller.Poll()
	if err != nil || first == nil {
		t.Fatalf("first Poll() = %v, %v", first, err)
	}
	if first.Name != "a.txt" {
		t.Errorf("first Poll() delivered %q, want a.txt (lexical order)", first.Name)
	}

	second, err := poller.Poll()
	if err != nil || second == nil {
		t.Fatalf("second Poll() = %v, %v", second, err)
	}
	if second.Name != "b.txt" {
		t.Errorf("second Poll() delivered %q, want b.txt", second.Name)
	}

	third, err := poller.Poll()
	if err != nil {
		t.Fatalf("third Poll() error = %v", err)
	}
	if third != nil {
		t.Errorf("third Poll() = %v, want nil once everything is delivered", third)
	}
}

func TestDirectoryPoller_SkipsInProgressDownloadsAndSubdirs(t *testing.T) {
	t.Parallel()

	localFS := newSourceFS("local")
	localFS.AddFile("local/done.txt", []byte("x"), time.Now())
	localFS.AddFile("local/partial.txt"+synchronizer.WritingSuffix, []byte("x"), time.Now())
	localFS.AddDir("local/nested", time.Now())

	poller := source.NewDirectoryPoller(localFS, "local")

	message, err := poller.Poll()
	if err != nil || message == nil {
		t.Fatalf("Poll() = %v, %v", message, err)
	}
	if message.Name != "done.txt" {
		t.Errorf("Poll() delivered %q, want done.txt", message.Name)
	}

	if message, _ := poller.Poll(); message != nil {
		t.Errorf("Poll() delivered %q, want nil (partials and subdirs skipped)", message.Name)
	}
}

func TestDirectoryPoller_PicksUpFilesArrivingLater(t *testing.T) {
	t.Parallel()

	localFS := newSourceFS("local")
	poller := source.NewDirectoryPoller(localFS, "local")

	if message, err := poller.Poll(); err != nil || message != nil {
		t.Fatalf("Poll() on empty dir = %v, %v", message, err)
	}

	localFS.AddFile("local/late.txt", []byte("x"), time.Now())

	message, err := poller.Poll()
	if err != nil || message == nil {
		t.Fatalf("Poll() after arrival = %v, %v", message, err)
	}
	if message.Name != "late.txt" {
		t.Errorf("Poll() delivered %q, want late.txt", message.Name)
	}
}
