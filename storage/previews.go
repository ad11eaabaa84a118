package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"tempchat/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ model.PreviewStore = (*PreviewStore)(nil)

// PreviewStore keeps session-scoped copies of attached images. Each handle
// refers to one file in a per-process session directory and is owned by
// exactly one holder until it is released.
//
// Layout: <base>/session-<pid>-<short-id>/<handle-id><ext>
type PreviewStore struct {
	dir    string
	logger *zap.Logger

	mu   sync.Mutex
	live map[string]string // handle ID -> file path
}

// NewPreviewStore creates the session directory under baseDir (0700).
func NewPreviewStore(baseDir string, logger *zap.Logger) (*PreviewStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionDir := filepath.Join(baseDir, fmt.Sprintf("session-%d-%s", os.Getpid(), uuid.New().String()[:8]))
	if err := os.MkdirAll(sessionDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	return &PreviewStore{
		dir:    sessionDir,
		logger: logger,
		live:   make(map[string]string),
	}, nil
}

func (s *PreviewStore) Dir() string {
	return s.dir
}

// Create writes the attachment bytes to a new preview file and returns its handle.
func (s *PreviewStore) Create(att *model.Attachment) (model.PreviewHandle, error) {
	if att == nil {
		return model.PreviewHandle{}, fmt.Errorf("no attachment to preview")
	}

	id := uuid.New().String()
	path := filepath.Join(s.dir, id+strings.ToLower(filepath.Ext(att.Name)))

	// Write preview file (0600 - user-only access)
	if err := os.WriteFile(path, att.Data, 0600); err != nil {
		return model.PreviewHandle{}, fmt.Errorf("failed to write preview: %w", err)
	}

	s.mu.Lock()
	s.live[id] = path
	s.mu.Unlock()

	s.logger.Debug("preview created",
		zap.String("handle", id),
		zap.String("name", att.Name),
		zap.Int64("size", att.Size),
	)

	return model.PreviewHandle{ID: id, Path: path}, nil
}

// Release removes the preview file. Releasing a zero or already released
// handle is a no-op.
func (s *PreviewStore) Release(h model.PreviewHandle) error {
	if h.IsZero() {
		return nil
	}

	s.mu.Lock()
	path, ok := s.live[h.ID]
	delete(s.live, h.ID)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	// Ignore error if file doesn't exist
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release preview: %w", err)
	}

	s.logger.Debug("preview released", zap.String("handle", h.ID))
	return nil
}

// Has reports whether h is a live handle of this store.
func (s *PreviewStore) Has(h model.PreviewHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[h.ID]
	return ok
}

// Live returns the number of handles not yet released.
func (s *PreviewStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases every remaining handle and removes the session directory.
func (s *PreviewStore) Close() error {
	s.mu.Lock()
	released := len(s.live)
	s.live = make(map[string]string)
	s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove preview directory: %w", err)
	}

	s.logger.Debug("preview store closed", zap.Int("released", released))
	return nil
}

// SweepStale removes session directories under baseDir that were last
// modified more than maxAge ago. They are left behind by processes that did
// not exit cleanly. Directories whose owning process is still running are
// kept regardless of age. Returns the number of directories removed.
func SweepStale(baseDir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(baseDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read preview directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "session-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if pid, ok := sessionPID(entry.Name()); ok && processAlive(pid) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(baseDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove stale previews: %w", err)
		}
		removed++
	}

	return removed, nil
}

// sessionPID extracts the owner PID from a "session-<pid>-<id>" name.
func sessionPID(name string) (int, bool) {
	rest := strings.TrimPrefix(name, "session-")
	pidPart, _, found := strings.Cut(rest, "-")
	if !found {
		return 0, false
	}
	pid, err := strconv.Atoi(pidPart)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive reports whether pid names a running process. Signal 0 only
// checks for existence; EPERM means the process exists under another user.
// Where signalling is unsupported the process is treated as gone and age
// alone decides.
func processAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, os.ErrPermission)
}
