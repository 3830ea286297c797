package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/aicode/pkg/domain"
)

// MaxAttachedFileSize caps how much of an attached file is sent per message.
const MaxAttachedFileSize = 1 << 20

// EditorState is the ContextProvider of a chat session. A terminal user
// attaches a file whose content is read at every submission; a panel host
// sends its own snapshot with each message instead.
type EditorState struct {
	mu       sync.Mutex
	path     string
	snapshot *domain.EditorContext
}

// NewEditorState returns a state with no file attached.
func NewEditorState() *EditorState {
	return &EditorState{}
}

// Attach makes path the file sent with each message. An empty path detaches.
func (s *EditorState) Attach(path string) error {
	if path == "" {
		s.mu.Lock()
		s.path = ""
		s.mu.Unlock()
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot attach %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot attach %s: not a regular file", path)
	}
	s.mu.Lock()
	s.path = abs
	s.mu.Unlock()
	return nil
}

// File returns the attached file, empty when none is.
func (s *EditorState) File() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Use sends ec in place of the attached file until Release.
func (s *EditorState) Use(ec domain.EditorContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &ec
}

// Release drops the snapshot set by Use.
func (s *EditorState) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

// EditorContext implements ports.ContextProvider. A file that can no longer
// be read is sent with its path only.
func (s *EditorState) EditorContext(_ context.Context) domain.EditorContext {
	s.mu.Lock()
	snapshot, path := s.snapshot, s.path
	s.mu.Unlock()

	if snapshot != nil {
		return *snapshot
	}
	if path == "" {
		return domain.EditorContext{}
	}
	ec := domain.EditorContext{FilePath: path}
	f, err := os.Open(path)
	if err != nil {
		return ec
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxAttachedFileSize))
	if err != nil {
		return ec
	}
	ec.FileContent = string(data)
	return ec
}
