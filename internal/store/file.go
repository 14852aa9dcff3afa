package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// FileStore keeps every record in one JSON document. Mutations rewrite the
// whole file through a temp file and rename, so readers never see a partial
// document. The mutex serializes writers within this process only.
type FileStore struct {
	path   string
	params storeParams
	mu     sync.Mutex
}

// NewFileStore opens path, creating it (and its directory) holding [] when missing.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	s := &FileStore{path: path, params: applyOptions(opts)}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat jobs file: %w", err)
	}
	return s, nil
}

// Ping checks the document is still readable.
func (s *FileStore) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

func (s *FileStore) ListJobs(_ context.Context) ([]*models.JobRecord, error) {
	s.mu.Lock()
	jobs, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].DateAdded.After(jobs[j].DateAdded)
	})
	return jobs, nil
}

func (s *FileStore) GetJob(_ context.Context, id string) (*models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.read()
	if err != nil {
		return nil, err
	}
	if i := indexOf(jobs, id); i >= 0 {
		return jobs[i], nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreateJob(_ context.Context, job *models.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.read()
	if err != nil {
		return err
	}
	if indexOf(jobs, job.ID) >= 0 {
		return ErrDuplicateKey
	}
	return s.write(append(jobs, job))
}

func (s *FileStore) UpdateJob(_ context.Context, id string, u models.JobUpdate) (*models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.read()
	if err != nil {
		return nil, err
	}
	i := indexOf(jobs, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	jobs[i].Apply(u, s.params.now().UTC())
	if err := s.write(jobs); err != nil {
		return nil, err
	}
	return jobs[i], nil
}

func (s *FileStore) DeleteJob(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, err := s.read()
	if err != nil {
		return err
	}
	i := indexOf(jobs, id)
	if i < 0 {
		return ErrNotFound
	}
	return s.write(append(jobs[:i], jobs[i+1:]...))
}

func (s *FileStore) read() ([]*models.JobRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	var jobs []*models.JobRecord
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs file %s: %w", s.path, err)
	}
	return jobs, nil
}

func (s *FileStore) write(jobs []*models.JobRecord) error {
	if jobs == nil {
		jobs = []*models.JobRecord{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".jobs-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace jobs file: %w", err)
	}
	return nil
}

func indexOf(jobs []*models.JobRecord, id string) int {
	for i, j := range jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

var _ Store = (*FileStore)(nil)
