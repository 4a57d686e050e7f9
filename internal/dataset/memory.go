package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory dataset store, used when no DATABASE_URL is set.
// Datasets are loaded from a directory of Solomon files or put directly.
type Memory struct {
	mu   sync.RWMutex
	sets map[string]Dataset
}

func NewMemory() *Memory {
	return &Memory{sets: map[string]Dataset{}}
}

// LoadDir parses every .txt file in dir as a Solomon dataset named after the
// file without its extension.
func (m *Memory) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(e.Name(), ".txt")
		d, perr := ParseSolomon(name, f)
		f.Close()
		if perr != nil {
			return fmt.Errorf("%s: %w", e.Name(), perr)
		}
		m.Put(d)
	}
	return nil
}

func (m *Memory) Put(d Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[d.Name] = d
}

func (m *Memory) GetDataset(ctx context.Context, name string) (Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.sets[name]
	if !ok {
		return Dataset{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) ListDatasets(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sets))
	for name := range m.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
