package savestore

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.Mutex
	now  func() time.Time
	recs map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, recs: map[string]Record{}}
}

func (m *MemoryStore) Save(ctx context.Context, name string, blob []byte) (time.Time, error) {
	key, err := Key(name)
	if err != nil {
		return time.Time{}, err
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	at := m.now().UTC()
	m.recs[key] = Record{Name: nameFromKey(key), Blob: append([]byte(nil), blob...), SavedAt: at}
	return at, nil
}

func (m *MemoryStore) Load(ctx context.Context, name string) (Record, error) {
	key, err := Key(name)
	if err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[key]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Blob = append([]byte(nil), rec.Blob...)
	return rec, nil
}

func (m *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	key, err := Key(name)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recs[key]
	return ok, nil
}

// Delete of a missing slot is not an error.
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	key, err := Key(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, key)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Info, 0, len(m.recs))
	for _, r := range m.recs {
		out = append(out, Info{Name: r.Name, Size: len(r.Blob), SavedAt: r.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
