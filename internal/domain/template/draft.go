package template

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrDraftNotFound is returned when no draft exists for a template.
var ErrDraftNotFound = errors.New("template draft not found")

// DraftStore keeps in-progress editors between requests.
type DraftStore interface {
	Load(ctx context.Context, templateID string) (*Editor, error)
	Save(ctx context.Context, templateID string, e *Editor) error
	// Start stores e unless a draft already exists and returns the draft now stored.
	Start(ctx context.Context, templateID string, e *Editor) (*Editor, error)
	// Update applies fn to the stored draft and saves the result atomically. Errors
	// returned by fn are passed through and leave the draft unchanged. fn may run
	// more than once when a store retries on a conflicting write.
	Update(ctx context.Context, templateID string, fn func(*Editor) error) (*Editor, error)
	Delete(ctx context.Context, templateID string) error
}

type memoryDraft struct {
	data    []byte
	expires time.Time
}

// MemoryDraftStore is a process-local DraftStore. Drafts are stored encoded so
// callers never share editor state.
type MemoryDraftStore struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	drafts map[string]memoryDraft
}

// NewMemoryDraftStore creates a MemoryDraftStore. A non-positive ttl keeps drafts forever.
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{ttl: ttl, now: time.Now, drafts: make(map[string]memoryDraft)}
}

func (s *MemoryDraftStore) Load(_ context.Context, templateID string) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(templateID)
}

func (s *MemoryDraftStore) Save(_ context.Context, templateID string, e *Editor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(templateID, e)
}

func (s *MemoryDraftStore) Start(_ context.Context, templateID string, e *Editor) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.loadLocked(templateID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrDraftNotFound) {
		return nil, err
	}
	if err := s.saveLocked(templateID, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *MemoryDraftStore) Update(_ context.Context, templateID string, fn func(*Editor) error) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.loadLocked(templateID)
	if err != nil {
		return nil, err
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	if err := s.saveLocked(templateID, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, templateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, templateID)
	return nil
}

// Callers hold s.mu.
func (s *MemoryDraftStore) loadLocked(templateID string) (*Editor, error) {
	draft, ok := s.drafts[templateID]
	if ok && s.ttl > 0 && s.now().After(draft.expires) {
		delete(s.drafts, templateID)
		ok = false
	}
	if !ok {
		return nil, ErrDraftNotFound
	}
	var e Editor
	if err := json.Unmarshal(draft.data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *MemoryDraftStore) saveLocked(templateID string, e *Editor) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	s.drafts[templateID] = memoryDraft{data: data, expires: s.now().Add(s.ttl)}
	return nil
}

var _ DraftStore = (*MemoryDraftStore)(nil)
