// Package redis provides Redis-backed adapters for the portal: template
// draft persistence and the job notification channel.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calcfunding/portal/internal/domain/template"
)

const (
	defaultDraftTTL = 24 * time.Hour
	// maxUpdateAttempts bounds optimistic retries when another writer touches the draft.
	maxUpdateAttempts = 10
)

// ErrDraftContended is returned when Update keeps losing to concurrent writers.
var ErrDraftContended = errors.New("template draft is being edited concurrently")

// DraftStore keeps template editor drafts in Redis. Every save refreshes the TTL.
type DraftStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ template.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a DraftStore. A non-positive ttl uses 24 hours.
func NewDraftStore(client redis.UniversalClient, ttl time.Duration) *DraftStore {
	return NewDraftStoreWithPrefix(client, "template_draft:", ttl)
}

// NewDraftStoreWithPrefix creates a DraftStore with a custom key prefix.
func NewDraftStoreWithPrefix(client redis.UniversalClient, prefix string, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &DraftStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *DraftStore) Save(ctx context.Context, templateID string, e *template.Editor) error {
	if templateID == "" {
		return errors.New("template id cannot be empty")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.client.Set(ctx, s.prefix+templateID, data, s.ttl).Err()
}

func (s *DraftStore) Load(ctx context.Context, templateID string) (*template.Editor, error) {
	if templateID == "" {
		return nil, template.ErrDraftNotFound
	}
	data, err := s.client.Get(ctx, s.prefix+templateID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, template.ErrDraftNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var e template.Editor
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &e, nil
}

// Start stores e with SET NX so a draft another request started first is kept.
func (s *DraftStore) Start(ctx context.Context, templateID string, e *template.Editor) (*template.Editor, error) {
	if templateID == "" {
		return nil, errors.New("template id cannot be empty")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	created, err := s.client.SetNX(ctx, s.prefix+templateID, data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx: %w", err)
	}
	if created {
		return e, nil
	}
	return s.Load(ctx, templateID)
}

// Update runs fn inside WATCH/MULTI. When the key changes between the read and
// the write the transaction fails and fn is retried against the fresh draft.
func (s *DraftStore) Update(
	ctx context.Context,
	templateID string,
	fn func(*template.Editor) error,
) (*template.Editor, error) {
	if templateID == "" {
		return nil, template.ErrDraftNotFound
	}
	key := s.prefix + templateID

	var updated *template.Editor
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return template.ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		var e template.Editor
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("unmarshal draft: %w", err)
		}
		if err := fn(&e); err != nil {
			return err
		}
		out, err := json.Marshal(&e)
		if err != nil {
			return fmt.Errorf("marshal draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &e
		return nil
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrDraftContended
}

func (s *DraftStore) Delete(ctx context.Context, templateID string) error {
	if templateID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+templateID).Err()
}
