package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// MemoryRepository is an in-process Repository used by tests and hosts that
// run without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Article
	bySlug  map[string]uuid.UUID
	nowFunc func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    map[uuid.UUID]*Article{},
		bySlug:  map[string]uuid.UUID{},
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepository) Create(ctx context.Context, record *Article) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	clone := cloneArticle(record)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now

	m.byID[clone.ID] = clone
	m.bySlug[clone.Slug] = clone.ID
	return cloneArticle(clone), nil
}

func (m *MemoryRepository) Update(ctx context.Context, record *Article) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: record.ID.String()}
	}

	delete(m.bySlug, existing.Slug)

	clone := cloneArticle(record)
	clone.CreatedAt = existing.CreatedAt
	clone.UpdatedAt = m.nowFunc()

	m.byID[clone.ID] = clone
	m.bySlug[clone.Slug] = clone.ID
	return cloneArticle(clone), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: id.String()}
	}
	return cloneArticle(record), nil
}

func (m *MemoryRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: slug}
	}
	return cloneArticle(m.byID[id]), nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Article, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, cloneArticle(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "article", Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}

func cloneArticle(in *Article) *Article {
	if in == nil {
		return nil
	}
	out := *in
	out.Tags = append([]string(nil), in.Tags...)
	if in.Metadata != nil {
		out.Metadata = make(map[string]any, len(in.Metadata))
		for k, v := range in.Metadata {
			out.Metadata[k] = v
		}
	}
	out.Outline.Sections = append([]interfaces.Section(nil), in.Outline.Sections...)
	out.Outline.Anchors = append([]string(nil), in.Outline.Anchors...)
	out.Outline.Links = append([]interfaces.Link(nil), in.Outline.Links...)
	return &out
}
