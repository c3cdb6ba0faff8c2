package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/common"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]*models.Document), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, doc *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	stored := *doc
	r.docs[stored.ID] = &stored
	return doc, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Document, 0, len(r.docs))
	for _, d := range r.docs {
		c := *d
		c.Content = ""
		result = append(result, &c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UploadedAt.After(result[j].UploadedAt)
	})
	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
