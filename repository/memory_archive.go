package repository

import (
	"context"
	"sync"

	"github.com/danisworo/wicara/domain/entities"
	"github.com/danisworo/wicara/domain/repositories"
)

// MemoryArchiveRepository keeps session archives in memory. Used when no
// MongoDB connection is configured.
type MemoryArchiveRepository struct {
	mu       sync.RWMutex
	archives []*entities.SessionArchive
}

func NewMemoryArchiveRepository() repositories.ArchiveRepository {
	return &MemoryArchiveRepository{}
}

// Save implements repositories.ArchiveRepository
func (r *MemoryArchiveRepository) Save(ctx context.Context, archive *entities.SessionArchive) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archives = append(r.archives, archive)
	return nil
}

// List implements repositories.ArchiveRepository, most recent first
func (r *MemoryArchiveRepository) List(ctx context.Context, limit int) ([]*entities.SessionArchive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.SessionArchive, 0, len(r.archives))
	for i := len(r.archives) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.archives[i])
	}
	return out, nil
}
