package repositories

import (
	"context"

	"github.com/danisworo/wicara/domain/entities"
)

// ArchiveRepository persists finished session snapshots
type ArchiveRepository interface {
	Save(ctx context.Context, archive *entities.SessionArchive) error
	List(ctx context.Context, limit int) ([]*entities.SessionArchive, error)
}
