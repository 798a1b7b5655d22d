package videos

import (
	"context"

	"sollog/internal/server/models"
)

// Repository stores encrypted video records. Every lookup and mutation is
// owner-scoped: an id belonging to another user behaves exactly like an
// absent id (common.ErrNotFound), so existence is never confirmed across
// owners.
type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Video, error)
	GetByID(ctx context.Context, userID, id string) (*models.Video, error)
	UpdateTitle(ctx context.Context, userID, id, title string) error
	Delete(ctx context.Context, userID, id string) error
	MaxSequenceNumber(ctx context.Context, userID string) (int64, error)
}
