package contracts

import (
	"context"

	"authlink-service/internal/app/models"
)

// MagicLinkRepository persists magic link records. After creation only
// cookie, exp and state are ever mutated.
type MagicLinkRepository interface {
	Create(ctx context.Context, userID string, lifetimeMinutes int, usage models.MagicLinkUsage) (*models.MagicLink, error)
	FindByID(ctx context.Context, id string) (*models.MagicLink, error)
	// FindByUser is scoped to the given usage tags; links of other usage
	// classes are invisible to it.
	FindByUser(ctx context.Context, userID string, usageTags []string) (*models.MagicLink, error)
	InvalidateAllEmailChange(ctx context.Context, userID string) error
	Save(ctx context.Context, link *models.MagicLink) error
	Invalidate(ctx context.Context, link *models.MagicLink) error
}
