package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// Ensure creates the doctor row if it does not exist yet. Used by the
	// startup seed only.
	Ensure(ctx context.Context, d *Doctor) error
}
