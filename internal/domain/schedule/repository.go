package schedule

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetWeeklyTemplate(ctx context.Context, doctorID uuid.UUID) ([]string, error)

	// ReplaceWeeklyTemplate swaps the permanent default slot list wholesale.
	ReplaceWeeklyTemplate(ctx context.Context, doctorID uuid.UUID, slots []string) error

	// GetOverride returns nil when no override exists for the key.
	// Absence is the normal case, not an error.
	GetOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType ConsultType) (*Override, error)

	UpsertOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType ConsultType, cmd *UpsertOverrideCommand) (*Override, error)

	DeleteOverride(ctx context.Context, doctorID uuid.UUID, date string, consultType ConsultType) error
}
