package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Reserve inserts the appointment if and only if no active appointment
	// occupies the same (doctor, date, time). The conflict re-check and the
	// insert must be atomic relative to concurrent Reserve calls; a lost
	// race surfaces as ErrSlotTaken with nothing written.
	Reserve(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListBookedTimes returns the HH:MM starts occupied by active
	// appointments on one date. Stale reads are acceptable here; Reserve
	// re-checks inside its transaction.
	ListBookedTimes(ctx context.Context, doctorID uuid.UUID, date string) (map[string]struct{}, error)

	// ListUpcomingByPhone returns active appointments on or after fromDate,
	// ordered by date then time.
	ListUpcomingByPhone(ctx context.Context, phone, fromDate string) ([]*Appointment, error)

	// List returns the doctor's appointments, newest date first.
	List(ctx context.Context, q *ListQuery) ([]*Appointment, error)

	UpdateStatus(ctx context.Context, a *Appointment) error
}
