package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ConsultType string

const (
	ConsultOnline  ConsultType = "online"
	ConsultOffline ConsultType = "offline"
)

func (t ConsultType) IsValid() bool {
	switch t {
	case ConsultOnline, ConsultOffline:
		return true
	}
	return false
}

// WeeklyTemplate holds the doctor's default in-clinic slots, uniform across
// all open weekdays. Online slots are policy-defined per weekday and are
// never persisted here.
type WeeklyTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex"`
	DaySlots []string  `gorm:"column:day_slots;serializer:json;not null"`
}

func (WeeklyTemplate) TableName() string {
	return "clinic.weekly_templates"
}

// Override replaces the default slot source for one (date, consult type)
// pair: either closing the day outright or substituting an explicit list.
type Override struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID    uuid.UUID   `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex:idx_override_key"`
	Date        string      `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_override_key"`
	ConsultType ConsultType `gorm:"column:consult_type;type:varchar(10);not null;uniqueIndex:idx_override_key"`

	Closed bool `gorm:"column:closed;not null;default:false"`
	// nil means no explicit list: a closed=false override without slots
	// falls through to the default source.
	Slots *[]string `gorm:"column:slots;serializer:json"`
}

func (Override) TableName() string {
	return "clinic.availability_overrides"
}

// UpsertOverrideCommand merges at the field level: nil fields leave the
// stored value untouched. A supplied slot list replaces the stored list
// wholesale, never appends.
type UpsertOverrideCommand struct {
	Closed *bool
	Slots  *[]string
}

// DefaultDaySlots is the seeded in-clinic day: a morning session up to
// 13:45 and an afternoon session up to 17:45, in 15-minute slots.
func DefaultDaySlots() []string {
	return []string{
		"10:15", "10:30", "10:45", "11:00", "11:15", "11:30", "11:45",
		"12:00", "12:15", "12:30", "12:45", "13:00", "13:15", "13:30", "13:45",
		"15:15", "15:30", "15:45", "16:00", "16:15", "16:30", "16:45",
		"17:00", "17:15", "17:30", "17:45",
	}
}

// ValidateSlots checks that every entry is a well-formed HH:MM clock value
// and that the list carries no duplicates.
func ValidateSlots(slots []string) error {
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if _, err := ParseClock(s); err != nil {
			return err
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("%w: duplicate entry %s", ErrInvalidSlot, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}
