package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/drmadhusudhan/clinic-api/internal/domain/schedule"
)

type Status string

const (
	StatusBooked       Status = "booked"
	StatusBookedOnline Status = "booked_online"
	StatusCompleted    Status = "completed"
)

// ActiveStatuses are the statuses that occupy a slot. A completed
// appointment deliberately does not block rebooking the same slot.
func ActiveStatuses() []Status {
	return []Status{StatusBooked, StatusBookedOnline}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// PaymentRecord captures the gateway outcome for paid online bookings.
type PaymentRecord struct {
	Provider  string `json:"provider"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"` // smallest currency unit
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

// Appointment is one booked slot. The entity id doubles as the public
// booking id. At most one row with an active status may exist per
// (doctor_id, date, time); the reserve transaction protects this invariant.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index:idx_appointments_day,priority:1"`
	Date     string    `gorm:"column:date;type:varchar(10);not null;index:idx_appointments_day,priority:2"`
	Time     string    `gorm:"column:time;type:varchar(5);not null"`

	PatientName  string `gorm:"column:patient_name;type:varchar(100);not null"`
	PatientPhone string `gorm:"column:patient_phone;type:varchar(20);not null;index"`
	Age          int    `gorm:"column:age;not null"`
	Gender       Gender `gorm:"column:gender;type:varchar(10);not null"`

	ConsultType schedule.ConsultType `gorm:"column:consult_type;type:varchar(10);not null"`
	Status      Status               `gorm:"column:status;type:varchar(20);not null;index"`

	// Set for online consultations only, derived from the booking id.
	JitsiURL string `gorm:"column:jitsi_url;type:varchar(255)"`
	MeetURL  string `gorm:"column:meet_url;type:varchar(255)"`

	Payment *PaymentRecord `gorm:"column:payment;serializer:json"`
}

func (Appointment) TableName() string {
	return "clinic.appointments"
}

func (a *Appointment) IsActive() bool {
	return a.Status == StatusBooked || a.Status == StatusBookedOnline
}

func (a *Appointment) Complete() {
	a.Status = StatusCompleted
}

// ListQuery filters the doctor's dashboard view.
type ListQuery struct {
	DoctorID uuid.UUID
	Status   *Status
	DateFrom *string
	DateTo   *string
}
