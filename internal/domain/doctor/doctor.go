package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is the clinic's single practitioner. The row is seeded once at
// startup with the configured id and treated as read-only afterwards.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name           string `gorm:"column:name;type:varchar(100);not null"`
	Specialization string `gorm:"column:specialization;type:varchar(150)"`
	Experience     int    `gorm:"column:experience"`
	ClinicName     string `gorm:"column:clinic_name;type:varchar(150)"`
	Address        string `gorm:"column:address;type:text"`
	PhoneNumber    string `gorm:"column:phone_number;type:varchar(20)"`
	Email          string `gorm:"column:email;type:varchar(255)"`
	PhotoURL       string `gorm:"column:photo_url;type:varchar(255)"`
	About          string `gorm:"column:about;type:text"`
}

func (Doctor) TableName() string {
	return "clinic.doctors"
}
