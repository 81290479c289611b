package audit

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
)

// Log records who touched what. Bookings are public actions, so Actor is
// the patient phone there; admin actions carry the admin email.
type Log struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	Actor     string `gorm:"column:actor;type:varchar(100);not null"`
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"` // supports IPv6

	Action       Action `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string `gorm:"column:resource_id;type:varchar(50);index"`

	Changes string `gorm:"column:changes;type:jsonb"`
}

func (Log) TableName() string {
	return "audit.logs"
}
