package chat

import (
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// AuditLog is one persisted presence-lifecycle record. The routing state
// itself is purely in-memory; this table is operational history only and
// is never read back to rebuild registries.
type AuditLog struct {
	ID        string `gorm:"primaryKey"`
	Action    string `gorm:"index;not null"`
	ConnID    string `gorm:"index"`
	Name      string
	Mobile    string
	GroupName string
	CreatedAt time.Time
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	l.ID, err = nanoid.New(8)
	return
}
