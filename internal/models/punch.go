package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PunchStatusPending   = "pending"
	PunchStatusCompleted = "completed"
)

// PunchRecord is one punch-in event. A record with PunchoutTime == nil is
// open (the user is on-site); setting it closes the record for good.
type PunchRecord struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	ClientID     string     `gorm:"column:client_id;size:64;index:idx_punch_client_user;not null" json:"client_id"`
	FirmCode     string     `gorm:"column:firm_code;size:30;not null" json:"firm_code"`
	CreatedBy    string     `gorm:"column:created_by;size:64;index:idx_punch_client_user;not null" json:"created_by"`
	PunchinTime  time.Time  `gorm:"column:punchin_time;not null" json:"punchin_time"`
	PunchoutTime *time.Time `gorm:"column:punchout_time" json:"punchout_time,omitempty"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	PhotoURL     string     `gorm:"column:photo_url;size:2048;not null" json:"photo_url"`
	Address      string     `gorm:"size:500" json:"address"`
	Notes        string     `gorm:"type:text" json:"notes"`
	Status       string     `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (PunchRecord) TableName() string { return "punch_records" }

func (p *PunchRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Open reports whether the record has not been punched out yet.
func (p *PunchRecord) Open() bool {
	return p.PunchoutTime == nil
}
