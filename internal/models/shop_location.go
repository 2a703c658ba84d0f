package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LocationStatusPending  = "pending"
	LocationStatusVerified = "verified"
	LocationStatusRejected = "rejected"
)

// ShopLocation pins a firm to coordinates. (firm_code, client_id) is the
// natural key: re-registering the same firm updates the pin instead of
// creating a second row, and the unique index backs that up under races.
type ShopLocation struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	FirmCode  string    `gorm:"column:firm_code;size:30;uniqueIndex:idx_shop_firm_client;not null" json:"firm_code"`
	ClientID  string    `gorm:"column:client_id;size:64;uniqueIndex:idx_shop_firm_client;not null" json:"client_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedBy string    `gorm:"column:created_by;size:64" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ShopLocation) TableName() string { return "shop_location" }

func (s *ShopLocation) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ValidLocationStatus reports whether value is one of the moderation states.
func ValidLocationStatus(value string) bool {
	switch value {
	case LocationStatusPending, LocationStatusVerified, LocationStatusRejected:
		return true
	}
	return false
}
