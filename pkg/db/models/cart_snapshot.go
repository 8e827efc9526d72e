package models

import "time"

// CartSnapshot is the durable slot for one cart session.
type CartSnapshot struct {
	SessionKey string    `gorm:"column:session_key;primaryKey"`
	Version    int       `gorm:"column:version;not null"`
	Payload    string    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
