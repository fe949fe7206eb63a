package models

import "time"

// CartDocument stores one serialized cart under its storage key.
type CartDocument struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Body      []byte    `gorm:"column:body;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartDocument) TableName() string {
	return "cart_documents"
}
