package models

import "time"

// Session backs one issued token pair. Tokens are stored as SHA-256 hex
// digests; the raw values only ever live in the client's cookies.
type Session struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	UserID           uint      `gorm:"index;not null" json:"userId"`
	AccessTokenHash  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	RefreshTokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserAgent        string    `gorm:"type:varchar(255)" json:"userAgent"`
	IPAddress        string    `gorm:"type:varchar(64)" json:"ipAddress"`
	ExpiresAt        time.Time `gorm:"index;not null" json:"expiresAt"`
}
