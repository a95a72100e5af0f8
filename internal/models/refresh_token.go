package models

import (
	"time"
)

// RefreshToken is a persisted refresh token. Tokens are rotated on every
// refresh and swept periodically once expired or revoked.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Revoke marks the token unusable. The caller persists the change.
func (rt *RefreshToken) Revoke() {
	rt.IsRevoked = true
	if rt.ExpiresAt.After(time.Now()) {
		rt.ExpiresAt = time.Now()
	}
}
