package models

import (
	"time"

	catalogmodels "github.com/lk2023060901/myai/internal/catalog/models"
)

// User is the GORM model for the users table. PasswordHash is nil for
// accounts created through an OAuth provider only.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	Name         *string   `gorm:"size:255"`
	Picture      *string   `gorm:"size:1024"`
	IsActive     bool      `gorm:"not null;default:true"`
	PasswordHash *string   `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// OAuthAccount links a provider identity to a User.
type OAuthAccount struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Provider       string  `gorm:"size:50;not null;uniqueIndex:uq_provider_userid"`
	ProviderUserID string  `gorm:"size:255;not null;uniqueIndex:uq_provider_userid"`
	Email          *string `gorm:"size:255"`
	Name           *string `gorm:"size:255"`
	Picture        *string `gorm:"size:1024"`
	AccessToken    *string `gorm:"type:text"`
	RefreshToken   *string `gorm:"type:text"`
	ExpiresAt      *int64
	Raw            catalogmodels.RawJSON `gorm:"type:jsonb"`
	UserID         int64                 `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (OAuthAccount) TableName() string {
	return "oauth_accounts"
}

// All returns the models to migrate.
func All() []any {
	return []any{&User{}, &OAuthAccount{}}
}
