package entities

import "time"

// User is a mini-app user seen through a verified session or a bot update
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Platform     string    `gorm:"type:varchar(16);not null;uniqueIndex:uq_users_platform_external"`
	ExternalID   string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_users_platform_external"`
	Username     string    `gorm:"type:varchar(255);not null;default:''"`
	FirstName    string    `gorm:"type:varchar(255);not null;default:''"`
	LastName     string    `gorm:"type:varchar(255);not null;default:''"`
	LanguageCode string    `gorm:"type:varchar(16);not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
