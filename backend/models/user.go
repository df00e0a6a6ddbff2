package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username      string `gorm:"unique;not null"`
	Email         string `gorm:"unique;not null"`
	PasswordHash  string `gorm:"not null"`
	Role          string `gorm:"default:user"` // user, admin
	GuardianEmail string
}

// UserProgress holds the per-user aggregate stats that achievement
// rules are evaluated against.
type UserProgress struct {
	gorm.Model
	UserID           uint `gorm:"uniqueIndex"`
	LastActive       time.Time
	StreakDays       int `gorm:"default:0"`
	LessonsCompleted int `gorm:"default:0"`
	QuizzesCompleted int `gorm:"default:0"`
	PointsEarned     int `gorm:"default:0"`
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
	IP        string
}
