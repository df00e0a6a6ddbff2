package models

import (
	"time"

	"gorm.io/gorm"
)

// Requirement rule types understood by the achievement reconciler.
const (
	RequirementLessonsCompleted = "lessons_completed"
	RequirementStreakDays       = "streak_days"
	RequirementPointsEarned     = "points_earned"
	RequirementQuizzesCompleted = "quizzes_completed"
)

type Badge struct {
	gorm.Model
	Title            string `gorm:"not null"`
	TitleSw          string
	Description      string
	DescriptionSw    string
	Icon             string
	Type             string // lesson, streak, points, quiz
	Tier             string // bronze, silver, gold
	RequirementType  string `gorm:"not null"`
	RequirementValue int    `gorm:"not null"`
	Points           int    `gorm:"default:0"`
	IsActive         bool   `gorm:"default:true"`
	DisplayOrder     int
}

// UserBadge existing is itself the proof of having earned the badge. The
// composite unique index turns a concurrent double-grant into a duplicate-key
// error, which callers treat as "already issued".
type UserBadge struct {
	gorm.Model
	UserID   uint `gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID  uint `gorm:"uniqueIndex:idx_user_badge;not null"`
	EarnedAt time.Time
	Level    int `gorm:"default:1"`
}
