package models

import (
	"time"

	"gorm.io/gorm"
)

// ReadingProgress is the per-(user, lesson) record driving the lesson gate.
// One row per pair; created on first interaction.
type ReadingProgress struct {
	gorm.Model
	UserID              uint `gorm:"uniqueIndex:idx_reading_user_lesson"`
	LessonID            uint `gorm:"uniqueIndex:idx_reading_user_lesson"`
	FlashcardsCompleted bool `gorm:"default:false"`
	StoryCompleted      bool `gorm:"default:false"`
	Unlocked            bool `gorm:"default:false"`
	LastAttempt         time.Time
}

// CanAccessStory reports whether the story phase is open. Flashcard
// completion is the only condition.
func (p *ReadingProgress) CanAccessStory() bool {
	return p.FlashcardsCompleted
}
