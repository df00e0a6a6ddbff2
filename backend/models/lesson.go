package models

import "gorm.io/gorm"

// Lesson is one thematic vocabulary unit ("somo"). Content is seeded at
// startup and never mutated at runtime; whether a learner may enter it is
// derived from ReadingProgress, not stored here.
type Lesson struct {
	gorm.Model
	Slug                string `gorm:"uniqueIndex;not null"`
	Title               string `gorm:"not null"`
	TitleEnglish        string
	Description         string
	Difficulty          int `gorm:"not null"` // tier 1..5
	SequenceOrder       int `gorm:"not null"`
	Prerequisites       string // JSON array of lesson slugs
	QuizUnlockThreshold int    `gorm:"default:70"` // percent
	ReadingMaterial     string `gorm:"type:text"`
	IsActive            bool   `gorm:"default:true"`
	Flashcards          []Flashcard
}

type Flashcard struct {
	gorm.Model
	LessonID      uint `gorm:"index;not null"`
	Kiswahili     string
	English       string
	ImageURL      string
	AudioURL      string
	SequenceOrder int
}

// Story is the narrative unlocked after the flashcard phase of its lesson.
type Story struct {
	gorm.Model
	LessonID         uint `gorm:"uniqueIndex"`
	Title            string
	TitleEnglish     string
	Content          string `gorm:"type:text"`
	HighlightedWords string // JSON array of {kiswahili, english} pairs
}
