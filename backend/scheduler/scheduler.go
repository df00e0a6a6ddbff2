package scheduler

import (
	"log"
	"time"

	"kiswahili-kwanza/backend/controllers"
	"kiswahili-kwanza/backend/models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Start launches the daily achievement sweep in the background. The sweep is a
// safety net behind the event-driven reconciliation: it re-checks every user
// active in the last week so that time-based rules like streaks are never
// missed.
func Start(db *gorm.DB) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)

	s.Every(1).Day().At("03:00").Do(func() {
		sweepAchievements(db)
	})

	s.StartAsync()
	return s
}

func sweepAchievements(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -7)

	var users []models.UserProgress
	if err := db.Where("last_active > ?", cutoff).Find(&users).Error; err != nil {
		log.Printf("achievement sweep: %v", err)
		return
	}

	for _, u := range users {
		if err := controllers.ReconcileAchievements(db, u.UserID); err != nil {
			log.Printf("achievement sweep for user %d: %v", u.UserID, err)
		}
	}
	log.Printf("achievement sweep finished for %d users", len(users))
}
