package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"kiswahili-kwanza/backend/models"

	"gorm.io/gorm"
)

type seedCard struct {
	Kiswahili string
	English   string
}

type seedLesson struct {
	Slug                string
	Title               string
	TitleEnglish        string
	Description         string
	Difficulty          int
	SequenceOrder       int
	Prerequisites       []string
	QuizUnlockThreshold int
	ReadingMaterial     string
	StoryTitle          string
	StoryTitleEnglish   string
	HasImages           bool
	Cards               []seedCard
}

var seedLessons = []seedLesson{
	{
		Slug: "nambari", Title: "Nambari", TitleEnglish: "Numbers",
		Description:   "Basic numbers 1-10 with visual and audio support",
		Difficulty:    1, SequenceOrder: 1,
		QuizUnlockThreshold: 70,
		ReadingMaterial:     "Moja ni nambari ya kwanza. Mbili ni nambari ya pili. Tatu ni nambari ya tatu. Hesabu kutoka moja hadi kumi: moja, mbili, tatu, nne, tano, sita, saba, nane, tisa, kumi.",
		StoryTitle:          "Hesabu na Mimi", StoryTitleEnglish: "Count with Me",
		HasImages: true,
		Cards: []seedCard{
			{"moja", "one"}, {"mbili", "two"}, {"tatu", "three"}, {"nne", "four"},
			{"tano", "five"}, {"sita", "six"}, {"saba", "seven"}, {"nane", "eight"},
			{"tisa", "nine"}, {"kumi", "ten"},
		},
	},
	{
		Slug: "rangi", Title: "Rangi", TitleEnglish: "Colors",
		Description:   "Basic colors with high contrast visual aids",
		Difficulty:    1, SequenceOrder: 2,
		QuizUnlockThreshold: 70,
		ReadingMaterial:     "Rangi ni jambo zuri. Nyekundu ni rangi ya damu. Kijani ni rangi ya majani. Buluu ni rangi ya anga. Njano ni rangi ya jua. Nyeupe ni rangi ya mchanga.",
		StoryTitle:          "Dunia ya Rangi", StoryTitleEnglish: "A World of Colors",
		HasImages: true,
		Cards: []seedCard{
			{"nyekundu", "red"}, {"nyeusi", "black"}, {"nyeupe", "white"}, {"kijani", "green"},
			{"buluu", "blue"}, {"njano", "yellow"}, {"kahawia", "brown"}, {"waridi", "pink"},
		},
	},
	{
		Slug: "familia_ndogo", Title: "Familia Ndogo", TitleEnglish: "Nuclear Family",
		Description:   "Immediate family members with simple relationships",
		Difficulty:    2, SequenceOrder: 1,
		Prerequisites:       []string{"nambari", "rangi"},
		QuizUnlockThreshold: 75,
		ReadingMaterial:     "Familia yangu ni ndogo. Nina mama na baba. Nina kaka mmoja na dada mmoja. Bibi na babu wanatutembelea. Tunapendana sana familia yetu.",
		StoryTitle:          "Familia Yangu", StoryTitleEnglish: "My Family",
		HasImages: true,
		Cards: []seedCard{
			{"mama", "mother"}, {"baba", "father"}, {"mtoto", "child"}, {"mwana", "son/daughter"},
			{"kaka", "brother"}, {"dada", "sister"}, {"bibi", "grandmother"}, {"babu", "grandfather"},
		},
	},
	{
		Slug: "siku_za_wiki", Title: "Siku za Wiki", TitleEnglish: "Days of the Week",
		Description:   "Seven days with routine activities",
		Difficulty:    2, SequenceOrder: 2,
		Prerequisites:       []string{"nambari", "rangi"},
		QuizUnlockThreshold: 75,
		ReadingMaterial:     "Wiki ina siku saba. Jumapili ni siku ya kwanza ya wiki. Jumatatu ni siku ya shule. Jumanne pia ni siku ya shule. Jumamosi ni siku ya mchezo. Siku zote ni muhimu.",
		StoryTitle:          "Wiki Yangu", StoryTitleEnglish: "My Week",
		HasImages: true,
		Cards: []seedCard{
			{"Jumapili", "Sunday"}, {"Jumatatu", "Monday"}, {"Jumanne", "Tuesday"},
			{"Jumatano", "Wednesday"}, {"Alhamisi", "Thursday"}, {"Ijumaa", "Friday"},
			{"Jumamosi", "Saturday"},
		},
	},
	{
		Slug: "matunda", Title: "Matunda", TitleEnglish: "Fruits",
		Description:   "Common fruits with nutritional benefits",
		Difficulty:    3, SequenceOrder: 1,
		Prerequisites:       []string{"familia_ndogo", "siku_za_wiki"},
		QuizUnlockThreshold: 80,
		ReadingMaterial:     "Matunda ni chakula kizuri. Ndizi ni tamu na ni nzuri kwa afya. Chungwa lina vitamini nyingi. Embe ni tunda langu la kupenda. Tunapaswa kula matunda kila siku ili tuwe na afya njema.",
		StoryTitle:          "Sokoni", StoryTitleEnglish: "At the Market",
		HasImages: true,
		Cards: []seedCard{
			{"ndizi", "banana"}, {"chungwa", "orange"}, {"tufaha", "apple"}, {"nanasi", "pineapple"},
			{"embe", "mango"}, {"papai", "papaya"}, {"tikiti maji", "watermelon"}, {"zabibu", "grapes"},
		},
	},
	{
		Slug: "familia_kubwa", Title: "Familia Kubwa", TitleEnglish: "Extended Family",
		Description:   "Extended family relationships and connections",
		Difficulty:    4, SequenceOrder: 1,
		Prerequisites:       []string{"familia_ndogo", "matunda"},
		QuizUnlockThreshold: 80,
		ReadingMaterial:     "Familia kubwa ina watu wengi. Shangazi ni dada wa baba. Mjomba ni kaka wa mama. Binamu ni mtoto wa shangazi au mjomba. Familia kubwa hukutana wakati wa sherehe. Wote ni muhimu katika maisha yetu.",
		StoryTitle:          "Sherehe ya Familia", StoryTitleEnglish: "The Family Celebration",
		Cards: []seedCard{
			{"shangazi", "aunt (father's sister)"}, {"mjomba", "uncle (mother's brother)"},
			{"binamu", "cousin"}, {"nyawira", "daughter-in-law"}, {"mkwe", "son-in-law"},
			{"mpwa", "nephew/niece"}, {"kambo", "step-parent"},
			{"mama mkubwa", "elder aunt"}, {"baba mdogo", "younger uncle"},
		},
	},
	{
		Slug: "miezi_ya_mwaka", Title: "Miezi ya Mwaka", TitleEnglish: "Months of the Year",
		Description:   "Twelve months with seasonal activities",
		Difficulty:    5, SequenceOrder: 1,
		Prerequisites:       []string{"siku_za_wiki", "familia_kubwa"},
		QuizUnlockThreshold: 85,
		ReadingMaterial:     "Mwaka una miezi kumi na miwili. Januari ni mwezi wa kwanza wa mwaka. Desemba ni mwezi wa mwisho. Kila mwezi una siku thelathini au thelathini na moja. Baadhi ya miezi ina mvua, mengine yana jua kali. Miezi yote ni muhimu kwa mazao na maisha yetu.",
		StoryTitle:          "Mwaka Mzima", StoryTitleEnglish: "A Whole Year",
		HasImages: true,
		Cards: []seedCard{
			{"Januari", "January"}, {"Februari", "February"}, {"Machi", "March"},
			{"Aprili", "April"}, {"Mei", "May"}, {"Juni", "June"}, {"Julai", "July"},
			{"Agosti", "August"}, {"Septemba", "September"}, {"Oktoba", "October"},
			{"Novemba", "November"}, {"Desemba", "December"},
		},
	},
}

var seedBadges = []models.Badge{
	{
		Title: "First Steps", TitleSw: "Hatua za Kwanza",
		Description: "Complete your first lesson", DescriptionSw: "Kamilisha somo lako la kwanza",
		Icon: "🌟", Type: "lesson", Tier: "bronze",
		RequirementType: models.RequirementLessonsCompleted, RequirementValue: 1,
		Points: 50, IsActive: true, DisplayOrder: 1,
	},
	{
		Title: "Week Warrior", TitleSw: "Shujaa wa Wiki",
		Description: "Learn for 7 days in a row", DescriptionSw: "Jifunza kwa siku 7 mfululizo",
		Icon: "🔥", Type: "streak", Tier: "silver",
		RequirementType: models.RequirementStreakDays, RequirementValue: 7,
		Points: 200, IsActive: true, DisplayOrder: 2,
	},
	{
		Title: "Point Master", TitleSw: "Bingwa wa Alama",
		Description: "Earn 1000 points", DescriptionSw: "Pata alama 1000",
		Icon: "💎", Type: "points", Tier: "gold",
		RequirementType: models.RequirementPointsEarned, RequirementValue: 1000,
		Points: 300, IsActive: true, DisplayOrder: 3,
	},
}

// seedDatabase loads the curriculum and badge catalogue on first boot. It is a
// no-op when lessons already exist, so restarts never duplicate data.
func seedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Lesson{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding lessons, stories and badges")

	for _, sl := range seedLessons {
		prereqs, err := json.Marshal(sl.Prerequisites)
		if err != nil {
			return err
		}

		lesson := models.Lesson{
			Slug:                sl.Slug,
			Title:               sl.Title,
			TitleEnglish:        sl.TitleEnglish,
			Description:         sl.Description,
			Difficulty:          sl.Difficulty,
			SequenceOrder:       sl.SequenceOrder,
			Prerequisites:       string(prereqs),
			QuizUnlockThreshold: sl.QuizUnlockThreshold,
			ReadingMaterial:     sl.ReadingMaterial,
			IsActive:            true,
		}
		for i, card := range sl.Cards {
			flashcard := models.Flashcard{
				Kiswahili:     card.Kiswahili,
				English:       card.English,
				AudioURL:      assetURL("audio", sl.Slug, card.Kiswahili, "mp3"),
				SequenceOrder: i + 1,
			}
			if sl.HasImages {
				flashcard.ImageURL = assetURL("images", sl.Slug, card.Kiswahili, "png")
			}
			lesson.Flashcards = append(lesson.Flashcards, flashcard)
		}
		if err := db.Create(&lesson).Error; err != nil {
			return err
		}

		highlighted, err := json.Marshal(storyHighlights(sl))
		if err != nil {
			return err
		}
		story := models.Story{
			LessonID:         lesson.ID,
			Title:            sl.StoryTitle,
			TitleEnglish:     sl.StoryTitleEnglish,
			Content:          sl.ReadingMaterial,
			HighlightedWords: string(highlighted),
		}
		if err := db.Create(&story).Error; err != nil {
			return err
		}
	}

	for _, badge := range seedBadges {
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
	}

	return nil
}

// storyHighlights picks the lesson vocabulary that actually appears in the
// story text, so the reader can tap those words for a translation.
func storyHighlights(sl seedLesson) []map[string]string {
	lowerContent := strings.ToLower(sl.ReadingMaterial)
	var highlights []map[string]string
	for _, card := range sl.Cards {
		if strings.Contains(lowerContent, strings.ToLower(card.Kiswahili)) {
			highlights = append(highlights, map[string]string{
				"kiswahili": card.Kiswahili,
				"english":   card.English,
			})
		}
	}
	return highlights
}

func assetURL(kind, slug, word, ext string) string {
	slugged := strings.ReplaceAll(strings.ToLower(word), " ", "_")
	return fmt.Sprintf("/%s/%s/%s.%s", kind, slug, slugged, ext)
}
