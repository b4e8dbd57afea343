package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nird-lab/nird_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonSeeder struct {
	db *gorm.DB
}

func NewLessonSeeder(db *gorm.DB) *LessonSeeder {
	return &LessonSeeder{db: db}
}

// SeedLessons creates a small catalogue covering all four exercise types
func (s *LessonSeeder) SeedLessons() error {
	now := time.Now()

	lessons := []model.Lesson{
		{
			ID:          "lesson_logiciels_libres",
			Title:       "Les logiciels libres",
			Description: "Découvre ce qui rend un logiciel libre",
			OrderIndex:  1,
			RequiredXP:  0,
			IsActive:    true,
		},
		{
			ID:          "lesson_sobriete",
			Title:       "Sobriété numérique",
			Description: "Comprendre l'empreinte du numérique",
			OrderIndex:  2,
			RequiredXP:  30,
			IsActive:    true,
		},
		{
			ID:          "lesson_donnees",
			Title:       "Mes données personnelles",
			Description: "Qui voit quoi sur internet ?",
			OrderIndex:  3,
			RequiredXP:  80,
			IsActive:    true,
		},
	}

	exercises := []model.Exercise{
		{
			ID:       "ex_libre_quiz_1",
			LessonID: "lesson_logiciels_libres",
			Type:     "quiz",
			Prompt:   "Un logiciel libre peut être étudié et modifié par tous",
			Data: rawJSON(map[string]interface{}{
				"subtype":      "true-false",
				"options":      []string{"Vrai", "Faux"},
				"correctIndex": 0,
			}),
			XPReward:   10,
			OrderIndex: 1,
		},
		{
			ID:       "ex_libre_quiz_2",
			LessonID: "lesson_logiciels_libres",
			Type:     "quiz",
			Prompt:   "Lequel de ces systèmes est un logiciel libre ?",
			Data: rawJSON(map[string]interface{}{
				"subtype":      "multiple-choice",
				"options":      []string{"Windows", "Linux", "macOS", "iOS"},
				"correctIndex": 1,
			}),
			XPReward:   10,
			OrderIndex: 2,
		},
		{
			ID:       "ex_libre_matching",
			LessonID: "lesson_logiciels_libres",
			Type:     "matching",
			Prompt:   "Associe chaque logiciel libre à son usage",
			Data: rawJSON(map[string]interface{}{
				"pairs": []map[string]string{
					{"left": "Firefox", "right": "Navigateur"},
					{"left": "LibreOffice", "right": "Bureautique"},
					{"left": "GIMP", "right": "Retouche d'image"},
				},
			}),
			XPReward:   15,
			OrderIndex: 3,
		},
		{
			ID:       "ex_sobriete_typing",
			LessonID: "lesson_sobriete",
			Type:     "typing",
			Prompt:   "Comment appelle-t-on la réduction volontaire de nos usages numériques ?",
			Data: rawJSON(map[string]interface{}{
				"expected":           "sobriété numérique",
				"acceptedVariations": []string{"la sobriété numérique", "sobriete numerique"},
			}),
			XPReward:   15,
			OrderIndex: 1,
		},
		{
			ID:       "ex_sobriete_estimation",
			LessonID: "lesson_sobriete",
			Type:     "estimation",
			Prompt:   "Combien de litres d'eau faut-il pour fabriquer un smartphone ?",
			Data: rawJSON(map[string]interface{}{
				"correct": 12760,
				"unit":    "litres",
			}),
			XPReward:   20,
			OrderIndex: 2,
		},
		{
			ID:       "ex_donnees_quiz",
			LessonID: "lesson_donnees",
			Type:     "quiz",
			Prompt:   "Que signifie RGPD ?",
			Data: rawJSON(map[string]interface{}{
				"subtype": "multiple-choice",
				"options": []string{
					"Règlement Général sur la Protection des Données",
					"Registre Global des Personnes et Données",
					"Réseau Général de Partage de Données",
				},
				"correctIndex": 0,
			}),
			XPReward:   10,
			OrderIndex: 1,
		},
		{
			ID:       "ex_donnees_matching",
			LessonID: "lesson_donnees",
			Type:     "matching",
			Prompt:   "Associe chaque donnée à sa sensibilité",
			Data: rawJSON(map[string]interface{}{
				"pairs": []map[string]string{
					{"left": "Numéro de sécurité sociale", "right": "Très sensible"},
					{"left": "Pseudonyme public", "right": "Peu sensible"},
				},
			}),
			XPReward:   15,
			OrderIndex: 2,
		},
	}

	for i := range lessons {
		lessons[i].CreatedAt = now
		lessons[i].UpdatedAt = now
	}
	for i := range exercises {
		exercises[i].CreatedAt = now
		exercises[i].UpdatedAt = now
	}

	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lessons).Error; err != nil {
		return err
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&exercises).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d lessons with %d exercises", len(lessons), len(exercises))
	return nil
}

func rawJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
