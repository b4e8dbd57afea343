package services

import (
	"errors"
	"math"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProgressionService struct {
	context.DefaultService

	sqlSvc     *PostgresService
	scoringSvc *ScoringService
}

const PROGRESSION_SVC = "progression_svc"

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.scoringSvc = svc.Service(SCORING_SVC).(*ScoringService)
	return nil
}

// ==================== LESSONS ====================

// StartLesson gates on cumulative XP, then idempotently returns the progress
// row for the pair. Restarting a completed lesson is not an error.
func (svc *ProgressionService) StartLesson(userID, lessonID string) (*dto.LessonProgressResponse, error) {
	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Leçon non trouvée")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if user.TotalXP < lesson.RequiredXP {
		return nil, shared.NewForbiddenError(nil, "XP insuffisant").WithData(map[string]interface{}{
			"required": lesson.RequiredXP,
			"current":  user.TotalXP,
		})
	}

	progress, err := svc.sqlSvc.EnsureLessonProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}

	return mapProgressResponse(progress), nil
}

// CompleteLesson records a finished run. Score and stars never regress; the
// stored row reflects the personal best.
func (svc *ProgressionService) CompleteLesson(userID, lessonID string, req dto.CompleteLessonRequest) (*dto.LessonProgressResponse, error) {
	stars := req.Stars
	if stars > 3 {
		stars = 3
	}
	if stars < 0 {
		stars = 0
	}

	progress, err := svc.sqlSvc.CompleteLessonProgress(userID, lessonID, req.Score, stars)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Progression non trouvée")
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"lesson_id": lessonID,
		"score":     progress.Score,
		"stars":     progress.Stars,
	}).Info("Lesson completed")

	return mapProgressResponse(progress), nil
}

// ==================== EXERCISES ====================

// SubmitExercise runs one grading round trip: load, count prior attempts,
// evaluate, append the attempt row, award XP. An unsupported type records
// nothing.
func (svc *ProgressionService) SubmitExercise(userID, exerciseID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	exercise, err := svc.sqlSvc.GetExercise(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Exercice non trouvé")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	priorAttempts, err := svc.sqlSvc.CountAttempts(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	verdict, err := svc.scoringSvc.Evaluate(exercise, req.Answer, req.TimeSpent, priorAttempts)
	if err != nil {
		if errors.Is(err, ErrUnsupportedExerciseType) {
			return nil, shared.NewBadRequestError(err, "Type d'exercice non supporté")
		}
		if errors.Is(err, ErrMalformedExercise) {
			return nil, shared.NewInternalError(err, "Erreur interne")
		}
		return nil, err
	}

	err = svc.sqlSvc.CreateAttempt(&model.ExerciseAttempt{
		UserID:     userID,
		ExerciseID: exerciseID,
		Answer:     req.Answer,
		IsCorrect:  verdict.Correct,
		TimeSpent:  req.TimeSpent,
		XPEarned:   verdict.XPEarned,
	})
	if err != nil {
		return nil, err
	}

	if verdict.XPEarned > 0 {
		if err := svc.sqlSvc.AddUserXP(userID, verdict.XPEarned); err != nil {
			return nil, err
		}
		if err := svc.unlockXPAchievements(userID); err != nil {
			return nil, err
		}
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.SubmitAnswerResponse{
		Verdict: *verdict,
		TotalXP: user.TotalXP,
	}, nil
}

func (svc *ProgressionService) ExerciseStats(userID, exerciseID string) (*dto.ExerciseStatsResponse, error) {
	attempts, err := svc.sqlSvc.GetAttempts(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	stats := dto.ExerciseStatsResponse{ExerciseID: exerciseID, Attempts: len(attempts)}
	for i := range attempts {
		if attempts[i].IsCorrect {
			stats.Correct++
		}
		stats.XPEarned += attempts[i].XPEarned
	}
	if len(attempts) > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.Correct) / float64(len(attempts)) * 100))
		last := attempts[len(attempts)-1].CreatedAt
		stats.LastAttemptAt = &last
	}

	return &stats, nil
}

// unlockXPAchievements grants any XP-tier badge the new total now reaches.
// Badges surface on the profile; the submit response only reports the total.
func (svc *ProgressionService) unlockXPAchievements(userID string) error {
	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		_, err := unlockThresholdAchievements(tx, user.ID, shared.RequirementXP, user.TotalXP)
		return err
	})
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

// ==================== ARCADE ====================

func (svc *ProgressionService) ListGames() ([]dto.GameResponse, error) {
	games, err := svc.sqlSvc.GetGames()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		responses = append(responses, mapGameResponse(&games[i]))
	}
	return responses, nil
}

func (svc *ProgressionService) GetGame(gameID string) (*dto.GameResponse, error) {
	game, err := svc.sqlSvc.GetGame(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Jeu non trouvé")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := mapGameResponse(game)
	return &resp, nil
}

// RecordGameScore keeps the per-game maximum. A tie is not a new record.
func (svc *ProgressionService) RecordGameScore(userID, gameID string, score int) (*dto.SubmitScoreResponse, error) {
	if score < 0 {
		return nil, shared.NewBadRequestError(nil, "Score invalide")
	}

	if _, err := svc.sqlSvc.GetGame(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Jeu non trouvé")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	stored, isNew, err := svc.sqlSvc.UpsertHighScore(userID, gameID, score)
	if err != nil {
		return nil, err
	}

	message := "Score enregistré"
	if isNew {
		message = "Nouveau record !"
	}

	return &dto.SubmitScoreResponse{
		Message:        message,
		HighScore:      stored,
		IsNewHighscore: isNew,
	}, nil
}

func (svc *ProgressionService) GetMyScore(userID, gameID string) (*dto.MyScoreResponse, error) {
	resp := dto.MyScoreResponse{GameID: gameID}

	score, err := svc.sqlSvc.GetHighScore(userID, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &resp, nil
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp.Score = &score.Score
	return &resp, nil
}

func (svc *ProgressionService) GetUserScores(userID string) ([]dto.UserScoreResponse, error) {
	if _, err := svc.sqlSvc.GetUser(userID); err != nil {
		return nil, err
	}

	scores, err := svc.sqlSvc.GetUserHighScores(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserScoreResponse, 0, len(scores))
	for _, s := range scores {
		responses = append(responses, dto.UserScoreResponse{
			GameID:    s.GameID,
			GameName:  s.GameName,
			Score:     s.Score,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return responses, nil
}

func mapGameResponse(game *model.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:          game.ID,
		Name:        game.Name,
		Description: game.Description,
		Icon:        game.Icon,
	}
}
