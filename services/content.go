package services

import (
	"encoding/json"
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	"gorm.io/gorm"
)

type ContentService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ListLessons returns the active catalogue. When userID is set the caller is
// authenticated and each lesson carries that user's progress.
func (svc *ContentService) ListLessons(userID string) ([]dto.LessonResponse, error) {
	lessons, err := svc.sqlSvc.GetActiveLessons()
	if err != nil {
		return nil, err
	}

	progressByLesson := map[string]*model.LessonProgress{}
	if userID != "" {
		rows, err := svc.sqlSvc.GetUserLessonProgress(userID)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			progressByLesson[rows[i].LessonID] = &rows[i]
		}
	}

	responses := make([]dto.LessonResponse, 0, len(lessons))
	for i := range lessons {
		resp := dto.LessonResponse{
			ID:            lessons[i].ID,
			Title:         lessons[i].Title,
			Description:   lessons[i].Description,
			OrderIndex:    lessons[i].OrderIndex,
			RequiredXP:    lessons[i].RequiredXP,
			ExerciseCount: len(lessons[i].Exercises),
		}
		if progress, ok := progressByLesson[lessons[i].ID]; ok {
			resp.Progress = mapProgressResponse(progress)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (svc *ContentService) GetLessonDetail(lessonID, userID string) (*dto.LessonResponse, error) {
	lesson, err := svc.sqlSvc.GetLesson(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Leçon non trouvée")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := dto.LessonResponse{
		ID:            lesson.ID,
		Title:         lesson.Title,
		Description:   lesson.Description,
		OrderIndex:    lesson.OrderIndex,
		RequiredXP:    lesson.RequiredXP,
		ExerciseCount: len(lesson.Exercises),
		Exercises:     make([]dto.ExerciseResponse, 0, len(lesson.Exercises)),
	}

	for i := range lesson.Exercises {
		resp.Exercises = append(resp.Exercises, mapExerciseResponse(&lesson.Exercises[i]))
	}

	if userID != "" {
		progress, err := svc.sqlSvc.GetLessonProgress(userID, lessonID)
		if err == nil {
			resp.Progress = mapProgressResponse(progress)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svc.sqlSvc.HandleError(err)
		}
	}

	return &resp, nil
}

func (svc *ContentService) GetExercise(exerciseID string) (*dto.ExerciseResponse, error) {
	exercise, err := svc.sqlSvc.GetExercise(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Exercice non trouvé")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	resp := mapExerciseResponse(exercise)
	return &resp, nil
}

func mapProgressResponse(progress *model.LessonProgress) *dto.LessonProgressResponse {
	return &dto.LessonProgressResponse{
		LessonID:    progress.LessonID,
		IsCompleted: progress.IsCompleted,
		Score:       progress.Score,
		Stars:       progress.Stars,
		CompletedAt: progress.CompletedAt,
	}
}

func mapExerciseResponse(exercise *model.Exercise) dto.ExerciseResponse {
	return dto.ExerciseResponse{
		ID:         exercise.ID,
		LessonID:   exercise.LessonID,
		Type:       exercise.Type,
		Prompt:     exercise.Prompt,
		Content:    sanitizeExerciseContent(exercise),
		XPReward:   exercise.XPReward,
		OrderIndex: exercise.OrderIndex,
	}
}

// sanitizeExerciseContent projects the answer key onto what a client may see
// before submitting: the quiz options, the matching columns, the estimation
// unit. Correct indexes, expected strings and canonical values stay server-side.
func sanitizeExerciseContent(exercise *model.Exercise) json.RawMessage {
	switch exercise.Type {
	case shared.ExerciseTypeQuiz:
		var key quizKey
		if err := shared.JSONUnmarshal(exercise.Data, &key); err != nil {
			return nil
		}
		out, err := shared.JSONMarshal(map[string]interface{}{
			"subtype": key.Subtype,
			"options": key.Options,
		})
		if err != nil {
			return nil
		}
		return out

	case shared.ExerciseTypeMatching:
		var key matchingKey
		if err := shared.JSONUnmarshal(exercise.Data, &key); err != nil {
			return nil
		}
		left := make([]string, 0, len(key.Pairs))
		right := make([]string, 0, len(key.Pairs))
		for _, p := range key.Pairs {
			left = append(left, p.Left)
			right = append(right, p.Right)
		}
		out, err := shared.JSONMarshal(map[string]interface{}{
			"left":  left,
			"right": right,
		})
		if err != nil {
			return nil
		}
		return out

	case shared.ExerciseTypeEstimation:
		var key estimationKey
		if err := shared.JSONUnmarshal(exercise.Data, &key); err != nil {
			return nil
		}
		out, err := shared.JSONMarshal(map[string]interface{}{
			"unit": key.Unit,
		})
		if err != nil {
			return nil
		}
		return out

	default:
		// typing has nothing safe to show beyond the prompt
		return nil
	}
}
