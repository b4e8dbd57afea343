package services

import (
	"encoding/json"
	"testing"

	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressionService(store *PostgresService) *ProgressionService {
	return &ProgressionService{sqlSvc: store, scoringSvc: &ScoringService{}}
}

func TestStartLessonGatesOnXP(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 20)
	createTestLesson(t, store, "l1", 50)

	_, err := svc.StartLesson("u1", "l1")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
	assert.Equal(t, "XP insuffisant", appErr.Message)
	assert.Equal(t, 50, appErr.Data["required"])
	assert.Equal(t, 20, appErr.Data["current"])
}

func TestStartLessonIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 100)
	createTestLesson(t, store, "l1", 0)

	first, err := svc.StartLesson("u1", "l1")
	require.NoError(t, err)
	assert.False(t, first.IsCompleted)

	second, err := svc.StartLesson("u1", "l1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, store.Db().Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", "u1", "l1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartLessonUnknownLesson(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)

	_, err := svc.StartLesson("u1", "nope")
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Leçon non trouvée", appErr.Message)
}

func TestCompleteLessonKeepsBestScore(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)

	_, err := svc.StartLesson("u1", "l1")
	require.NoError(t, err)

	progress, err := svc.CompleteLesson("u1", "l1", dto.CompleteLessonRequest{Score: 60, Stars: 1})
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, 60, progress.Score)
	require.NotNil(t, progress.CompletedAt)

	// A worse run never regresses the stored best
	progress, err = svc.CompleteLesson("u1", "l1", dto.CompleteLessonRequest{Score: 40, Stars: 0})
	require.NoError(t, err)
	assert.Equal(t, 60, progress.Score)
	assert.Equal(t, 1, progress.Stars)

	progress, err = svc.CompleteLesson("u1", "l1", dto.CompleteLessonRequest{Score: 95, Stars: 3})
	require.NoError(t, err)
	assert.Equal(t, 95, progress.Score)
	assert.Equal(t, 3, progress.Stars)
}

func TestCompleteLessonRequiresStart(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)

	_, err := svc.CompleteLesson("u1", "l1", dto.CompleteLessonRequest{Score: 80, Stars: 2})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Progression non trouvée", appErr.Message)
}

func TestSubmitExerciseAwardsXP(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "quiz",
		json.RawMessage(`{"subtype":"multiple-choice","options":["A","B"],"correctIndex":0}`))

	// First fast correct attempt: base 10 + speed 5 + first try 5
	resp, err := svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`0`), TimeSpent: 2,
	})
	require.NoError(t, err)
	assert.True(t, resp.Correct)
	assert.Equal(t, 20, resp.XPEarned)
	assert.Equal(t, 20, resp.TotalXP)

	// Retry loses the first-attempt bonus
	resp, err = svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`0`), TimeSpent: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.XPEarned)
	assert.Equal(t, 35, resp.TotalXP)

	stats, err := svc.ExerciseStats("u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attempts)
	assert.Equal(t, 2, stats.Correct)
	assert.Equal(t, 35, stats.XPEarned)
	assert.Equal(t, 100, stats.SuccessRate)
}

func TestSubmitExerciseIncorrectEarnsNothing(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "quiz",
		json.RawMessage(`{"subtype":"multiple-choice","options":["A","B"],"correctIndex":0}`))

	resp, err := svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`1`), TimeSpent: 2,
	})
	require.NoError(t, err)
	assert.False(t, resp.Correct)
	assert.Equal(t, 0, resp.XPEarned)
	assert.Equal(t, 0, resp.TotalXP)
	assert.Equal(t, 0, resp.RevealedAnswer)

	// The failed attempt is still recorded
	count, err := store.CountAttempts("u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitExerciseUnsupportedTypeRecordsNothing(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "puzzle", json.RawMessage(`{}`))

	_, err := svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`1`), TimeSpent: 2,
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "Type d'exercice non supporté", appErr.Message)

	count, err := store.CountAttempts("u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSubmitExerciseUnlocksXPTier(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 90)
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "quiz",
		json.RawMessage(`{"subtype":"multiple-choice","options":["A","B"],"correctIndex":0}`))
	require.NoError(t, store.Db().Create(&model.Achievement{
		ID: "ach_xp_100", Code: "xp_100", Name: "Apprenti",
		RequirementType: shared.RequirementXP, RequirementValue: 100, XPBonus: 10,
	}).Error)

	// 90 + 20 crosses the 100 XP tier; the badge bonus lands on top
	resp, err := svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`0`), TimeSpent: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, resp.TotalXP)

	unlocks, err := store.GetUserAchievements("u1")
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, "xp_100", unlocks[0].Achievement.Code)

	// A further correct answer does not grant the badge twice
	resp, err = svc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
		Answer: json.RawMessage(`0`), TimeSpent: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 135, resp.TotalXP)

	unlocks, err = store.GetUserAchievements("u1")
	require.NoError(t, err)
	assert.Len(t, unlocks, 1)
}

func TestRecordGameScoreKeepsMaximum(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestGame(t, store, "g1")

	resp, err := svc.RecordGameScore("u1", "g1", 50)
	require.NoError(t, err)
	assert.True(t, resp.IsNewHighscore)
	assert.Equal(t, 50, resp.HighScore)
	assert.Equal(t, "Nouveau record !", resp.Message)

	// A lower score keeps the stored best
	resp, err = svc.RecordGameScore("u1", "g1", 30)
	require.NoError(t, err)
	assert.False(t, resp.IsNewHighscore)
	assert.Equal(t, 50, resp.HighScore)
	assert.Equal(t, "Score enregistré", resp.Message)

	// A tie is not a new record either
	resp, err = svc.RecordGameScore("u1", "g1", 50)
	require.NoError(t, err)
	assert.False(t, resp.IsNewHighscore)
	assert.Equal(t, 50, resp.HighScore)

	resp, err = svc.RecordGameScore("u1", "g1", 80)
	require.NoError(t, err)
	assert.True(t, resp.IsNewHighscore)
	assert.Equal(t, 80, resp.HighScore)
}

func TestRecordGameScoreValidation(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestGame(t, store, "g1")

	_, err := svc.RecordGameScore("u1", "g1", -1)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "Score invalide", appErr.Message)

	_, err = svc.RecordGameScore("u1", "nope", 10)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Jeu non trouvé", appErr.Message)
}

func TestGetMyScoreWithoutAttempt(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestGame(t, store, "g1")

	resp, err := svc.GetMyScore("u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", resp.GameID)
	assert.Nil(t, resp.Score)

	_, err = svc.RecordGameScore("u1", "g1", 42)
	require.NoError(t, err)

	resp, err = svc.GetMyScore("u1", "g1")
	require.NoError(t, err)
	require.NotNil(t, resp.Score)
	assert.Equal(t, 42, *resp.Score)
}

func TestGetUserScoresJoinsGameNames(t *testing.T) {
	store := newTestStore(t)
	svc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestGame(t, store, "g1")
	createTestGame(t, store, "g2")

	_, err := svc.RecordGameScore("u1", "g1", 10)
	require.NoError(t, err)
	_, err = svc.RecordGameScore("u1", "g2", 90)
	require.NoError(t, err)

	scores, err := svc.GetUserScores("u1")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "g2", scores[0].GameID) // highest first
	assert.Equal(t, "Jeu g2", scores[0].GameName)
	assert.Equal(t, 90, scores[0].Score)
}
