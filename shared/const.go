package shared

const (
	UserID = "user_id"

	ExerciseTypeQuiz       = "quiz"
	ExerciseTypeMatching   = "matching"
	ExerciseTypeTyping     = "typing"
	ExerciseTypeEstimation = "estimation"

	QuizTrueFalse      = "true-false"
	QuizMultipleChoice = "multiple-choice"

	TimeframeWeek    = "week"
	TimeframeMonth   = "month"
	TimeframeAllTime = "all-time"

	RequirementStreak = "streak"
	RequirementXP     = "xp"
)
