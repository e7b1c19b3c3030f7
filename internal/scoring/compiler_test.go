package scoring

import (
	"errors"
	"testing"

	"examprep-service/internal/models"
)

func TestCompile(t *testing.T) {
	session := &models.QuizSession{
		ID:                   "s1",
		UserID:               "u1",
		Score:                4,
		TotalDurationSeconds: 120,
	}
	for i := 0; i < 10; i++ {
		session.History = append(session.History, models.AnswerRecord{
			QuestionID:       "q" + string(rune('0'+i)),
			IsCorrect:        i < 7,
			TimeSpentSeconds: 12,
		})
	}

	result, err := Compile(session)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.TotalQuestions != 10 || result.CorrectAnswers != 7 {
		t.Errorf("got %d/%d, want 7/10", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.Accuracy != 70 {
		t.Errorf("accuracy = %d, want 70", result.Accuracy)
	}
	if result.Score != 4 {
		t.Errorf("score = %d, want 4", result.Score)
	}
	if result.TimeTakenSeconds != 120 {
		t.Errorf("time taken = %d, want 120", result.TimeTakenSeconds)
	}
	if len(result.Answers) != 10 {
		t.Errorf("answers = %d, want 10", len(result.Answers))
	}
}

func TestCompileEmptyHistory(t *testing.T) {
	_, err := Compile(&models.QuizSession{ID: "s1"})
	if !errors.Is(err, models.ErrInvalidResult) {
		t.Fatalf("err = %v, want ErrInvalidResult", err)
	}
}

func TestRoundedAccuracy(t *testing.T) {
	testCases := []struct {
		correct, total, want int
	}{
		{7, 10, 70},
		{1, 3, 33},
		{2, 3, 67},
		{0, 5, 0},
		{5, 5, 100},
	}
	for _, tc := range testCases {
		if got := RoundedAccuracy(tc.correct, tc.total); got != tc.want {
			t.Errorf("RoundedAccuracy(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestCompileBatch(t *testing.T) {
	session := &models.QuizSession{ID: "s1", UserID: "u1"}
	questions := []models.Question{
		{ID: "q1", CorrectAnswer: "a"},
		{ID: "q2", CorrectAnswer: "b"},
		{ID: "q3", CorrectAnswer: "c"},
	}
	answers := map[string]string{"q1": "a", "q2": "x"}

	result, err := CompileBatch(session, questions, answers, 1800, 300)
	if err != nil {
		t.Fatalf("CompileBatch: %v", err)
	}
	if result.CorrectAnswers != 1 || result.TotalQuestions != 3 {
		t.Errorf("got %d/%d, want 1/3", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.TimeTakenSeconds != 1500 {
		t.Errorf("time taken = %d, want 1500", result.TimeTakenSeconds)
	}
	// q3 was never answered and must count as incorrect, not as a match on
	// the empty string.
	if result.Answers[2].IsCorrect {
		t.Error("unanswered question scored as correct")
	}
}

func TestCompileBatchTimeFloor(t *testing.T) {
	session := &models.QuizSession{ID: "s1"}
	questions := []models.Question{{ID: "q1", CorrectAnswer: "a"}}

	result, err := CompileBatch(session, questions, nil, 1800, 1800)
	if err != nil {
		t.Fatalf("CompileBatch: %v", err)
	}
	if result.TimeTakenSeconds != 0 {
		t.Errorf("time taken = %d, want 0", result.TimeTakenSeconds)
	}

	result, err = CompileBatch(session, questions, nil, 1800, 2000)
	if err != nil {
		t.Fatalf("CompileBatch: %v", err)
	}
	if result.TimeTakenSeconds != 0 {
		t.Errorf("time taken floored = %d, want 0", result.TimeTakenSeconds)
	}
}

func TestCompileBatchNoQuestions(t *testing.T) {
	_, err := CompileBatch(&models.QuizSession{ID: "s1"}, nil, nil, 1800, 0)
	if !errors.Is(err, models.ErrInvalidResult) {
		t.Fatalf("err = %v, want ErrInvalidResult", err)
	}
}
