package domain

import (
	"fmt"
	"strings"
)

const (
	FeedbackCorrect       = "Correct!"
	FeedbackIncorrect     = "Incorrect."
	FeedbackAllCorrect    = "All correct!"
	FeedbackPendingManual = "Pending manual grading"
)

// GradeOutcome is the result of scoring a single answer.
type GradeOutcome struct {
	Score              float64
	IsAutoGraded       bool
	NeedsManualGrading bool
	Feedback           string
}

// AnswerGrader scores an answer against its question.
type AnswerGrader interface {
	Grade(question *Question, maxScore float64, answer *Answer) GradeOutcome
}

// AutoGrader is the rule-based grader used at submit time. It holds no state.
type AutoGrader struct{}

// NewAutoGrader returns the default AnswerGrader.
func NewAutoGrader() AnswerGrader {
	return AutoGrader{}
}

// Grade implements AnswerGrader.
func (AutoGrader) Grade(question *Question, maxScore float64, answer *Answer) GradeOutcome {
	if question == nil || answer == nil {
		return GradeOutcome{}
	}

	switch key := question.Key.(type) {
	case MultipleChoiceKey:
		return gradeMultipleChoice(key, maxScore, answer.SelectedOptions)
	case TrueFalseStructuredKey:
		return gradeTrueFalseStructured(key, maxScore, answer.SelectedOptions)
	case TrueFalseSimpleKey:
		return gradeTrueFalseSimple(key, maxScore, answer.SelectedOptions)
	case ShortAnswerKey:
		return gradeShortAnswer(key, maxScore, answer.AnswerText)
	case EssayKey:
		return pendingManual()
	default:
		// A question without a usable key cannot be auto-scored.
		return pendingManual()
	}
}

// ResolveMaxScore picks the answer snapshot, then the exam question's weight, then 1.
func ResolveMaxScore(answer *Answer, eq *ExamQuestion) float64 {
	if answer != nil && answer.MaxScore > 0 {
		return answer.MaxScore
	}
	if eq != nil && eq.MaxScore > 0 {
		return eq.MaxScore
	}
	return 1
}

func gradeMultipleChoice(key MultipleChoiceKey, maxScore float64, sel Selection) GradeOutcome {
	picked, ok := "", false
	if len(sel.Options) > 0 {
		picked, ok = sel.Options[0], true
	}
	if ok && strings.EqualFold(strings.TrimSpace(picked), strings.TrimSpace(key.Correct)) {
		return GradeOutcome{Score: maxScore, IsAutoGraded: true, Feedback: FeedbackCorrect}
	}
	return GradeOutcome{
		Score:        0,
		IsAutoGraded: true,
		Feedback:     fmt.Sprintf("Incorrect. Correct answer is %s.", key.Correct),
	}
}

func gradeTrueFalseStructured(key TrueFalseStructuredKey, maxScore float64, sel Selection) GradeOutcome {
	total := len(key.Correct)
	if total == 0 {
		return GradeOutcome{Score: 0, IsAutoGraded: true, Feedback: FeedbackIncorrect}
	}

	matching := 0
	for id, want := range key.Correct {
		raw, present := sel.Statements[id]
		if !present {
			continue
		}
		if got, ok := ParseBoolLike(raw); ok && got == want {
			matching++
		}
	}

	out := GradeOutcome{
		Score:        float64(matching) / float64(total) * maxScore,
		IsAutoGraded: true,
	}
	switch {
	case matching == total:
		out.Feedback = FeedbackAllCorrect
	case matching > 0:
		out.Feedback = fmt.Sprintf("Partially correct. %d/%d options correct.", matching, total)
	default:
		out.Feedback = FeedbackIncorrect
	}
	return out
}

func gradeTrueFalseSimple(key TrueFalseSimpleKey, maxScore float64, sel Selection) GradeOutcome {
	raw, ok := sel.First()
	if ok {
		if got, parsed := ParseBoolLike(raw); parsed && got == key.Correct {
			return GradeOutcome{Score: maxScore, IsAutoGraded: true, Feedback: FeedbackCorrect}
		}
	}
	return GradeOutcome{Score: 0, IsAutoGraded: true, Feedback: FeedbackIncorrect}
}

func gradeShortAnswer(key ShortAnswerKey, maxScore float64, text string) GradeOutcome {
	if normalizeText(text) == normalizeText(key.Correct) {
		return GradeOutcome{Score: maxScore, IsAutoGraded: true, Feedback: FeedbackCorrect}
	}
	return pendingManual()
}

func pendingManual() GradeOutcome {
	return GradeOutcome{Score: 0, NeedsManualGrading: true, Feedback: FeedbackPendingManual}
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
