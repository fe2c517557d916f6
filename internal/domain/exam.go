package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ExamMode is the delivery mode of an exam.
type ExamMode string

const (
	ExamModePractice       ExamMode = "practice"
	ExamModePracticeTest   ExamMode = "practice_test"
	ExamModePracticeGlobal ExamMode = "practice_global"
	ExamModeContest        ExamMode = "contest"
)

// QuestionType determines how an answer is graded.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeEssay          QuestionType = "essay"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer, QuestionTypeEssay:
		return true
	}
	return false
}

// Exam is the definition a submission is taken against. This service only reads it.
type Exam struct {
	ID               string
	Title            string
	Description      string
	Subject          string
	DurationMinutes  int
	Mode             ExamMode
	ShuffleQuestions bool
	TotalQuestions   int
	TotalPoints      float64
	IsPublished      bool
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Question is a question-bank entry with its correct-answer definition.
type Question struct {
	ID          string
	Type        QuestionType
	Content     string
	Options     []string
	Key         AnswerKey
	Explanation string
	Points      float64
}

// ExamQuestion binds a Question to an Exam with an order and a per-exam max score.
type ExamQuestion struct {
	ID         string
	ExamID     string
	QuestionID string
	Order      int
	MaxScore   float64
	Section    string
	Question   *Question
}

// TotalMaxScore sums the per-exam max score of every question.
func TotalMaxScore(questions []*ExamQuestion) float64 {
	var total float64
	for _, eq := range questions {
		total += eq.MaxScore
	}
	return total
}

// FindExamQuestion returns the exam question for questionID, or nil.
func FindExamQuestion(questions []*ExamQuestion, questionID string) *ExamQuestion {
	for _, eq := range questions {
		if eq.QuestionID == questionID {
			return eq
		}
	}
	return nil
}

// ExamAssignment binds an exam to a class for a time window.
type ExamAssignment struct {
	ID                  string
	ExamID              string
	ClassID             string
	StartTime           time.Time
	EndTime             time.Time
	MaxAttempts         int
	AllowLateSubmission bool
	ShuffleQuestions    bool
	CreatedAt           time.Time
}

// AnswerKey is the correct-answer definition of a question. The concrete
// types below are the only implementations.
type AnswerKey interface {
	QuestionType() QuestionType
	isAnswerKey()
}

type MultipleChoiceKey struct {
	Correct string
}

// TrueFalseStructuredKey holds one expected value per sub-statement id.
type TrueFalseStructuredKey struct {
	Correct map[string]bool
}

type TrueFalseSimpleKey struct {
	Correct bool
}

type ShortAnswerKey struct {
	Correct string
}

type EssayKey struct{}

func (MultipleChoiceKey) QuestionType() QuestionType      { return QuestionTypeMultipleChoice }
func (TrueFalseStructuredKey) QuestionType() QuestionType { return QuestionTypeTrueFalse }
func (TrueFalseSimpleKey) QuestionType() QuestionType     { return QuestionTypeTrueFalse }
func (ShortAnswerKey) QuestionType() QuestionType         { return QuestionTypeShortAnswer }
func (EssayKey) QuestionType() QuestionType               { return QuestionTypeEssay }

func (MultipleChoiceKey) isAnswerKey()      {}
func (TrueFalseStructuredKey) isAnswerKey() {}
func (TrueFalseSimpleKey) isAnswerKey()     {}
func (ShortAnswerKey) isAnswerKey()         {}
func (EssayKey) isAnswerKey()               {}

// DecodeAnswerKey parses a stored correct-answer payload for the given question type.
func DecodeAnswerKey(qType QuestionType, raw []byte) (AnswerKey, error) {
	if qType == QuestionTypeEssay {
		return EssayKey{}, nil
	}
	var v interface{}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode correct answer for %s: %w", qType, err)
		}
	}

	switch qType {
	case QuestionTypeMultipleChoice:
		return MultipleChoiceKey{Correct: scalarString(v)}, nil
	case QuestionTypeShortAnswer:
		return ShortAnswerKey{Correct: scalarString(v)}, nil
	case QuestionTypeTrueFalse:
		if m, ok := v.(map[string]interface{}); ok {
			correct := make(map[string]bool, len(m))
			for id, val := range m {
				b, ok := ParseBoolLike(scalarString(val))
				if !ok {
					return nil, fmt.Errorf("decode correct answer for %s: statement %q is not boolean", qType, id)
				}
				correct[id] = b
			}
			return TrueFalseStructuredKey{Correct: correct}, nil
		}
		b, ok := ParseBoolLike(scalarString(v))
		if !ok {
			return nil, fmt.Errorf("decode correct answer for %s: %v is not boolean", qType, v)
		}
		return TrueFalseSimpleKey{Correct: b}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", qType)
	}
}

// EncodeAnswerKey renders key in the same JSON shape DecodeAnswerKey accepts.
func EncodeAnswerKey(key AnswerKey) (json.RawMessage, error) {
	switch k := key.(type) {
	case MultipleChoiceKey:
		return json.Marshal(k.Correct)
	case ShortAnswerKey:
		return json.Marshal(k.Correct)
	case TrueFalseSimpleKey:
		return json.Marshal(k.Correct)
	case TrueFalseStructuredKey:
		return json.Marshal(k.Correct)
	case EssayKey:
		return json.RawMessage("null"), nil
	case nil:
		return json.RawMessage("null"), nil
	default:
		return nil, fmt.Errorf("unsupported answer key %T", key)
	}
}

// ParseBoolLike accepts true/false, t/f and 1/0 in any case.
func ParseBoolLike(s string) (bool, bool) {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return false, false
	}
	return b, true
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// SortedStatementIDs returns the keys of m in lexical order.
func SortedStatementIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
