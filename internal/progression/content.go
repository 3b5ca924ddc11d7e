package progression

import (
	"encoding/json"
	"strings"
)

// Question type discriminators as produced by the content generator. The
// generator has emitted several aliases for free-text questions over time, so
// all of them are accepted.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeFillInBlank    = "fill_in_blank"
	TypeFillBlank      = "fillBlank"
	TypeTextEntry      = "text_entry"
	TypeMixed          = "mixed"
	TypeTrueFalse      = "true_false"
	TypeMatching       = "matching"
	TypeOrdering       = "ordering"
	TypeTheory         = "theory"
)

// Step types.
const (
	StepTheory         = "THEORY"
	StepPracticeEasy   = "PRACTICE_EASY"
	StepPracticeMedium = "PRACTICE_MEDIUM"
	StepPracticeHard   = "PRACTICE_HARD"
	StepQuiz           = "QUIZ"
	StepReview         = "REVIEW"
	StepChallenge      = "CHALLENGE"
)

type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type Question struct {
	Type          string   `json:"type"`
	Prompt        string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Pairs         []Pair   `json:"pairs,omitempty"`
	CorrectOrder  []string `json:"correctOrder,omitempty"`
}

// StepContent is the decoded content blob of a step. Single-question steps
// carry the answer fields inline; practice and quiz steps carry a questions
// array and a running pass threshold on the step itself.
type StepContent struct {
	Type          string     `json:"type"`
	Text          string     `json:"text,omitempty"`
	Prompt        string     `json:"question,omitempty"`
	Options       []string   `json:"options,omitempty"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
	Pairs         []Pair     `json:"pairs,omitempty"`
	CorrectOrder  []string   `json:"correctOrder,omitempty"`
	Questions     []Question `json:"questions,omitempty"`
}

// ParseContent decodes a step content blob. Empty or invalid JSON yields
// theory content so a content bug never blocks a student.
func ParseContent(raw json.RawMessage) *StepContent {
	if len(raw) == 0 {
		return &StepContent{Type: TypeTheory}
	}
	var c StepContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return &StepContent{Type: TypeTheory}
	}
	if strings.TrimSpace(c.Type) == "" && len(c.Questions) == 0 {
		c.Type = TypeTheory
	}
	return &c
}

// QuestionCount reports how many gradable questions the content carries.
// Single-question content counts as one.
func (c *StepContent) QuestionCount() int {
	if c == nil {
		return 0
	}
	if len(c.Questions) > 0 {
		return len(c.Questions)
	}
	return 1
}

// QuestionAt returns the question the given 0-based cursor points at. For
// single-question content the inline fields are wrapped as a Question.
func (c *StepContent) QuestionAt(idx int) Question {
	if c == nil {
		return Question{Type: TypeTheory}
	}
	if len(c.Questions) > 0 {
		if idx < 0 {
			idx = 0
		}
		if idx >= len(c.Questions) {
			idx = len(c.Questions) - 1
		}
		return c.Questions[idx]
	}
	return Question{
		Type:          c.Type,
		Prompt:        c.Prompt,
		Options:       c.Options,
		CorrectAnswer: c.CorrectAnswer,
		Pairs:         c.Pairs,
		CorrectOrder:  c.CorrectOrder,
	}
}

// Submission is a student's answer to the active question. Exactly one field
// is expected to be set, matching the question's discriminator.
type Submission struct {
	Text  string            `json:"text,omitempty"`
	Pairs map[string]string `json:"pairs,omitempty"`
	Order []string          `json:"order,omitempty"`
}

// ModuleDef is the pure view of a published module the engine operates on,
// mapped from storage by the caller.
type ModuleDef struct {
	ID           uint
	PassingScore int
	LivesEnabled bool
	MaxLives     int
	XPReward     int
	Lessons      []LessonDef
}

type LessonDef struct {
	ID       uint
	Number   int
	Title    string
	XPReward int
	Steps    []StepDef
}

type StepDef struct {
	Number       int
	Type         string
	Title        string
	PassingScore int
	Content      *StepContent
}
