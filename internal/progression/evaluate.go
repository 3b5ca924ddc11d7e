package progression

import "strings"

// FuzzyThreshold is the token-overlap fraction above which a free-text answer
// counts as correct. Tuned against generated content; keep in sync with the
// frontend feedback copy.
const FuzzyThreshold = 0.7

const punctuation = `.,!?;:'"`

// Result of evaluating one submission against one question.
type Result struct {
	Correct bool `json:"correct"`
	// Graded is false when the question had nothing to grade (theory content,
	// malformed content). Callers should log ungraded passes on graded step
	// types so content bugs surface.
	Graded bool `json:"graded"`
	// PairResults reports per-pair correctness for matching questions so the
	// UI can reveal which pairs were right even when the step as a whole
	// failed.
	PairResults map[string]bool `json:"pairResults,omitempty"`
}

func autoPass() Result { return Result{Correct: true} }

// Normalize lowercases, trims, strips sentence punctuation and collapses
// whitespace runs. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Evaluate grades a submission against single-question step content. Theory
// and unrecognized content always pass. Multi-question content is graded one
// question at a time via EvaluateQuestion.
func Evaluate(c *StepContent, sub Submission) Result {
	if c == nil {
		return autoPass()
	}
	return EvaluateQuestion(c.QuestionAt(0), sub)
}

// EvaluateQuestion grades one question. A submission whose shape does not
// match the question's discriminator is incorrect, never an error; malformed
// question content is an ungraded pass.
func EvaluateQuestion(q Question, sub Submission) Result {
	switch q.Type {
	case TypeMultipleChoice:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return autoPass()
		}
		return Result{Correct: matchChoice(q.CorrectAnswer, sub.Text), Graded: true}
	case TypeFillInBlank, TypeFillBlank, TypeTextEntry, TypeMixed:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return autoPass()
		}
		return Result{Correct: matchText(q.CorrectAnswer, sub.Text), Graded: true}
	case TypeTrueFalse:
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return autoPass()
		}
		return Result{Correct: matchTrueFalse(q.CorrectAnswer, sub.Text), Graded: true}
	case TypeMatching:
		if len(q.Pairs) == 0 {
			return autoPass()
		}
		return matchPairs(q.Pairs, sub.Pairs)
	case TypeOrdering:
		if len(q.CorrectOrder) == 0 {
			return autoPass()
		}
		return Result{Correct: matchOrder(q.CorrectOrder, sub.Order), Graded: true}
	default:
		// THEORY and anything the grader does not recognize.
		return autoPass()
	}
}

// matchChoice tolerates both raw option text and legacy lettered formats
// ("A) Paris" vs "A" vs "Paris") coming out of the content generator.
func matchChoice(correct, submitted string) bool {
	c := strings.TrimSpace(correct)
	s := strings.TrimSpace(submitted)
	if s == "" {
		return false
	}
	if strings.EqualFold(c, s) {
		return true
	}
	// Submitted the letter, answer stored as "A) ..." or "A. ...".
	if strings.HasPrefix(c, s+")") || strings.HasPrefix(c, s+".") {
		return true
	}
	// Submitted the lettered form, answer stored as the letter.
	if i := strings.IndexByte(s, ')'); i > 0 && strings.EqualFold(strings.TrimSpace(s[:i]), c) {
		return true
	}
	// Answer stored lettered, submitted the option text after the delimiter.
	if i := strings.IndexByte(c, ')'); i > 0 && strings.EqualFold(strings.TrimSpace(c[i+1:]), s) {
		return true
	}
	return false
}

func matchText(correct, submitted string) bool {
	c := Normalize(correct)
	s := Normalize(submitted)
	if s == "" {
		return false
	}
	if c == s {
		return true
	}
	return tokenOverlap(c, s) >= FuzzyThreshold
}

// tokenOverlap returns the fraction of the correct answer's distinct
// significant tokens (length > 2) also present in the submission.
func tokenOverlap(correct, submitted string) float64 {
	have := make(map[string]bool)
	for _, t := range strings.Fields(submitted) {
		if len(t) > 2 {
			have[t] = true
		}
	}
	want := make(map[string]bool)
	for _, t := range strings.Fields(correct) {
		if len(t) > 2 {
			want[t] = true
		}
	}
	if len(want) == 0 {
		return 0
	}
	var hit int
	for t := range want {
		if have[t] {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

func matchTrueFalse(correct, submitted string) bool {
	c := expandBool(Normalize(correct))
	s := expandBool(Normalize(submitted))
	return s != "" && c == s
}

func expandBool(s string) string {
	switch s {
	case "t":
		return "true"
	case "f":
		return "false"
	}
	return s
}

// matchPairs is all-or-nothing for the step result but reports each pair
// individually.
func matchPairs(pairs []Pair, submitted map[string]string) Result {
	res := Result{Correct: true, Graded: true, PairResults: make(map[string]bool, len(pairs))}
	for _, p := range pairs {
		ok := submitted != nil && submitted[p.Left] == p.Right
		res.PairResults[p.Left] = ok
		if !ok {
			res.Correct = false
		}
	}
	return res
}

func matchOrder(correct, submitted []string) bool {
	if len(submitted) != len(correct) {
		return false
	}
	for i := range correct {
		if submitted[i] != correct[i] {
			return false
		}
	}
	return true
}

// PassPercentage converts a correct count over a total into the 0-100 scale
// step passing scores use.
func PassPercentage(correct, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(correct) / float64(total) * 100
}
