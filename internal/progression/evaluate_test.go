package progression

import (
	"encoding/json"
	"testing"
)

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  The Mitochondria, is the POWERHOUSE of the cell!  ",
		"already normal",
		"",
		"punct.,!?;:'\"only",
		"a    lot\t of   space",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestEvaluate_MultipleChoiceFormats(t *testing.T) {
	cases := []struct {
		name      string
		correct   string
		submitted string
		want      bool
	}{
		{"exact", "4", "4", true},
		{"exact with spaces", "Paris", "  Paris ", true},
		{"case-insensitive option text", "Paris", "paris", true},
		{"letter against lettered answer paren", "A) Paris", "A", true},
		{"letter against lettered answer dot", "B. Lyon", "B", true},
		{"lettered submission against letter", "A", "A) Paris", true},
		{"option text against lettered answer", "A) Paris", "Paris", true},
		{"wrong option", "A) Paris", "B", false},
		{"empty submission", "4", "", false},
		{"wrong text", "Paris", "London", false},
	}
	for _, tc := range cases {
		c := &StepContent{Type: TypeMultipleChoice, CorrectAnswer: tc.correct}
		got := Evaluate(c, Submission{Text: tc.submitted})
		if got.Correct != tc.want {
			t.Errorf("%s: Evaluate(%q, %q) = %v, want %v", tc.name, tc.correct, tc.submitted, got.Correct, tc.want)
		}
	}
}

func TestEvaluate_FillBlankExactAndFuzzy(t *testing.T) {
	correct := "The mitochondria is the powerhouse of the cell"
	c := &StepContent{Type: TypeFillInBlank, CorrectAnswer: correct}

	// Exact answer always passes.
	if got := Evaluate(c, Submission{Text: correct}); !got.Correct {
		t.Fatalf("exact answer must evaluate correct")
	}
	// Punctuation and case do not matter.
	if got := Evaluate(c, Submission{Text: "the MITOCHONDRIA is the powerhouse, of the cell."}); !got.Correct {
		t.Fatalf("normalized-equal answer must evaluate correct")
	}
	// Significant-token overlap above the threshold passes.
	if got := Evaluate(c, Submission{Text: "mitochondria powerhouse cell"}); !got.Correct {
		t.Fatalf("token-overlap answer must evaluate correct")
	}
	// Zero shared significant tokens always fails.
	if got := Evaluate(c, Submission{Text: "quantum entanglement"}); got.Correct {
		t.Fatalf("disjoint answer must evaluate incorrect")
	}
	if got := Evaluate(c, Submission{Text: ""}); got.Correct {
		t.Fatalf("empty answer must evaluate incorrect")
	}
}

func TestTokenOverlap_ShortTokensIgnored(t *testing.T) {
	// "is", "of", "a" are all <= 2 chars and must not count either way.
	got := tokenOverlap(Normalize("is of a"), Normalize("completely different"))
	if got != 0 {
		t.Fatalf("overlap of insignificant-only answer = %v, want 0", got)
	}
}

func TestEvaluate_TrueFalse(t *testing.T) {
	c := &StepContent{Type: TypeTrueFalse, CorrectAnswer: "True"}
	for _, sub := range []string{"true", "TRUE", " t ", "T."} {
		if got := Evaluate(c, Submission{Text: sub}); !got.Correct {
			t.Errorf("submission %q should match True", sub)
		}
	}
	for _, sub := range []string{"false", "f", "", "yes"} {
		if got := Evaluate(c, Submission{Text: sub}); got.Correct {
			t.Errorf("submission %q should not match True", sub)
		}
	}
}

func TestEvaluate_MatchingReportsPairs(t *testing.T) {
	// One right pair, one wrong pair -> step incorrect, pair A
	// still reported correct.
	c := &StepContent{Type: TypeMatching, Pairs: []Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}}}
	got := Evaluate(c, Submission{Pairs: map[string]string{"A": "1", "B": "3"}})
	if got.Correct {
		t.Fatalf("partial match must be incorrect overall")
	}
	if !got.PairResults["A"] || got.PairResults["B"] {
		t.Fatalf("pair results wrong: %v", got.PairResults)
	}

	got = Evaluate(c, Submission{Pairs: map[string]string{"A": "1", "B": "2"}})
	if !got.Correct {
		t.Fatalf("full match must be correct")
	}
}

func TestEvaluate_Ordering(t *testing.T) {
	c := &StepContent{Type: TypeOrdering, CorrectOrder: []string{"a", "b", "c"}}
	if got := Evaluate(c, Submission{Order: []string{"a", "b", "c"}}); !got.Correct {
		t.Fatalf("exact order must be correct")
	}
	if got := Evaluate(c, Submission{Order: []string{"a", "c", "b"}}); got.Correct {
		t.Fatalf("swapped order must be incorrect")
	}
	if got := Evaluate(c, Submission{Order: []string{"a", "b"}}); got.Correct {
		t.Fatalf("short order must be incorrect")
	}
}

func TestEvaluate_WrongSubmissionShapeIsIncorrect(t *testing.T) {
	ordering := &StepContent{Type: TypeOrdering, CorrectOrder: []string{"a"}}
	if got := Evaluate(ordering, Submission{Text: "a"}); got.Correct {
		t.Fatalf("text submitted for ordering must be incorrect, not an error")
	}
	matching := &StepContent{Type: TypeMatching, Pairs: []Pair{{Left: "A", Right: "1"}}}
	if got := Evaluate(matching, Submission{Text: "A=1"}); got.Correct {
		t.Fatalf("text submitted for matching must be incorrect")
	}
}

func TestEvaluate_TheoryAndMalformedAutoPass(t *testing.T) {
	cases := []*StepContent{
		{Type: TypeTheory},
		{Type: "unknown_kind"},
		nil,
		{Type: TypeMultipleChoice},                // no correct answer
		{Type: TypeMatching},                      // no pairs
		{Type: TypeOrdering},                      // no order
		{Type: TypeFillInBlank, CorrectAnswer: ""},
	}
	for i, c := range cases {
		got := Evaluate(c, Submission{})
		if !got.Correct {
			t.Errorf("case %d: expected auto-pass", i)
		}
		if got.Graded {
			t.Errorf("case %d: auto-pass must be ungraded", i)
		}
	}
}

func TestParseContent_InvalidJSONFallsBackToTheory(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`{`), json.RawMessage(`{}`)} {
		c := ParseContent(raw)
		if c.Type != TypeTheory {
			t.Fatalf("ParseContent(%q).Type = %q, want theory", raw, c.Type)
		}
	}
	c := ParseContent(json.RawMessage(`{"type":"multiple_choice","correctAnswer":"4","options":["3","4"]}`))
	if c.Type != TypeMultipleChoice || c.CorrectAnswer != "4" {
		t.Fatalf("unexpected content: %+v", c)
	}
}

func TestQuestionAt_MultiAndInline(t *testing.T) {
	c := &StepContent{
		Type: TypeMixed,
		Questions: []Question{
			{Type: TypeMultipleChoice, CorrectAnswer: "a"},
			{Type: TypeTrueFalse, CorrectAnswer: "true"},
		},
	}
	if c.QuestionCount() != 2 {
		t.Fatalf("QuestionCount = %d, want 2", c.QuestionCount())
	}
	if q := c.QuestionAt(1); q.Type != TypeTrueFalse {
		t.Fatalf("QuestionAt(1).Type = %q", q.Type)
	}
	// Out-of-range cursor clamps instead of panicking.
	if q := c.QuestionAt(9); q.Type != TypeTrueFalse {
		t.Fatalf("QuestionAt(9).Type = %q", q.Type)
	}

	inline := &StepContent{Type: TypeMultipleChoice, CorrectAnswer: "x"}
	if inline.QuestionCount() != 1 {
		t.Fatalf("inline QuestionCount = %d, want 1", inline.QuestionCount())
	}
	if q := inline.QuestionAt(0); q.CorrectAnswer != "x" {
		t.Fatalf("inline QuestionAt lost fields: %+v", q)
	}
}

func TestPassPercentage(t *testing.T) {
	if got := PassPercentage(2, 3); got >= 70 {
		t.Fatalf("2/3 = %v, expected below a 70 threshold", got)
	}
	if got := PassPercentage(0, 0); got != 100 {
		t.Fatalf("zero questions must auto-pass, got %v", got)
	}
	if got := PassPercentage(3, 3); got != 100 {
		t.Fatalf("3/3 = %v, want 100", got)
	}
}
