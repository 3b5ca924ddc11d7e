package service

import (
	"testing"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/progression"
)

func TestSessionLockEviction(t *testing.T) {
	s := NewStudySessionService(nil, nil, nil, nil)

	mu := s.lockFor(3, 9)
	if s.lockFor(3, 9) != mu {
		t.Fatalf("same student and module must share one lock")
	}
	if s.lockFor(4, 9) == mu {
		t.Fatalf("different students must not share a lock")
	}

	s.evictIdleLocks(time.Hour)
	if n := len(s.locks); n != 2 {
		t.Fatalf("fresh locks evicted: %d left, want 2", n)
	}

	mu.Lock()
	s.evictIdleLocks(0)
	if _, ok := s.locks["3:9"]; !ok {
		t.Fatalf("held lock must survive eviction")
	}
	mu.Unlock()

	s.evictIdleLocks(0)
	if n := len(s.locks); n != 0 {
		t.Fatalf("idle locks not evicted: %d left", n)
	}
}

func TestStripQuestionShufflesOrdering(t *testing.T) {
	// The correct order here is alphabetical, the degenerate case a plain
	// sort would present pre-solved.
	q := progression.Question{
		Type:         progression.TypeOrdering,
		CorrectOrder: []string{"alpha", "beta", "delta", "gamma"},
	}
	first := stripQuestion(q)
	second := stripQuestion(q)

	if len(first.Items) != len(q.CorrectOrder) {
		t.Fatalf("items = %v, want %d entries", first.Items, len(q.CorrectOrder))
	}
	seen := make(map[string]int)
	for _, it := range first.Items {
		seen[it]++
	}
	for _, it := range q.CorrectOrder {
		if seen[it] != 1 {
			t.Fatalf("items lost or duplicated: %v", first.Items)
		}
	}

	same := true
	for i := range first.Items {
		if first.Items[i] != q.CorrectOrder[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("answer order presented unshuffled: %v", first.Items)
	}

	for i := range first.Items {
		if first.Items[i] != second.Items[i] {
			t.Fatalf("arrangement must be stable across reloads: %v vs %v", first.Items, second.Items)
		}
	}
}
