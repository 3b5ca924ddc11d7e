package progression

import "testing"

func lockModule(n int) *ModuleDef {
	m := &ModuleDef{ID: 7, MaxLives: 3}
	for i := 0; i < n; i++ {
		m.Lessons = append(m.Lessons, LessonDef{
			ID:     uint(200 + i),
			Number: i + 1,
			Steps:  []StepDef{{Number: 1, Type: StepTheory}},
		})
	}
	return m
}

func TestResolveLocks_ExactlyOneActive(t *testing.T) {
	m := lockModule(4)
	for lesson := 1; lesson <= 4; lesson++ {
		states := ResolveLocks(m, Progress{CurrentLesson: lesson, CurrentStep: 1})
		var active int
		for i, s := range states {
			if s.Active {
				active++
			}
			wantCompleted := i < lesson-1
			wantLocked := i > lesson-1
			if s.Completed != wantCompleted || s.Locked != wantLocked {
				t.Fatalf("currentLesson=%d idx=%d: %+v", lesson, i, s)
			}
		}
		if active != 1 {
			t.Fatalf("currentLesson=%d: %d active lessons, want 1", lesson, active)
		}
	}
}

func TestResolveLocks_CompletedPrefixContiguous(t *testing.T) {
	m := lockModule(5)
	states := ResolveLocks(m, Progress{CurrentLesson: 3, CurrentStep: 1})
	seenIncomplete := false
	for i, s := range states {
		if s.Completed && seenIncomplete {
			t.Fatalf("completed lesson %d after an incomplete one", i)
		}
		if !s.Completed {
			seenIncomplete = true
		}
	}
}

func TestResolveLocks_ClampsStalePosition(t *testing.T) {
	m := lockModule(2)
	states := ResolveLocks(m, Progress{CurrentLesson: 10, CurrentStep: 10})
	if !states[1].Active {
		t.Fatalf("stale position must clamp to the last lesson: %+v", states)
	}
}
