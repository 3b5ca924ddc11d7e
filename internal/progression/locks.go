package progression

// LessonState is the navigation view of one lesson: completed lessons form a
// contiguous prefix, exactly one lesson is active, the rest are locked.
type LessonState struct {
	LessonID     uint   `json:"lessonId"`
	LessonNumber int    `json:"lessonNumber"`
	Title        string `json:"title"`
	Completed    bool   `json:"completed"`
	Active       bool   `json:"active"`
	Locked       bool   `json:"locked"`
}

// ResolveLocks derives the navigable lesson set from a snapshot. Selecting a
// locked lesson is a no-op for callers; they should only offer non-locked
// entries.
func ResolveLocks(m *ModuleDef, p Progress) []LessonState {
	p = Clamp(m, p)
	states := make([]LessonState, len(m.Lessons))
	for i, lesson := range m.Lessons {
		states[i] = LessonState{
			LessonID:     lesson.ID,
			LessonNumber: lesson.Number,
			Title:        lesson.Title,
			Completed:    i < p.CurrentLesson-1,
			Active:       i == p.CurrentLesson-1,
			Locked:       i > p.CurrentLesson-1,
		}
	}
	return states
}
