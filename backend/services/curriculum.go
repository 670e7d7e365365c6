package services

import (
	"errors"

	"learnhub/backend/models"
)

var ErrInvalidCurriculum = errors.New("invalid curriculum")

// IsLessonLocked reports whether the lesson at (moduleIndex, lessonIndex)
// is still gated by the completion history. Unlocking is strictly linear:
// every lesson of every earlier module must be complete, and within the
// current module the immediately preceding lesson must be complete. The
// first lesson of the first module is never locked.
func IsLessonLocked(modules []models.CourseModule, completed []string, moduleIndex, lessonIndex int) (bool, error) {
	if modules == nil || moduleIndex < 0 || moduleIndex >= len(modules) {
		return false, ErrInvalidCurriculum
	}
	if lessonIndex < 0 || lessonIndex >= len(modules[moduleIndex].Lessons) {
		return false, ErrInvalidCurriculum
	}
	if moduleIndex == 0 && lessonIndex == 0 {
		return false, nil
	}

	done := completedSet(completed)

	// A module with no lessons is vacuously complete and blocks nothing.
	for i := 0; i < moduleIndex; i++ {
		for _, lesson := range modules[i].Lessons {
			if !done[lesson.ID] {
				return true, nil
			}
		}
	}

	if lessonIndex > 0 {
		prev := modules[moduleIndex].Lessons[lessonIndex-1]
		return !done[prev.ID], nil
	}

	return false, nil
}

// LockStates evaluates the gate for every lesson in the course, keyed by
// lesson id. Lock state is derived, never stored.
func LockStates(modules []models.CourseModule, completed []string) (map[string]bool, error) {
	states := make(map[string]bool)
	for mi, module := range modules {
		for li, lesson := range module.Lessons {
			locked, err := IsLessonLocked(modules, completed, mi, li)
			if err != nil {
				return nil, err
			}
			states[lesson.ID] = locked
		}
	}
	return states, nil
}

// TotalLessons counts lessons across all modules. This is the
// authoritative denominator for the progress percentage.
func TotalLessons(modules []models.CourseModule) int {
	total := 0
	for _, module := range modules {
		total += len(module.Lessons)
	}
	return total
}

// FirstLessonID returns the id of the first lesson in curriculum order,
// or "" for a course with no lessons.
func FirstLessonID(modules []models.CourseModule) string {
	for _, module := range modules {
		if len(module.Lessons) > 0 {
			return module.Lessons[0].ID
		}
	}
	return ""
}

// FindLesson locates a lesson by id and returns it with its position and
// owning module title.
func FindLesson(modules []models.CourseModule, lessonID string) (lesson *models.Lesson, moduleIndex, lessonIndex int, moduleTitle string) {
	for mi := range modules {
		for li := range modules[mi].Lessons {
			if modules[mi].Lessons[li].ID == lessonID {
				return &modules[mi].Lessons[li], mi, li, modules[mi].Title
			}
		}
	}
	return nil, -1, -1, ""
}

func completedSet(completed []string) map[string]bool {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	return done
}
