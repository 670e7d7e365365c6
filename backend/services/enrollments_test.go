package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newEnrollmentService() (*EnrollmentService, *MemoryStore) {
	store := NewMemoryStore()
	return NewEnrollmentService(store), store
}

func TestCreateEnrollment(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	data, err := svc.Create(ctx, "1", "l1")
	assert.NoError(t, err)
	assert.Equal(t, "1", data.CourseID)
	assert.Equal(t, 0, data.Progress)
	assert.Empty(t, data.CompletedLessons)
	assert.Empty(t, data.QuizScores)
	assert.Empty(t, data.LessonNotes)
	assert.Equal(t, "l1", data.LastAccessedLesson)
	assert.NotEmpty(t, data.EnrolledDate)

	// At most one enrollment per course
	_, err = svc.Create(ctx, "1", "l1")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestMarkLessonCompleteProgress(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "1", "l1")
	assert.NoError(t, err)

	const totalLessons = 5

	data, err := svc.MarkLessonComplete(ctx, "1", "l1", totalLessons)
	assert.NoError(t, err)
	assert.Equal(t, 20, data.Progress)

	svc.MarkLessonComplete(ctx, "1", "l2", totalLessons)
	data, err = svc.MarkLessonComplete(ctx, "1", "l3", totalLessons)
	assert.NoError(t, err)
	assert.Equal(t, 60, data.Progress)
	assert.Equal(t, "l3", data.LastAccessedLesson)

	data, err = svc.MarkLessonComplete(ctx, "1", "l4", totalLessons)
	assert.NoError(t, err)
	assert.Equal(t, 80, data.Progress)

	data, err = svc.MarkLessonComplete(ctx, "1", "l5", totalLessons)
	assert.NoError(t, err)
	assert.Equal(t, 100, data.Progress)
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	svc.Create(ctx, "1", "l1")

	first, err := svc.MarkLessonComplete(ctx, "1", "l1", 5)
	assert.NoError(t, err)
	again, err := svc.MarkLessonComplete(ctx, "1", "l1", 5)
	assert.NoError(t, err)

	assert.Equal(t, first.Progress, again.Progress)
	assert.Equal(t, []string{"l1"}, again.CompletedLessons)
}

func TestMarkLessonCompleteRequiresEnrollment(t *testing.T) {
	svc, _ := newEnrollmentService()

	_, err := svc.MarkLessonComplete(context.Background(), "9", "l1", 5)
	assert.ErrorIs(t, err, ErrNoEnrollment)
}

func TestRecordQuizScoreOverwrites(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	svc.Create(ctx, "1", "l1")

	data, err := svc.RecordQuizScore(ctx, "1", "l5", 50)
	assert.NoError(t, err)
	assert.Equal(t, 50, data.QuizScores["l5"])
	assert.Equal(t, 0, data.Progress)

	// Only the most recent submission is kept
	data, err = svc.RecordQuizScore(ctx, "1", "l5", 100)
	assert.NoError(t, err)
	assert.Equal(t, 100, data.QuizScores["l5"])
	assert.Len(t, data.QuizScores, 1)
}

func TestNotesLifecycle(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	svc.Create(ctx, "1", "l1")

	first, err := svc.AddNote(ctx, "1", "l1", "first", 10)
	assert.NoError(t, err)
	second, err := svc.AddNote(ctx, "1", "l1", "second", 20)
	assert.NoError(t, err)
	third, err := svc.AddNote(ctx, "1", "l1", "third", 30)
	assert.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 3, third.ID)

	// Deleting the middle note keeps the surviving ids
	err = svc.DeleteNote(ctx, "1", "l1", second.ID)
	assert.NoError(t, err)

	notes, err := svc.ListNotes(ctx, "1", "l1")
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, 1, notes[0].ID)
	assert.Equal(t, 3, notes[1].ID)

	// The next id continues from the surviving max
	fourth, err := svc.AddNote(ctx, "1", "l1", "fourth", 40)
	assert.NoError(t, err)
	assert.Equal(t, 4, fourth.ID)
}

func TestNotesErrors(t *testing.T) {
	svc, _ := newEnrollmentService()
	ctx := context.Background()

	_, err := svc.AddNote(ctx, "9", "l1", "text", 0)
	assert.ErrorIs(t, err, ErrNoEnrollment)

	svc.Create(ctx, "1", "l1")

	err = svc.DeleteNote(ctx, "1", "l1", 42)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// No notes is an empty list, not an error
	notes, err := svc.ListNotes(ctx, "1", "l1")
	assert.NoError(t, err)
	assert.Empty(t, notes)
}

func TestEnrollmentBlobRoundTrip(t *testing.T) {
	svc, store := newEnrollmentService()
	ctx := context.Background()

	svc.Create(ctx, "1", "l1")
	svc.MarkLessonComplete(ctx, "1", "l1", 5)
	svc.RecordQuizScore(ctx, "1", "l5", 75)
	svc.AddNote(ctx, "1", "l1", "remember this", 90)

	// Everything above went through encode; read the raw record back and
	// decode it again
	record, err := store.GetEnrollmentByCourse(ctx, "1")
	assert.NoError(t, err)
	assert.NotNil(t, record)

	data, err := record.Decode()
	assert.NoError(t, err)
	assert.Equal(t, []string{"l1"}, data.CompletedLessons)
	assert.Equal(t, map[string]int{"l5": 75}, data.QuizScores)
	assert.Equal(t, 20, data.Progress)
	assert.Len(t, data.LessonNotes["l1"], 1)
	assert.Equal(t, "remember this", data.LessonNotes["l1"][0].Text)
	assert.Equal(t, 90, data.LessonNotes["l1"][0].Timestamp)
}

func TestGetByCourseAbsent(t *testing.T) {
	svc, _ := newEnrollmentService()

	data, err := svc.GetByCourse(context.Background(), "404")
	assert.NoError(t, err)
	assert.Nil(t, data)
}
