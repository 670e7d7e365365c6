package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/routes"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newTestApp(t *testing.T, certURL string) (*fiber.App, *services.MemoryStore, *config.Config) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "testsecret"}
	store := services.NewMemoryStore()
	gen := services.NewContentGenerator("", certURL)
	svc := services.New(store, nil, gen, utils.InitLogger())

	app := fiber.New()
	routes.SetupRoutes(app, svc, cfg)
	return app, store, cfg
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := utils.GenerateToken("learner", "admin", cfg)
	assert.NoError(t, err)
	return token
}

func learnerToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := utils.GenerateToken("learner", "user", cfg)
	assert.NoError(t, err)
	return token
}

// seedCourse stores a five-lesson course: two videos in module 1, two
// videos plus a final quiz in module 2, with a four-question quiz at
// passing score 75 attached to the last lesson.
func seedCourse(t *testing.T, store *services.MemoryStore) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:      "Go from Scratch",
		Category:   "Programming",
		Instructor: "R. Pike",
		Difficulty: "beginner",
		Duration:   240,
	}
	err := course.SetModuleTree([]models.CourseModule{
		{ID: "m1", Title: "Getting Started", Lessons: []models.Lesson{
			{ID: "l1", Title: "Intro", Type: "video", Duration: 300},
			{ID: "l2", Title: "Setup", Type: "video", Duration: 420},
		}},
		{ID: "m2", Title: "Fundamentals", Lessons: []models.Lesson{
			{ID: "l3", Title: "Types", Type: "video", Duration: 600},
			{ID: "l4", Title: "Functions", Type: "video", Duration: 480},
			{ID: "l5", Title: "Checkpoint", Type: "quiz"},
		}},
	})
	assert.NoError(t, err)
	assert.NoError(t, store.CreateCourse(context.Background(), course))

	quiz := models.Quiz{LessonID: "l5", PassingScore: 75}
	assert.NoError(t, quiz.SetQuestions([]models.Question{
		{ID: "q1", Text: "Q1", Options: []string{"a", "b"}, CorrectAnswer: 0, Explanation: "e1"},
		{ID: "q2", Text: "Q2", Options: []string{"a", "b"}, CorrectAnswer: 1, Explanation: "e2"},
		{ID: "q3", Text: "Q3", Options: []string{"a", "b"}, CorrectAnswer: 0, Explanation: "e3"},
		{ID: "q4", Text: "Q4", Options: []string{"a", "b"}, CorrectAnswer: 1, Explanation: "e4"},
	}))
	store.SeedQuiz(quiz)

	return course
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestRequestsRequireToken(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	resp := doJSON(t, app, "GET", "/api/courses", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetCourses(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)

	resp := doJSON(t, app, "GET", "/api/courses", learnerToken(t, cfg), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result []map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Len(t, result, 1)
	assert.Equal(t, "Go from Scratch", result[0]["title"])
	assert.Equal(t, float64(5), result[0]["lesson_count"])
}

func TestGetCategories(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)

	resp := doJSON(t, app, "GET", "/api/courses/categories", learnerToken(t, cfg), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string][]string
	decodeBody(t, resp, &result)
	assert.Equal(t, []string{"All", "Programming"}, result["categories"])
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	course := seedCourse(t, store)
	token := learnerToken(t, cfg)

	resp := doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEnrollUnknownCourse(t *testing.T) {
	app, _, cfg := newTestApp(t, "")

	resp := doJSON(t, app, "POST", "/api/enrollments", learnerToken(t, cfg), fiber.Map{"course_id": 404})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCompleteLessonHonorsGate(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)
	token := learnerToken(t, cfg)

	doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": 1})

	// l2 is gated behind l1
	resp := doJSON(t, app, "POST", "/api/enrollments/1/lessons/l2/complete", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/enrollments/1/lessons/l1/complete", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Enrollment models.EnrollmentData `json:"enrollment"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, 20, result.Enrollment.Progress)
	assert.Equal(t, "l1", result.Enrollment.LastAccessedLesson)

	resp = doJSON(t, app, "POST", "/api/enrollments/1/lessons/l2/complete", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, 40, result.Enrollment.Progress)
}

func TestQuizPayloadHidesAnswers(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)

	resp := doJSON(t, app, "GET", "/api/lessons/l5/quiz", learnerToken(t, cfg), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	decodeBody(t, resp, &result)
	assert.Equal(t, float64(75), result["passing_score"])
	assert.Equal(t, float64(4), result["total_questions"])

	questions := result["questions"].([]interface{})
	assert.Len(t, questions, 4)
	first := questions[0].(map[string]interface{})
	assert.NotContains(t, first, "correct_answer")
	assert.NotContains(t, first, "explanation")
}

func TestFullCompletionFlow(t *testing.T) {
	certServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer certServer.Close()

	app, store, cfg := newTestApp(t, certServer.URL)
	seedCourse(t, store)
	token := learnerToken(t, cfg)

	doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": 1})
	for _, lesson := range []string{"l1", "l2", "l3"} {
		resp := doJSON(t, app, "POST", "/api/enrollments/1/lessons/"+lesson+"/complete", token, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var result struct {
		Enrollment models.EnrollmentData `json:"enrollment"`
	}
	resp := doJSON(t, app, "POST", "/api/enrollments/1/lessons/l4/complete", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.Equal(t, 80, result.Enrollment.Progress)

	// Certificate is not authorized before progress hits 100
	resp = doJSON(t, app, "GET", "/api/courses/1/certificate?name=Ada+Lovelace", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// A nil answer rejects the submission outright
	one := 1
	resp = doJSON(t, app, "POST", "/api/lessons/l5/quiz/submit", token, fiber.Map{
		"course_id": 1,
		"answers":   []*int{&one, nil, &one, &one},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Passing submission records the score and completes the lesson
	zero := 0
	resp = doJSON(t, app, "POST", "/api/lessons/l5/quiz/submit", token, fiber.Map{
		"course_id": 1,
		"answers":   []*int{&zero, &one, &zero, &one},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submitResult struct {
		Result     services.GradeResult  `json:"result"`
		Enrollment models.EnrollmentData `json:"enrollment"`
	}
	decodeBody(t, resp, &submitResult)
	assert.Equal(t, 100, submitResult.Result.Score)
	assert.True(t, submitResult.Result.Passed)
	assert.Equal(t, 4, submitResult.Result.CorrectCount)
	assert.Equal(t, 100, submitResult.Enrollment.Progress)
	assert.Equal(t, 100, submitResult.Enrollment.QuizScores["l5"])

	// Completion authorizes the certificate download
	resp = doJSON(t, app, "GET", "/api/courses/1/certificate?name=Ada+Lovelace", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestFailedQuizDoesNotAdvanceProgress(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)
	token := learnerToken(t, cfg)

	doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": 1})

	zero, one := 0, 1
	resp := doJSON(t, app, "POST", "/api/lessons/l5/quiz/submit", token, fiber.Map{
		"course_id": 1,
		"answers":   []*int{&one, &zero, &one, &zero},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submitResult struct {
		Result     services.GradeResult  `json:"result"`
		Enrollment models.EnrollmentData `json:"enrollment"`
	}
	decodeBody(t, resp, &submitResult)
	assert.Equal(t, 0, submitResult.Result.Score)
	assert.False(t, submitResult.Result.Passed)
	// The score is recorded but the lesson stays incomplete
	assert.Equal(t, 0, submitResult.Enrollment.QuizScores["l5"])
	assert.Equal(t, 0, submitResult.Enrollment.Progress)
	assert.Empty(t, submitResult.Enrollment.CompletedLessons)
}

func TestNotesEndpoints(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)
	token := learnerToken(t, cfg)

	doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": 1})

	resp := doJSON(t, app, "GET", "/api/enrollments/1/lessons/l1/notes", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var notes []models.Note
	decodeBody(t, resp, &notes)
	assert.Empty(t, notes)

	resp = doJSON(t, app, "POST", "/api/enrollments/1/lessons/l1/notes", token, fiber.Map{
		"text":      "interfaces start here",
		"timestamp": 125,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/enrollments/1/lessons/l1/notes", token, fiber.Map{
		"text":      "rewatch this part",
		"timestamp": 250,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/enrollments/1/lessons/l1/notes", token, nil)
	decodeBody(t, resp, &notes)
	assert.Len(t, notes, 2)
	assert.Equal(t, "interfaces start here", notes[0].Text)
	assert.Equal(t, 125, notes[0].Timestamp)

	resp = doJSON(t, app, "DELETE", "/api/enrollments/1/lessons/l1/notes/1", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/api/enrollments/1/lessons/l1/notes/42", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/enrollments/1/lessons/l1/notes", token, nil)
	decodeBody(t, resp, &notes)
	assert.Len(t, notes, 1)
	assert.Equal(t, 2, notes[0].ID)
}

func TestCreateCourseRequiresAdmin(t *testing.T) {
	app, _, cfg := newTestApp(t, "")

	resp := doJSON(t, app, "POST", "/api/admin/courses", learnerToken(t, cfg), fiber.Map{"title": "New Course"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/admin/courses", adminToken(t, cfg), fiber.Map{"title": "New Course"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/admin/courses", adminToken(t, cfg), fiber.Map{"title": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCourseDetailsIncludeLockStates(t *testing.T) {
	app, store, cfg := newTestApp(t, "")
	seedCourse(t, store)
	token := learnerToken(t, cfg)

	doJSON(t, app, "POST", "/api/enrollments", token, fiber.Map{"course_id": 1})
	doJSON(t, app, "POST", "/api/enrollments/1/lessons/l1/complete", token, nil)

	resp := doJSON(t, app, "GET", "/api/courses/1", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Locked map[string]bool `json:"locked"`
	}
	decodeBody(t, resp, &result)
	assert.False(t, result.Locked["l1"])
	assert.False(t, result.Locked["l2"])
	assert.True(t, result.Locked["l3"])
	assert.True(t, result.Locked["l5"])
}
