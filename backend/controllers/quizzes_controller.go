package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type QuizzesController struct {
	Quizzes     services.QuizStore
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Cfg         *config.Config
}

func NewQuizzesController(quizzes services.QuizStore, courses *services.CourseService, enrollments *services.EnrollmentService, cfg *config.Config) *QuizzesController {
	return &QuizzesController{Quizzes: quizzes, Courses: courses, Enrollments: enrollments, Cfg: cfg}
}

func (qc *QuizzesController) GetQuiz(c *fiber.Ctx) error {
	quiz, err := qc.Quizzes.GetQuizByLesson(c.Context(), c.Params("lessonId"))
	if err != nil {
		return utils.InternalServerError(c, "Could not query quizzes")
	}
	if quiz == nil {
		return utils.NotFound(c, "Quiz not found")
	}

	data, err := quiz.Decode()
	if err != nil {
		return utils.InternalServerError(c, "Invalid quiz data")
	}

	// Answers are graded server side, so correct indexes and explanations
	// stay out of this payload.
	questions := make([]fiber.Map, 0, len(data.Questions))
	for _, question := range data.Questions {
		questions = append(questions, fiber.Map{
			"id":      question.ID,
			"text":    question.Text,
			"options": question.Options,
		})
	}

	return c.JSON(fiber.Map{
		"id":              data.ID,
		"lesson_id":       data.LessonID,
		"passing_score":   data.PassingScore,
		"total_questions": len(data.Questions),
		"questions":       questions,
	})
}

func (qc *QuizzesController) SubmitQuiz(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var input struct {
		CourseID uint   `json:"course_id"`
		Answers  []*int `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	quiz, err := qc.Quizzes.GetQuizByLesson(c.Context(), lessonID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query quizzes")
	}
	if quiz == nil {
		return utils.NotFound(c, "Quiz not found")
	}

	data, err := quiz.Decode()
	if err != nil {
		return utils.InternalServerError(c, "Invalid quiz data")
	}

	answers, err := services.CheckComplete(input.Answers, len(data.Questions))
	if err != nil {
		return utils.BadRequest(c, "All questions must be answered")
	}

	result, err := services.Grade(data, answers)
	if err != nil {
		return utils.InternalServerError(c, "Could not grade quiz")
	}

	courseID := strconv.Itoa(int(input.CourseID))

	// Record the score first, then advance completion on a pass. Both
	// mutations touch the same record; they must run one after the other.
	enrollment, err := qc.Enrollments.RecordQuizScore(c.Context(), courseID, lessonID, result.Score)
	if err != nil {
		if errors.Is(err, services.ErrNoEnrollment) {
			return utils.NotFound(c, "Not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not save quiz score")
	}

	if result.Passed {
		course, err := qc.Courses.GetByID(c.Context(), input.CourseID)
		if err != nil {
			return utils.InternalServerError(c, "Could not query courses")
		}
		if course == nil {
			return utils.NotFound(c, "Course not found")
		}
		modules, err := course.ModuleTree()
		if err != nil {
			return utils.InternalServerError(c, "Invalid course curriculum")
		}
		enrollment, err = qc.Enrollments.MarkLessonComplete(c.Context(), courseID, lessonID, services.TotalLessons(modules))
		if err != nil {
			return utils.InternalServerError(c, "Could not save progress")
		}
	}

	return c.JSON(fiber.Map{
		"result":     result,
		"enrollment": enrollment,
	})
}
