package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentsController struct {
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Cfg         *config.Config
}

func NewEnrollmentsController(courses *services.CourseService, enrollments *services.EnrollmentService, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{Courses: courses, Enrollments: enrollments, Cfg: cfg}
}

func (ec *EnrollmentsController) GetEnrollments(c *fiber.Ctx) error {
	enrollments, err := ec.Enrollments.List(c.Context())
	if err != nil {
		return utils.InternalServerError(c, "Could not query enrollments")
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := fiber.Map{
			"id":                   enrollment.ID,
			"course_id":            enrollment.CourseID,
			"enrolled_date":        enrollment.EnrolledDate,
			"progress":             enrollment.Progress,
			"completed_lessons":    enrollment.CompletedLessons,
			"last_accessed_lesson": enrollment.LastAccessedLesson,
		}
		if id, err := strconv.Atoi(enrollment.CourseID); err == nil {
			if course, err := ec.Courses.GetByID(c.Context(), uint(id)); err == nil && course != nil {
				entry["course_title"] = course.Title
				entry["course_thumbnail"] = course.Thumbnail
			}
		}
		result = append(result, entry)
	}

	return c.JSON(result)
}

func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	var input struct {
		CourseID uint `json:"course_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course, err := ec.Courses.GetByID(c.Context(), input.CourseID)
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

	courseID := strconv.Itoa(int(course.ID))
	enrollment, err := ec.Enrollments.Create(c.Context(), courseID, services.FirstLessonID(modules))
	if err != nil {
		if errors.Is(err, services.ErrAlreadyEnrolled) {
			return utils.Conflict(c, "Already enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not create enrollment")
	}

	return utils.Created(c, enrollment)
}

func (ec *EnrollmentsController) CompleteLesson(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	lessonID := c.Params("lessonId")

	id, err := strconv.Atoi(courseID)
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := ec.Courses.GetByID(c.Context(), uint(id))
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

	lesson, moduleIndex, lessonIndex, _ := services.FindLesson(modules, lessonID)
	if lesson == nil {
		return utils.NotFound(c, "Lesson not found")
	}

	enrollment, err := ec.Enrollments.GetByCourse(c.Context(), courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query enrollment")
	}
	if enrollment == nil {
		return utils.NotFound(c, "Not enrolled in this course")
	}

	// The UI never offers a locked lesson, but re-check here: this is a
	// service boundary, not a component tree.
	locked, err := services.IsLessonLocked(modules, enrollment.CompletedLessons, moduleIndex, lessonIndex)
	if err != nil {
		return utils.InternalServerError(c, "Invalid course curriculum")
	}
	if locked {
		return utils.Forbidden(c, "Lesson is locked")
	}

	updated, err := ec.Enrollments.MarkLessonComplete(c.Context(), courseID, lessonID, services.TotalLessons(modules))
	if err != nil {
		if errors.Is(err, services.ErrNoEnrollment) {
			return utils.NotFound(c, "Not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not save progress")
	}

	return c.JSON(fiber.Map{
		"message":    "Progress updated",
		"enrollment": updated,
	})
}

func (ec *EnrollmentsController) GetNotes(c *fiber.Ctx) error {
	notes, err := ec.Enrollments.ListNotes(c.Context(), c.Params("courseId"), c.Params("lessonId"))
	if err != nil {
		return utils.InternalServerError(c, "Could not query notes")
	}
	return c.JSON(notes)
}

func (ec *EnrollmentsController) AddNote(c *fiber.Ctx) error {
	var input struct {
		Text      string `json:"text"`
		Timestamp int    `json:"timestamp"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Text == "" {
		return utils.BadRequest(c, "Note text is required")
	}

	note, err := ec.Enrollments.AddNote(c.Context(), c.Params("courseId"), c.Params("lessonId"), input.Text, input.Timestamp)
	if err != nil {
		if errors.Is(err, services.ErrNoEnrollment) {
			return utils.NotFound(c, "Not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not save note")
	}

	return utils.Created(c, note)
}

func (ec *EnrollmentsController) DeleteNote(c *fiber.Ctx) error {
	noteID, err := strconv.Atoi(c.Params("noteId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid note ID")
	}

	err = ec.Enrollments.DeleteNote(c.Context(), c.Params("courseId"), c.Params("lessonId"), noteID)
	if err != nil {
		if errors.Is(err, services.ErrNoEnrollment) {
			return utils.NotFound(c, "Not enrolled in this course")
		}
		if errors.Is(err, services.ErrNoteNotFound) {
			return utils.NotFound(c, "Note not found")
		}
		return utils.InternalServerError(c, "Could not delete note")
	}

	return c.JSON(fiber.Map{
		"message": "Note deleted",
	})
}
