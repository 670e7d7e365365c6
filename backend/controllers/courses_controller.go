package controllers

import (
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Cfg         *config.Config
}

func NewCoursesController(courses *services.CourseService, enrollments *services.EnrollmentService, cfg *config.Config) *CoursesController {
	return &CoursesController{Courses: courses, Enrollments: enrollments, Cfg: cfg}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	var (
		courses []models.Course
		err     error
	)

	if search := c.Query("search"); search != "" {
		courses, err = cc.Courses.Search(c.Context(), search)
	} else {
		courses, err = cc.Courses.ListByCategory(c.Context(), c.Query("category"))
	}
	if err != nil {
		// Catalog reads degrade to an empty list rather than failing the page
		return c.JSON([]fiber.Map{})
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		modules, err := course.ModuleTree()
		if err != nil {
			continue
		}
		result = append(result, fiber.Map{
			"id":             course.ID,
			"title":          course.Title,
			"description":    course.Description,
			"instructor":     course.Instructor,
			"thumbnail":      course.Thumbnail,
			"category":       course.Category,
			"difficulty":     course.Difficulty,
			"duration":       course.Duration,
			"enrolled_count": course.EnrolledCount,
			"module_count":   len(modules),
			"lesson_count":   services.TotalLessons(modules),
		})
	}

	return c.JSON(result)
}

func (cc *CoursesController) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": cc.Courses.Categories(c.Context()),
	})
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := cc.Courses.GetByID(c.Context(), uint(courseID))
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

	enrollment, err := cc.Enrollments.GetByCourse(c.Context(), c.Params("id"))
	if err != nil {
		return utils.InternalServerError(c, "Could not query enrollment")
	}

	completed := []string{}
	if enrollment != nil {
		completed = enrollment.CompletedLessons
	}
	locked, err := services.LockStates(modules, completed)
	if err != nil {
		return utils.InternalServerError(c, "Invalid course curriculum")
	}

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":             course.ID,
			"title":          course.Title,
			"description":    course.Description,
			"instructor":     course.Instructor,
			"thumbnail":      course.Thumbnail,
			"category":       course.Category,
			"difficulty":     course.Difficulty,
			"duration":       course.Duration,
			"enrolled_count": course.EnrolledCount,
			"modules":        modules,
		},
		"enrollment": enrollment,
		"locked":     locked,
	})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course, err := cc.Courses.Create(c.Context(), input)
	if err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	modules, _ := course.ModuleTree()
	return utils.Created(c, fiber.Map{
		"id":        course.ID,
		"title":     course.Title,
		"thumbnail": course.Thumbnail,
		"modules":   modules,
	})
}
