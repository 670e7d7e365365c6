package routes

import (
	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, svc *services.Services, cfg *config.Config) {
	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// Courses routes
	coursesController := controllers.NewCoursesController(svc.Courses, svc.Enrollments, cfg)
	certificatesController := controllers.NewCertificatesController(svc.Courses, svc.Enrollments, svc.Gen, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/categories", coursesController.GetCategories)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/certificate", certificatesController.Download)

	// Enrollment routes
	enrollmentsController := controllers.NewEnrollmentsController(svc.Courses, svc.Enrollments, cfg)
	enrollments := app.Group("/api/enrollments", authMiddleware)
	enrollments.Get("/", enrollmentsController.GetEnrollments)
	enrollments.Post("/", enrollmentsController.Enroll)
	enrollments.Post("/:courseId/lessons/:lessonId/complete", enrollmentsController.CompleteLesson)
	enrollments.Get("/:courseId/lessons/:lessonId/notes", enrollmentsController.GetNotes)
	enrollments.Post("/:courseId/lessons/:lessonId/notes", enrollmentsController.AddNote)
	enrollments.Delete("/:courseId/lessons/:lessonId/notes/:noteId", enrollmentsController.DeleteNote)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(svc.Quizzes, svc.Courses, svc.Enrollments, cfg)
	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Get("/:lessonId/quiz", quizzesController.GetQuiz)
	lessons.Post("/:lessonId/quiz/submit", quizzesController.SubmitQuiz)

	// Admin routes for courses
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
}
