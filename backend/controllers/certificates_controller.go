package controllers

import (
	"fmt"
	"strconv"
	"time"

	"learnhub/backend/config"
	"learnhub/backend/services"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CertificatesController struct {
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Gen         *services.ContentGenerator
	Cfg         *config.Config
}

func NewCertificatesController(courses *services.CourseService, enrollments *services.EnrollmentService, gen *services.ContentGenerator, cfg *config.Config) *CertificatesController {
	return &CertificatesController{Courses: courses, Enrollments: enrollments, Gen: gen, Cfg: cfg}
}

// Download renders the completion certificate. Only an enrollment at
// progress 100 authorizes the request.
func (cc *CertificatesController) Download(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	name := c.Query("name")
	if name == "" {
		return utils.BadRequest(c, "Learner name is required")
	}

	course, err := cc.Courses.GetByID(c.Context(), uint(courseID))
	if err != nil {
		return utils.InternalServerError(c, "Could not query courses")
	}
	if course == nil {
		return utils.NotFound(c, "Course not found")
	}

	enrollment, err := cc.Enrollments.GetByCourse(c.Context(), c.Params("id"))
	if err != nil {
		return utils.InternalServerError(c, "Could not query enrollment")
	}
	if enrollment == nil {
		return utils.NotFound(c, "Not enrolled in this course")
	}
	if enrollment.Progress < 100 {
		return utils.Forbidden(c, "Course is not completed yet")
	}

	certificateID := fmt.Sprintf("CERT-%d-%d-%s", course.ID, enrollment.ID, uuid.NewString())
	pdf, err := cc.Gen.GenerateCertificate(c.Context(), services.CertificateRequest{
		CourseTitle:    course.Title,
		LearnerName:    name,
		CompletionDate: time.Now().UTC().Format("2006-01-02"),
		CertificateID:  certificateID,
	})
	if err != nil {
		return utils.BadGateway(c, "Could not generate certificate")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", certificateID))
	return c.Send(pdf)
}
