package services

import "log"

// Services bundles the wired service layer for route setup.
type Services struct {
	Courses     *CourseService
	Enrollments *EnrollmentService
	Quizzes     QuizStore
	Gen         *ContentGenerator
}

func New(store Store, cache *Cache, gen *ContentGenerator, logger *log.Logger) *Services {
	return &Services{
		Courses:     NewCourseService(store, cache, gen, logger),
		Enrollments: NewEnrollmentService(store),
		Quizzes:     store,
		Gen:         gen,
	}
}
