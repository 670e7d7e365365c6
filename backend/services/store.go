package services

import (
	"context"
	"errors"

	"learnhub/backend/models"

	"gorm.io/gorm"
)

// Store boundaries. Reads return (nil, nil) for legitimately absent
// records; an error always means the store itself failed.

type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListCoursesByCategory(ctx context.Context, category string) ([]models.Course, error)
	SearchCourses(ctx context.Context, query string) ([]models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
}

type QuizStore interface {
	GetQuizByLesson(ctx context.Context, lessonID string) (*models.Quiz, error)
}

type EnrollmentStore interface {
	ListEnrollments(ctx context.Context) ([]models.Enrollment, error)
	GetEnrollmentByCourse(ctx context.Context, courseID string) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
}

type Store interface {
	CourseStore
	QuizStore
	EnrollmentStore
}

// GormStore is the authoritative Store backed by Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GormStore) ListCoursesByCategory(ctx context.Context, category string) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GormStore) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	pattern := "%" + query + "%"
	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("title ILIKE ? OR description ILIKE ? OR instructor ILIKE ? OR category ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("id").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GormStore) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.db.WithContext(ctx).Create(course).Error
}

func (s *GormStore) GetQuizByLesson(ctx context.Context, lessonID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *GormStore) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := s.db.WithContext(ctx).Order("id").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (s *GormStore) GetEnrollmentByCourse(ctx context.Context, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.WithContext(ctx).Where("course_id = ?", courseID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

func (s *GormStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return s.db.WithContext(ctx).Create(enrollment).Error
}

func (s *GormStore) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return s.db.WithContext(ctx).Save(enrollment).Error
}
