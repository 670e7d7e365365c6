package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"learnhub/backend/models"
)

const (
	cacheKeyCourses = "learnhub:courses:all"
)

// CourseService serves the read-only catalog plus course authoring. The
// catalog is safely shared across readers, so list and detail reads go
// through the cache when one is configured.
type CourseService struct {
	store CourseStore
	cache *Cache
	gen   *ContentGenerator
	log   *log.Logger
}

func NewCourseService(store CourseStore, cache *Cache, gen *ContentGenerator, logger *log.Logger) *CourseService {
	return &CourseService{store: store, cache: cache, gen: gen, log: logger}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if s.cache.GetJSON(ctx, cacheKeyCourses, &courses) {
		return courses, nil
	}
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	s.cache.SetJSON(ctx, cacheKeyCourses, courses)
	return courses, nil
}

func (s *CourseService) ListByCategory(ctx context.Context, category string) ([]models.Course, error) {
	if category == "" || category == "All" {
		return s.List(ctx)
	}
	courses, err := s.store.ListCoursesByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("listing courses by category: %w", err)
	}
	return courses, nil
}

func (s *CourseService) Search(ctx context.Context, query string) ([]models.Course, error) {
	if query == "" {
		return s.List(ctx)
	}
	courses, err := s.store.SearchCourses(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching courses: %w", err)
	}
	return courses, nil
}

func (s *CourseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	key := fmt.Sprintf("learnhub:courses:%d", id)
	var cached models.Course
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading course: %w", err)
	}
	if course == nil {
		return nil, nil
	}
	s.cache.SetJSON(ctx, key, course)
	return course, nil
}

// Categories never fails: on a store error the list degrades to the
// "All" sentinel alone.
func (s *CourseService) Categories(ctx context.Context) []string {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		s.log.Printf("listing categories: %v", err)
		return []string{"All"}
	}
	seen := make(map[string]bool)
	for _, course := range courses {
		if course.Category != "" {
			seen[course.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return append([]string{"All"}, categories...)
}

// GetLesson walks the course's module tree. Returns the lesson and its
// owning module title, or nil when the course or lesson is absent.
func (s *CourseService) GetLesson(ctx context.Context, courseID uint, lessonID string) (*models.Lesson, string, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, "", err
	}
	if course == nil {
		return nil, "", nil
	}
	modules, err := course.ModuleTree()
	if err != nil {
		return nil, "", fmt.Errorf("decoding course %d modules: %w", course.ID, err)
	}
	lesson, _, _, moduleTitle := FindLesson(modules, lessonID)
	if lesson == nil {
		return nil, "", nil
	}
	return lesson, moduleTitle, nil
}

// CourseInput is the authoring payload for a new course.
type CourseInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Instructor  string                `json:"instructor"`
	Category    string                `json:"category"`
	Difficulty  string                `json:"difficulty"`
	Duration    int                   `json:"duration"`
	Modules     []models.CourseModule `json:"modules"`
}

// Create stores a new course. Content generation is best-effort: when the
// function fails the course is still created with the supplied fields and
// an empty module tree.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*models.Course, error) {
	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Instructor:  input.Instructor,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
		Duration:    input.Duration,
	}

	modules := input.Modules
	if s.gen != nil {
		generated, err := s.gen.GenerateCourseContent(ctx, input.Title, input.Description)
		if err != nil {
			s.log.Printf("content generation failed, creating course without generated content: %v", err)
		} else {
			course.Thumbnail = generated.Thumbnail
			if len(generated.Modules) > 0 {
				modules = generated.Modules
			}
		}
	}
	if err := course.SetModuleTree(modules); err != nil {
		return nil, err
	}

	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	s.cache.Delete(ctx, cacheKeyCourses)
	return course, nil
}
