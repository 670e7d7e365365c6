package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Course is the catalog record. The module tree is persisted as a JSON
// text blob in the Modules column, matching the record store contract,
// and decoded through ModuleTree before use.
type Course struct {
	gorm.Model
	Title         string
	Description   string
	Instructor    string
	Thumbnail     string
	Category      string
	Difficulty    string // beginner, intermediate, advanced
	Duration      int    // minutes
	EnrolledCount int
	Modules       string // JSON-encoded []CourseModule
}

// CourseModule is an ordered run of lessons. Order is significant: it
// defines the unlock sequence together with lesson order.
type CourseModule struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`     // video or quiz
	Duration int    `json:"duration"` // seconds
	VideoURL string `json:"video_url,omitempty"`
}

// ModuleTree decodes the Modules blob. An empty blob is an empty course,
// not an error.
func (c *Course) ModuleTree() ([]CourseModule, error) {
	if c.Modules == "" {
		return []CourseModule{}, nil
	}
	var modules []CourseModule
	if err := json.Unmarshal([]byte(c.Modules), &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// SetModuleTree re-encodes the module tree onto the record.
func (c *Course) SetModuleTree(modules []CourseModule) error {
	if modules == nil {
		modules = []CourseModule{}
	}
	raw, err := json.Marshal(modules)
	if err != nil {
		return err
	}
	c.Modules = string(raw)
	return nil
}
