package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidContent = errors.New("invalid content")
	ErrNoLesson       = errors.New("lesson not found")
)

// Question is a single multiple-choice quiz item. CorrectIndex points into Options.
type Question struct {
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
}

type Example struct {
	Title     string `json:"title" yaml:"title"`
	Body      string `json:"body" yaml:"body"`
	Rationale string `json:"rationale" yaml:"rationale"`
}

// Lesson holds trusted markup rendered as-is on the landing page.
type Lesson struct {
	Title     string   `json:"title" yaml:"title"`
	HTML      string   `json:"html" yaml:"html"`
	Checklist []string `json:"checklist,omitempty" yaml:"checklist,omitempty"`
}

type Content struct {
	Lesson    Lesson     `json:"lesson" yaml:"lesson"`
	Examples  []Example  `json:"examples" yaml:"examples"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate checks the bounds the grader and renderer rely on.
func Validate(c Content) error {
	if strings.TrimSpace(c.Lesson.HTML) == "" {
		return fmt.Errorf("%w: lesson html is required", ErrInvalidContent)
	}
	for i, ex := range c.Examples {
		if strings.TrimSpace(ex.Title) == "" || strings.TrimSpace(ex.Body) == "" || strings.TrimSpace(ex.Rationale) == "" {
			return fmt.Errorf("%w: example %d needs title, body and rationale", ErrInvalidContent, i)
		}
	}
	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidContent)
	}
	for i, q := range c.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("%w: question %d has empty prompt", ErrInvalidContent, i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidContent, i)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct_index %d out of range", ErrInvalidContent, i, q.CorrectIndex)
		}
	}
	return nil
}

func cloneContent(c Content) Content {
	out := Content{
		Lesson: Lesson{
			Title:     c.Lesson.Title,
			HTML:      c.Lesson.HTML,
			Checklist: append([]string(nil), c.Lesson.Checklist...),
		},
		Examples:  append([]Example(nil), c.Examples...),
		Questions: make([]Question, len(c.Questions)),
	}
	for i, q := range c.Questions {
		out.Questions[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q Question) Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
