package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"phishaware/internal/content"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const (
	pageLesson   = "lesson"
	pageExamples = "examples"
	pageQuiz     = "quiz"
	pageResults  = "results"
	pageError    = "error"
)

type LessonPage struct {
	Lesson content.Lesson
	// Body is the lesson markup, trusted because it comes from the content store.
	Body template.HTML
}

type ExamplesPage struct {
	Examples []content.Example
}

type QuizOption struct {
	Value int
	Text  string
}

type QuizQuestion struct {
	Number  int
	Field   string
	Prompt  string
	Options []QuizOption
}

type QuizPage struct {
	Questions []QuizQuestion
	CSRFToken string
}

type ResultItem struct {
	Number        int
	Question      string
	YourAnswer    string
	CorrectAnswer string
	IsCorrect     bool
}

type ResultsPage struct {
	Score      int
	Total      int
	Items      []ResultItem
	AttemptRef string
}

type ErrorPage struct {
	Status     int
	StatusText string
	Message    string
}

// Renderer executes the embedded page templates. It is safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	return NewFromFS(embeddedTemplates, "templates")
}

// NewFromFS parses base.html plus one file per page from dir in fsys.
func NewFromFS(fsys fs.FS, dir string) (*Renderer, error) {
	base, err := template.ParseFS(fsys, dir+"/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLesson, pageExamples, pageQuiz, pageResults, pageError} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", name, err)
		}
		if _, err := t.ParseFS(fsys, dir+"/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// NewLessonPage marks the lesson markup as trusted HTML.
func NewLessonPage(l content.Lesson) LessonPage {
	return LessonPage{Lesson: l, Body: template.HTML(l.HTML)}
}

// NewQuizPage numbers questions from 1 and names each radio group by its index.
func NewQuizPage(questions []content.Question, fieldName func(int) string) QuizPage {
	page := QuizPage{Questions: make([]QuizQuestion, 0, len(questions))}
	for i, q := range questions {
		item := QuizQuestion{
			Number:  i + 1,
			Field:   fieldName(i),
			Prompt:  q.Prompt,
			Options: make([]QuizOption, 0, len(q.Options)),
		}
		for j, opt := range q.Options {
			item.Options = append(item.Options, QuizOption{Value: j, Text: opt})
		}
		page.Questions = append(page.Questions, item)
	}
	return page
}

func (r *Renderer) Lesson(w http.ResponseWriter, data LessonPage) error {
	return r.render(w, http.StatusOK, pageLesson, data)
}

func (r *Renderer) Examples(w http.ResponseWriter, data ExamplesPage) error {
	return r.render(w, http.StatusOK, pageExamples, data)
}

func (r *Renderer) Quiz(w http.ResponseWriter, data QuizPage) error {
	return r.render(w, http.StatusOK, pageQuiz, data)
}

func (r *Renderer) Results(w http.ResponseWriter, data ResultsPage) error {
	return r.render(w, http.StatusOK, pageResults, data)
}

// Error writes the generic error page, falling back to plain text if it cannot render.
func (r *Renderer) Error(w http.ResponseWriter, status int, msg string) {
	data := ErrorPage{Status: status, StatusText: http.StatusText(status), Message: msg}
	if data.Message == "" {
		data.Message = data.StatusText
	}
	if err := r.render(w, status, pageError, data); err != nil {
		log.Printf("render error page: %v", err)
		http.Error(w, data.Message, status)
	}
}

func (r *Renderer) render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
