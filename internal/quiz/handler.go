package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"phishaware/internal/app/apiresp"
	"phishaware/internal/content"
	"phishaware/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// MaxSubmissionBytes caps quiz submission bodies on both the form and JSON endpoints.
const MaxSubmissionBytes = 64 << 10

type contentSource interface {
	Lesson() content.Lesson
	Examples() []content.Example
	Questions() []content.Question
	Question(i int) (content.Question, bool)
}

type pageRenderer interface {
	Lesson(w http.ResponseWriter, data view.LessonPage) error
	Examples(w http.ResponseWriter, data view.ExamplesPage) error
	Quiz(w http.ResponseWriter, data view.QuizPage) error
	Results(w http.ResponseWriter, data view.ResultsPage) error
	Error(w http.ResponseWriter, status int, msg string)
}

// ScoreObserver receives every graded submission.
type ScoreObserver interface {
	ObserveScore(score, total int)
}

type HandlerConfig struct {
	Observer ScoreObserver
	// CSRFToken returns the token to embed in the quiz form, or "" when not enforced.
	CSRFToken func(r *http.Request) string
	// NewAttemptRef overrides the attempt reference generator.
	NewAttemptRef func() string
}

type Handler struct {
	store    contentSource
	view     pageRenderer
	observer ScoreObserver
	csrf     func(r *http.Request) string
	newRef   func() string
}

type publicQuestion struct {
	Index   int      `json:"index"`
	Field   string   `json:"field"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type gradeResponse struct {
	AttemptRef string `json:"attempt_ref"`
	ScoreReport
}

func NewHandler(store contentSource, renderer pageRenderer, cfg HandlerConfig) *Handler {
	h := &Handler{
		store:    store,
		view:     renderer,
		observer: cfg.Observer,
		csrf:     cfg.CSRFToken,
		newRef:   cfg.NewAttemptRef,
	}
	if h.csrf == nil {
		h.csrf = func(*http.Request) string { return "" }
	}
	if h.newRef == nil {
		h.newRef = uuid.NewString
	}
	return h
}

func (h *Handler) Lesson(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Lesson(w, view.NewLessonPage(h.store.Lesson())); err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handler) Examples(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Examples(w, view.ExamplesPage{Examples: h.store.Examples()}); err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handler) QuizForm(w http.ResponseWriter, r *http.Request) {
	page := view.NewQuizPage(h.store.Questions(), FieldName)
	page.CSRFToken = h.csrf(r)
	if err := h.view.Quiz(w, page); err != nil {
		h.fail(w, r, err)
	}
}

// SubmitQuiz grades the posted form. Unreadable bodies grade as an empty submission.
func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxSubmissionBytes)
	if err := r.ParseForm(); err != nil {
		log.Printf("parse quiz form: %v", err)
	}

	questions := h.store.Questions()
	report := Grade(questions, ParseForm(r.PostForm, len(questions)))
	ref := h.record(r, report)

	if err := h.view.Results(w, resultsPage(report, ref)); err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handler) APIQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.store.Questions()
	out := make([]publicQuestion, 0, len(questions))
	for i, q := range questions {
		out = append(out, publicQuestion{Index: i, Field: FieldName(i), Prompt: q.Prompt, Options: q.Options})
	}
	apiresp.WriteOK(w, r, http.StatusOK, out)
}

func (h *Handler) APIQuestion(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		return
	}
	q, ok := h.store.Question(i)
	if !ok {
		apiresp.WriteError(w, r, http.StatusNotFound, "question not found")
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, publicQuestion{Index: i, Field: FieldName(i), Prompt: q.Prompt, Options: q.Options})
}

func (h *Handler) APIExamples(w http.ResponseWriter, r *http.Request) {
	apiresp.WriteOK(w, r, http.StatusOK, h.store.Examples())
}

func (h *Handler) APIGrade(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSubmissionBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiresp.WriteError(w, r, http.StatusRequestEntityTooLarge, "submission too large")
			return
		}
		log.Printf("read quiz submission: %v", err)
	}

	report := Grade(h.store.Questions(), ParseJSON(raw))
	ref := h.record(r, report)
	apiresp.WriteOK(w, r, http.StatusOK, gradeResponse{AttemptRef: ref, ScoreReport: report})
}

func (h *Handler) record(r *http.Request, report ScoreReport) string {
	ref := h.newRef()
	if h.observer != nil {
		h.observer.ObserveScore(report.Score, report.Total)
	}
	entry := map[string]any{
		"event":       "quiz_graded",
		"request_id":  middleware.GetReqID(r.Context()),
		"attempt_ref": ref,
		"score":       report.Score,
		"total":       report.Total,
	}
	b, _ := json.Marshal(entry)
	log.Printf("%s", string(b))
	return ref
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("request_id=%s %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	h.view.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

func resultsPage(report ScoreReport, ref string) view.ResultsPage {
	page := view.ResultsPage{
		Score:      report.Score,
		Total:      report.Total,
		Items:      make([]view.ResultItem, 0, len(report.Results)),
		AttemptRef: ref,
	}
	for i, res := range report.Results {
		page.Items = append(page.Items, view.ResultItem{
			Number:        i + 1,
			Question:      res.Question,
			YourAnswer:    res.YourAnswer,
			CorrectAnswer: res.CorrectAnswer,
			IsCorrect:     res.IsCorrect,
		})
	}
	return page
}
