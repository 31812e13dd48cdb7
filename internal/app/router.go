package app

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"phishaware/internal/app/apiresp"
	"phishaware/internal/app/observability"
	"phishaware/internal/content"
	"phishaware/internal/db"
	"phishaware/internal/quiz"
	"phishaware/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the lesson, examples and quiz pages plus the JSON and ops endpoints.
// dbConn may be nil when content does not come from Postgres.
func NewRouter(cfg Config, store *content.Store, dbConn *sql.DB) (http.Handler, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	reject := func(w http.ResponseWriter, r *http.Request, status int, msg string) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiresp.WriteError(w, r, status, msg)
			return
		}
		renderer.Error(w, status, msg)
	}

	collector := observability.NewCollector(dbConn)
	quizHandler := quiz.NewHandler(store, renderer, quiz.HandlerConfig{
		Observer:  collector,
		CSRFToken: CSRFToken,
	})
	limiter := NewIPRateLimiter(cfg.QuizRateLimitPerMin, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(collector.Middleware)
	r.Use(recoverer(reject))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		reject(w, r, http.StatusNotFound, "The page you requested does not exist.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		reject(w, r, http.StatusMethodNotAllowed, "")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbConn != nil {
			if err := db.Ping(r.Context(), dbConn, 2*time.Second); err != nil {
				log.Printf("readiness: %v", err)
				apiresp.WriteError(w, r, http.StatusServiceUnavailable, "content database unavailable")
				return
			}
		}
		apiresp.WriteOK(w, r, http.StatusOK, map[string]int{"questions": store.QuestionCount()})
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Group(func(pages chi.Router) {
		pages.Use(middleware.RequestSize(quiz.MaxSubmissionBytes))
		pages.Use(CSRFMiddleware(cfg.CSRFEnforced, reject))

		pages.Get("/", quizHandler.Lesson)
		pages.Get("/examples", quizHandler.Examples)
		pages.Get("/quiz", quizHandler.QuizForm)

		pages.Route("/api/v1", func(api chi.Router) {
			api.Get("/quiz", quizHandler.APIQuestions)
			api.Get("/quiz/{index}", quizHandler.APIQuestion)
			api.Get("/examples", quizHandler.APIExamples)
			api.With(RateLimitMiddleware(limiter, reject)).Post("/quiz/grade", quizHandler.APIGrade)
		})

		pages.With(RateLimitMiddleware(limiter, reject)).Post("/quiz", quizHandler.SubmitQuiz)
	})

	return r, nil
}

// recoverer follows chi's middleware.Recoverer but answers with the generic error page
// (or JSON error under /api/) instead of a bare 500.
func recoverer(reject rejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log.Printf("request_id=%s panic: %v\n%s", middleware.GetReqID(r.Context()), rvr, debug.Stack())
				reject(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
