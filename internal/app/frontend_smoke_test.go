package app

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"phishaware/internal/content"
	"phishaware/internal/quiz"
)

func newTestRouter(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	store, err := content.NewStore(content.Default())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if cfg.QuizRateLimitPerMin == 0 {
		cfg.QuizRateLimitPerMin = 60
	}
	router, err := NewRouter(cfg, store, nil)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router
}

func TestFrontendSmokePublicRoutes(t *testing.T) {
	router := newTestRouter(t, Config{})

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "lesson", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: "What is Phishing?"},
		{name: "examples", method: http.MethodGet, target: "/examples", wantStatus: http.StatusOK, wantBody: "Why this is suspicious"},
		{name: "quiz_form", method: http.MethodGet, target: "/quiz", wantStatus: http.StatusOK, wantBody: `name="q0"`},
		{name: "quiz_submit_empty", method: http.MethodPost, target: "/quiz", wantStatus: http.StatusOK, wantBody: "Score: 0 / 3"},
		{name: "healthz", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "readyz_without_db", method: http.MethodGet, target: "/readyz", wantStatus: http.StatusOK, wantBody: `"questions":3`},
		{name: "metrics", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK, wantBody: "phishaware_uptime_seconds"},
		{name: "api_questions", method: http.MethodGet, target: "/api/v1/quiz", wantStatus: http.StatusOK, wantBody: `"ok":true`},
		{name: "api_question", method: http.MethodGet, target: "/api/v1/quiz/1", wantStatus: http.StatusOK, wantBody: `"field":"q1"`},
		{name: "api_question_missing", method: http.MethodGet, target: "/api/v1/quiz/7", wantStatus: http.StatusNotFound, wantBody: `"code":"not_found"`},
		{name: "api_examples", method: http.MethodGet, target: "/api/v1/examples", wantStatus: http.StatusOK, wantBody: "Fake bank alert"},
		{name: "api_grade_empty", method: http.MethodPost, target: "/api/v1/quiz/grade", wantStatus: http.StatusOK, wantBody: `"total":3`},
		{name: "not_found_page", method: http.MethodGet, target: "/nope", wantStatus: http.StatusNotFound, wantBody: "404 Not Found"},
		{name: "api_not_found_json", method: http.MethodGet, target: "/api/v1/nope", wantStatus: http.StatusNotFound, wantBody: `"code":"not_found"`},
		{name: "method_not_allowed", method: http.MethodDelete, target: "/quiz", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("%s %s: got status %d, want %d", tc.method, tc.target, w.Code, tc.wantStatus)
			}
			if tc.wantBody != "" && !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Fatalf("%s %s: body missing %q", tc.method, tc.target, tc.wantBody)
			}
		})
	}
}

func TestQuizSubmitShowsPerQuestionResults(t *testing.T) {
	router := newTestRouter(t, Config{})
	questions := content.Default().Questions

	form := url.Values{"q0": {"2"}, "q1": {"1"}, "q2": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Score: 2 / 3") {
		t.Fatalf("expected score 2/3")
	}
	if strings.Count(body, `class="correct"`) != 2 || strings.Count(body, `class="wrong"`) != 1 {
		t.Fatalf("expected two correct and one wrong result")
	}
	wantYour := "Your answer: " + template.HTMLEscapeString(questions[2].Options[3])
	if !strings.Contains(body, wantYour) {
		t.Fatalf("expected %q in results", wantYour)
	}
	wantCorrect := "Correct answer: " + template.HTMLEscapeString(questions[2].Options[0])
	if !strings.Contains(body, wantCorrect) {
		t.Fatalf("expected %q in results", wantCorrect)
	}
}

func TestCSRFEnforcedQuizFlow(t *testing.T) {
	router := newTestRouter(t, Config{CSRFEnforced: true})

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/quiz", nil))
	cookies := get.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected csrf cookie from quiz form, got %d cookies", len(cookies))
	}
	token := cookies[0].Value
	if !strings.Contains(get.Body.String(), `value="`+token+`"`) {
		t.Fatalf("expected token embedded in form")
	}

	post := func(withToken bool) int {
		form := url.Values{"q0": {"2"}}
		if withToken {
			form.Set(csrfFormField, token)
		}
		req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(false); code != http.StatusForbidden {
		t.Fatalf("expected 403 without token, got %d", code)
	}
	if code := post(true); code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", code)
	}
}

func TestCSRFEnforcedFormBodyIsCapped(t *testing.T) {
	router := newTestRouter(t, Config{CSRFEnforced: true})

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/quiz", nil))
	cookies := get.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected csrf cookie, got %d cookies", len(cookies))
	}

	form := url.Values{csrfFormField: {cookies[0].Value}, "q0": {"2"}}
	body := form.Encode() + "&pad=" + strings.Repeat("a", quiz.MaxSubmissionBytes)
	req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("oversized form must not be parsed for the csrf token, got %d", w.Code)
	}
}

func TestQuizSubmitRateLimited(t *testing.T) {
	router := newTestRouter(t, Config{QuizRateLimitPerMin: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/quiz", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %v", codes)
	}
}

func TestRecovererWritesErrorPage(t *testing.T) {
	var gotStatus int
	h := recoverer(func(w http.ResponseWriter, r *http.Request, status int, msg string) {
		gotStatus = status
		w.WriteHeader(status)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if gotStatus != http.StatusInternalServerError || w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got reject=%d code=%d", gotStatus, w.Code)
	}
}
