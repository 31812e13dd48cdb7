package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phishaware/internal/app"
)

func TestRunReturnsContentError(t *testing.T) {
	t.Setenv("CONTENT_DSN", "")
	t.Setenv("CONTENT_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	err := run()
	if err == nil || !strings.Contains(err.Error(), "content error") {
		t.Fatalf("expected content error, got %v", err)
	}
}

func TestLoadContentSources(t *testing.T) {
	store, dbConn, err := loadContent(context.Background(), app.Config{})
	if err != nil || dbConn != nil {
		t.Fatalf("default content: err=%v db=%v", err, dbConn)
	}
	if store.QuestionCount() != 3 {
		t.Fatalf("expected built-in 3 questions, got %d", store.QuestionCount())
	}

	path := filepath.Join(t.TempDir(), "course.yaml")
	course := "lesson:\n  title: Course\n  html: \"<p>hi</p>\"\nquestions:\n  - prompt: Q\n    options: [a, b]\n    correct_index: 1\n"
	if err := os.WriteFile(path, []byte(course), 0o600); err != nil {
		t.Fatalf("write course: %v", err)
	}
	store, _, err = loadContent(context.Background(), app.Config{ContentFile: path})
	if err != nil {
		t.Fatalf("file content: %v", err)
	}
	if store.QuestionCount() != 1 {
		t.Fatalf("expected 1 question from file, got %d", store.QuestionCount())
	}
}
