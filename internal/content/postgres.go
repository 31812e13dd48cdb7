package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Schema is the read-only layout LoadPostgres expects.
const Schema = `
CREATE TABLE IF NOT EXISTS lessons (
	id        BIGSERIAL PRIMARY KEY,
	title     TEXT NOT NULL,
	body_html TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS lesson_checklist (
	lesson_id BIGINT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
	seq_no    INT NOT NULL,
	item      TEXT NOT NULL,
	PRIMARY KEY (lesson_id, seq_no)
);
CREATE TABLE IF NOT EXISTS examples (
	seq_no    INT PRIMARY KEY,
	title     TEXT NOT NULL,
	body      TEXT NOT NULL,
	rationale TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS questions (
	seq_no        INT PRIMARY KEY,
	prompt        TEXT NOT NULL,
	correct_index INT NOT NULL
);
CREATE TABLE IF NOT EXISTS question_options (
	question_seq_no INT NOT NULL REFERENCES questions(seq_no) ON DELETE CASCADE,
	option_no       INT NOT NULL,
	option_text     TEXT NOT NULL,
	PRIMARY KEY (question_seq_no, option_no)
);
`

// LoadPostgres reads the first lesson, all examples and all questions ordered by seq_no.
func LoadPostgres(ctx context.Context, q Queryer) (Content, error) {
	var c Content

	var lessonID int64
	err := q.QueryRowContext(ctx, `
		SELECT id, title, body_html
		FROM lessons
		ORDER BY id ASC
		LIMIT 1
	`).Scan(&lessonID, &c.Lesson.Title, &c.Lesson.HTML)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Content{}, ErrNoLesson
		}
		return Content{}, fmt.Errorf("load lesson: %w", err)
	}

	checklist, err := loadChecklist(ctx, q, lessonID)
	if err != nil {
		return Content{}, err
	}
	c.Lesson.Checklist = checklist

	examples, err := loadExamples(ctx, q)
	if err != nil {
		return Content{}, err
	}
	c.Examples = examples

	questions, err := loadQuestions(ctx, q)
	if err != nil {
		return Content{}, err
	}
	c.Questions = questions

	if err := Validate(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

func loadChecklist(ctx context.Context, q Queryer, lessonID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT item
		FROM lesson_checklist
		WHERE lesson_id = $1
		ORDER BY seq_no ASC
	`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("query checklist: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist: %w", err)
	}
	return out, nil
}

func loadExamples(ctx context.Context, q Queryer) ([]Example, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT title, body, rationale
		FROM examples
		ORDER BY seq_no ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query examples: %w", err)
	}
	defer rows.Close()

	var out []Example
	for rows.Next() {
		var ex Example
		if err := rows.Scan(&ex.Title, &ex.Body, &ex.Rationale); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate examples: %w", err)
	}
	return out, nil
}

func loadQuestions(ctx context.Context, q Queryer) ([]Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			q.prompt,
			q.correct_index,
			COALESCE(json_agg(o.option_text ORDER BY o.option_no) FILTER (WHERE o.option_no IS NOT NULL), '[]'::json)
		FROM questions q
		LEFT JOIN question_options o ON o.question_seq_no = q.seq_no
		GROUP BY q.seq_no, q.prompt, q.correct_index
		ORDER BY q.seq_no ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var (
			item    Question
			options []byte
		)
		if err := rows.Scan(&item.Prompt, &item.CorrectIndex, &options); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &item.Options); err != nil {
			return nil, fmt.Errorf("decode question options: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
