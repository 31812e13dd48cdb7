package quiz

import "phishaware/internal/content"

// NoAnswer is shown for questions that were skipped or answered with an unusable value.
const NoAnswer = "No answer"

// Submission maps question index to the chosen option index. A missing key means no answer.
type Submission map[int]int

type Result struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type ScoreReport struct {
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Grade scores sub against questions in order. It has no side effects and never panics.
func Grade(questions []content.Question, sub Submission) ScoreReport {
	report := ScoreReport{
		Total:   len(questions),
		Results: make([]Result, 0, len(questions)),
	}

	for i, q := range questions {
		res := Result{
			Question:      q.Prompt,
			YourAnswer:    NoAnswer,
			CorrectAnswer: optionText(q.Options, q.CorrectIndex),
		}

		chosen, ok := sub[i]
		if ok && inRange(q.Options, chosen) {
			res.YourAnswer = q.Options[chosen]
			res.IsCorrect = chosen == q.CorrectIndex
		}
		if res.IsCorrect {
			report.Score++
		}
		report.Results = append(report.Results, res)
	}

	return report
}

func inRange(options []string, idx int) bool {
	return idx >= 0 && idx < len(options)
}

func optionText(options []string, idx int) string {
	if !inRange(options, idx) {
		return ""
	}
	return options[idx]
}
