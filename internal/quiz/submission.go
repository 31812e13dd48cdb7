package quiz

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FieldName is the form field carrying the answer to question i.
func FieldName(i int) string {
	return "q" + strconv.Itoa(i)
}

// ParseForm reads fields q0..q{n-1}. Blank and non-numeric values are left out of the
// submission; out-of-range integers are kept and graded as no answer.
func ParseForm(values url.Values, n int) Submission {
	sub := make(Submission, n)
	for i := 0; i < n; i++ {
		chosen, ok := parseIndex(values.Get(FieldName(i)))
		if !ok {
			continue
		}
		sub[i] = chosen
	}
	return sub
}

type jsonSubmission struct {
	Answers json.RawMessage `json:"answers"`
}

// ParseJSON accepts {"answers": {"0": 2, "1": "1"}} or {"answers": [2, 1, null]}.
// Unusable entries are dropped; an unreadable body yields an empty submission.
func ParseJSON(raw []byte) Submission {
	sub := Submission{}

	var body jsonSubmission
	if err := json.Unmarshal(raw, &body); err != nil {
		return sub
	}
	answers := bytes.TrimSpace(body.Answers)
	if len(answers) == 0 {
		return sub
	}

	switch answers[0] {
	case '{':
		var byKey map[string]json.RawMessage
		if err := json.Unmarshal(answers, &byKey); err != nil {
			return sub
		}
		for k, v := range byKey {
			idx, ok := parseIndex(k)
			if !ok || idx < 0 {
				continue
			}
			if chosen, ok := parseJSONIndex(v); ok {
				sub[idx] = chosen
			}
		}
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(answers, &list); err != nil {
			return sub
		}
		for idx, v := range list {
			if chosen, ok := parseJSONIndex(v); ok {
				sub[idx] = chosen
			}
		}
	}
	return sub
}

func parseIndex(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseJSONIndex(raw json.RawMessage) (int, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return 0, false
		}
		return int(t), true
	case string:
		return parseIndex(t)
	default:
		return 0, false
	}
}
