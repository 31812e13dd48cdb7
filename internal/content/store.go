package content

// Store is the read-only content set shared by every request.
type Store struct {
	c Content
}

func NewStore(c Content) (*Store, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return &Store{c: cloneContent(c)}, nil
}

func (s *Store) Lesson() Lesson {
	l := s.c.Lesson
	l.Checklist = append([]string(nil), l.Checklist...)
	return l
}

func (s *Store) Examples() []Example {
	return append([]Example(nil), s.c.Examples...)
}

func (s *Store) Questions() []Question {
	out := make([]Question, len(s.c.Questions))
	for i, q := range s.c.Questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

func (s *Store) Question(i int) (Question, bool) {
	if i < 0 || i >= len(s.c.Questions) {
		return Question{}, false
	}
	return cloneQuestion(s.c.Questions[i]), true
}

func (s *Store) QuestionCount() int {
	return len(s.c.Questions)
}
