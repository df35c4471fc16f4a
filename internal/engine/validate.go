package engine

import (
	"fmt"
	"math"

	"admission-quiz-service/internal/domain"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidQuizData}, args...)...)
}

// Validate checks a round sequence before it is handed to the engine.
func Validate(rounds []domain.Round) error {
	if len(rounds) == 0 {
		return invalid("no rounds")
	}
	for ri, round := range rounds {
		if round.TimeLimitSeconds < 0 {
			return invalid("round %d: negative time limit %d", ri, round.TimeLimitSeconds)
		}
		if math.IsNaN(round.TotalMarks) || math.IsInf(round.TotalMarks, 0) || round.TotalMarks < 0 {
			return invalid("round %d: marks must be a non-negative number", ri)
		}
		if len(round.Questions) == 0 && round.TotalMarks > 0 {
			return invalid("round %d: %.2f marks but no questions", ri, round.TotalMarks)
		}
		for qi, q := range round.Questions {
			if err := validateQuestion(q); err != nil {
				return invalid("round %d question %d: %s", ri, qi, err.Error())
			}
		}
	}
	return nil
}

func validateQuestion(q domain.Question) error {
	if len(q.Options) == 0 {
		return fmt.Errorf("no options")
	}
	seen := make(map[string]struct{}, len(q.Options))
	matches := 0
	for _, opt := range q.Options {
		if opt.ID == "" {
			return fmt.Errorf("option without id")
		}
		if _, dup := seen[opt.ID]; dup {
			return fmt.Errorf("duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = struct{}{}
		if opt.ID == q.CorrectOptionID {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("correct option %q matches no option", q.CorrectOptionID)
	}
	return nil
}

func cloneRounds(rounds []domain.Round) []domain.Round {
	out := make([]domain.Round, len(rounds))
	for i, r := range rounds {
		out[i] = r
		out[i].Questions = make([]domain.Question, len(r.Questions))
		for j, q := range r.Questions {
			out[i].Questions[j] = q
			out[i].Questions[j].Options = append([]domain.Option(nil), q.Options...)
		}
	}
	return out
}
