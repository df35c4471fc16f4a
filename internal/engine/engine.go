package engine

import (
	"fmt"

	"admission-quiz-service/internal/domain"
	"github.com/rs/zerolog"
)

// Timer is the countdown the engine arms at the start of every round.
type Timer interface {
	Arm(seconds int)
	Cancel()
}

// Presenter renders questions and the final result. Calls happen
// synchronously from inside engine operations.
type Presenter interface {
	ShowQuestion(domain.ShowQuestion)
	QuizEnded(domain.QuizEnded)
}

// TickObserver is implemented by presenters that display the countdown.
type TickObserver interface {
	Tick(remainingSeconds int)
}

// State is the quiz progress owned by an Engine.
type State struct {
	Rounds           []domain.Round
	RoundIndex       int
	QuestionIndex    int
	Score            float64
	TotalMarks       float64
	RemainingSeconds int
	Phase            domain.Phase
	Result           *domain.QuizEnded
}

// Engine is the quiz progression state machine. It is not safe for
// concurrent use; callers serialize operations on one goroutine.
type Engine struct {
	timer     Timer
	presenter Presenter
	logger    zerolog.Logger

	state  State
	loaded bool
}

func New(timer Timer, presenter Presenter, logger zerolog.Logger) *Engine {
	return &Engine{
		timer:     timer,
		presenter: presenter,
		logger:    logger.With().Str("component", "engine").Logger(),
	}
}

// Initialize loads rounds and resets progress. It may be called again at any
// point to recover; a running countdown is cancelled.
func (e *Engine) Initialize(rounds []domain.Round) error {
	if err := Validate(rounds); err != nil {
		return err
	}
	if e.state.Phase == domain.PhaseInRound {
		e.timer.Cancel()
	}

	total := 0.0
	for _, r := range rounds {
		total += r.TotalMarks
	}
	e.state = State{
		Rounds:     cloneRounds(rounds),
		TotalMarks: total,
		Phase:      domain.PhaseNotStarted,
	}
	e.loaded = true

	e.logger.Debug().Int("rounds", len(rounds)).Float64("total_marks", total).Msg("quiz initialized")
	return nil
}

// Start enters the first round that has questions.
func (e *Engine) Start() error {
	if !e.loaded || e.state.Phase != domain.PhaseNotStarted {
		return fmt.Errorf("start in phase %s: %w", e.state.Phase, domain.ErrInvalidPhase)
	}
	e.state.Phase = domain.PhaseInRound
	e.state.RoundIndex = 0
	e.enterRound()
	return nil
}

// SubmitAnswer scores the pending question and moves on.
func (e *Engine) SubmitAnswer(optionID string) error {
	if e.state.Phase != domain.PhaseInRound {
		return domain.ErrNoPendingQuestion
	}
	round := e.state.Rounds[e.state.RoundIndex]
	if e.state.QuestionIndex >= len(round.Questions) {
		return domain.ErrNoPendingQuestion
	}

	question := round.Questions[e.state.QuestionIndex]
	if optionID == question.CorrectOptionID {
		e.state.Score += MarkPerQuestion(round)
	}
	e.state.QuestionIndex++

	if e.state.QuestionIndex >= len(round.Questions) {
		e.advanceRound()
		return nil
	}
	e.show()
	return nil
}

// OnTimerTick records the remaining time of the current round.
func (e *Engine) OnTimerTick(remaining int) {
	if e.state.Phase != domain.PhaseInRound {
		return
	}
	e.state.RemainingSeconds = remaining
	if obs, ok := e.presenter.(TickObserver); ok {
		obs.Tick(remaining)
	}
}

// OnTimerExpired closes the current round; unanswered questions score zero.
func (e *Engine) OnTimerExpired() {
	if e.state.Phase != domain.PhaseInRound {
		return
	}
	e.state.RemainingSeconds = 0
	e.logger.Debug().
		Int("round", e.state.RoundIndex).
		Int("unanswered", len(e.state.Rounds[e.state.RoundIndex].Questions)-e.state.QuestionIndex).
		Msg("round time expired")
	e.advanceRound()
}

// State returns a copy of the current progress. Rounds are shared and must
// not be modified.
func (e *Engine) State() State {
	s := e.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

func (e *Engine) advanceRound() {
	e.timer.Cancel()
	e.state.RoundIndex++
	e.enterRound()
}

// enterRound starts the round at RoundIndex, skipping rounds without
// questions, and ends the quiz when none are left.
func (e *Engine) enterRound() {
	for e.state.RoundIndex < len(e.state.Rounds) {
		round := e.state.Rounds[e.state.RoundIndex]
		if len(round.Questions) == 0 {
			e.logger.Debug().Int("round", e.state.RoundIndex).Msg("skipping round without questions")
			e.state.RoundIndex++
			continue
		}
		e.state.QuestionIndex = 0
		e.state.RemainingSeconds = round.TimeLimitSeconds
		e.timer.Arm(round.TimeLimitSeconds)
		e.show()
		return
	}
	e.finish()
}

func (e *Engine) show() {
	round := e.state.Rounds[e.state.RoundIndex]
	q := round.Questions[e.state.QuestionIndex]
	e.presenter.ShowQuestion(domain.ShowQuestion{
		RoundIndex:       e.state.RoundIndex,
		QuestionIndex:    e.state.QuestionIndex,
		RoundTitle:       round.Title,
		Prompt:           q.Prompt,
		Options:          append([]domain.Option(nil), q.Options...),
		RemainingSeconds: e.state.RemainingSeconds,
	})
}

func (e *Engine) finish() {
	e.timer.Cancel()
	e.state.Phase = domain.PhaseEnded
	e.state.QuestionIndex = 0
	result := Result(e.state.Score, e.state.TotalMarks)
	e.state.Result = &result

	e.logger.Info().
		Float64("score", result.Score).
		Float64("normalized", result.NormalizedScore).
		Str("tier", string(result.Tier)).
		Msg("quiz ended")
	e.presenter.QuizEnded(result)
}
