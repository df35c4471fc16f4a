package app

import (
	"context"
	"fmt"
	"time"

	"admission-quiz-service/internal/domain"
	"admission-quiz-service/internal/engine"
	"admission-quiz-service/internal/gate"
	"github.com/rs/zerolog"
)

// SessionRepository tracks live attempts, at most one per candidate.
type SessionRepository interface {
	Acquire(candidate string, session *Session) error
	Get(candidate string) (*Session, bool)
	Release(candidate string, session *Session)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Options tune a QuizService.
type Options struct {
	// TickInterval is the countdown resolution; one second unless overridden.
	TickInterval time.Duration
	Metrics      *Metrics
	Logger       zerolog.Logger
}

// QuizService admits candidates and runs their quiz attempts.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	gate     *gate.Gate
	opts     Options
	logger   zerolog.Logger
}

func NewQuizService(sessions SessionRepository, banks BankRepository, g *gate.Gate, opts Options) *QuizService {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &QuizService{
		sessions: sessions,
		banks:    banks,
		gate:     g,
		opts:     opts,
		logger:   opts.Logger.With().Str("component", "quiz_service").Logger(),
	}
}

// BeginRequest identifies the candidate and the bank to take.
type BeginRequest struct {
	BankID string
	Email  string
}

// Begin gates the candidate, loads the bank and prepares a running session.
// The quiz itself starts with Session.Start.
func (s *QuizService) Begin(ctx context.Context, req BeginRequest, presenter engine.Presenter) (*Session, error) {
	email, err := s.gate.Check(req.Email)
	if err != nil {
		s.opts.Metrics.attemptRejected("email")
		return nil, err
	}

	bank, err := s.banks.GetBank(ctx, req.BankID)
	if err != nil {
		s.opts.Metrics.attemptRejected("bank")
		s.logger.Error().Err(err).Str("bank_id", req.BankID).Msg("question bank unavailable")
		return nil, fmt.Errorf("load bank %q: %w", req.BankID, err)
	}

	session := newSession(email, bank.ID, presenter, s.opts.TickInterval, s.logger)
	if err := session.engine.Initialize(bank.Rounds); err != nil {
		s.opts.Metrics.attemptRejected("invalid_bank")
		s.logger.Error().Err(err).Str("bank_id", bank.ID).Msg("question bank rejected")
		return nil, err
	}
	if err := s.sessions.Acquire(email, session); err != nil {
		s.opts.Metrics.attemptRejected("in_progress")
		return nil, err
	}
	session.onEnd = s.opts.Metrics.attemptEnded
	session.launch(context.WithoutCancel(ctx))
	s.opts.Metrics.attemptStarted()

	s.logger.Info().
		Str("session_id", session.ID()).
		Str("bank_id", bank.ID).
		Int("rounds", len(bank.Rounds)).
		Msg("quiz attempt begun")
	return session, nil
}

// Active returns the live session of a candidate.
func (s *QuizService) Active(candidate string) (*Session, bool) {
	return s.sessions.Get(candidate)
}

// Leave stops the session and frees the candidate's attempt slot.
func (s *QuizService) Leave(session *Session) {
	if session == nil {
		return
	}
	session.Close()
	s.sessions.Release(session.Candidate(), session)
}
