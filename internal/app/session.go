package app

import (
	"context"
	"sync"
	"time"

	"admission-quiz-service/internal/domain"
	"admission-quiz-service/internal/engine"
	"admission-quiz-service/internal/timer"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is one candidate's quiz attempt. A single loop goroutine owns the
// engine; timer events and caller commands are serialized through it.
type Session struct {
	id        string
	candidate string
	bankID    string
	createdAt time.Time

	engine *engine.Engine
	timer  *timer.RoundTimer
	logger zerolog.Logger

	commands chan command
	done     chan struct{}
	ended    chan struct{}
	cancel   context.CancelFunc
	onEnd    func(domain.QuizEnded)

	startOnce sync.Once
	closeOnce sync.Once
	result    domain.QuizEnded
}

type command struct {
	fn    func(*engine.Engine) error
	reply chan error
}

// NewSession returns an idle session for candidate: no bank, no running loop.
// SessionRepository implementations use it in their tests to fill attempt
// slots without playing a quiz.
func NewSession(candidate string) *Session {
	return newSession(candidate, "", nopPresenter{}, time.Second, zerolog.Nop())
}

func newSession(candidate, bankID string, presenter engine.Presenter, tick time.Duration, logger zerolog.Logger) *Session {
	id := uuid.NewString()
	s := &Session{
		id:        id,
		candidate: candidate,
		bankID:    bankID,
		createdAt: time.Now(),
		timer:     timer.New(tick),
		logger:    logger.With().Str("session_id", id).Str("bank_id", bankID).Logger(),
		commands:  make(chan command),
		done:      make(chan struct{}),
		ended:     make(chan struct{}),
	}
	s.engine = engine.New(s.timer, &sessionPresenter{session: s, next: presenter}, s.logger)
	return s
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Candidate() string    { return s.candidate }
func (s *Session) BankID() string       { return s.bankID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Ended is closed once the quiz reaches its final result.
func (s *Session) Ended() <-chan struct{} {
	return s.ended
}

// Result returns the final report; ok is false until Ended is closed.
func (s *Session) Result() (domain.QuizEnded, bool) {
	select {
	case <-s.ended:
		return s.result, true
	default:
		return domain.QuizEnded{}, false
	}
}

// Start begins the first round.
func (s *Session) Start(ctx context.Context) error {
	return s.do(ctx, func(e *engine.Engine) error { return e.Start() })
}

// Submit answers the question currently shown.
func (s *Session) Submit(ctx context.Context, optionID string) error {
	return s.do(ctx, func(e *engine.Engine) error { return e.SubmitAnswer(optionID) })
}

// Snapshot returns a copy of the engine state.
func (s *Session) Snapshot(ctx context.Context) (engine.State, error) {
	var st engine.State
	err := s.do(ctx, func(e *engine.Engine) error {
		st = e.State()
		return nil
	})
	return st, err
}

// Close stops the loop and any running countdown. Safe to call repeatedly.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel == nil {
			close(s.done)
			return
		}
		s.cancel()
		<-s.done
	})
}

func (s *Session) launch(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		go s.run(ctx)
	})
}

func (s *Session) do(ctx context.Context, fn func(*engine.Engine) error) error {
	reply := make(chan error, 1)
	select {
	case s.commands <- command{fn: fn, reply: reply}:
	case <-s.done:
		return domain.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-reply
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer s.timer.Cancel()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("session loop stopped")
			return
		case ev := <-s.timer.Events():
			if !s.timer.Current(ev) {
				continue
			}
			if ev.Expired {
				s.engine.OnTimerExpired()
			} else {
				s.engine.OnTimerTick(ev.Remaining)
			}
		case cmd := <-s.commands:
			cmd.reply <- cmd.fn(s.engine)
		}
	}
}

// sessionPresenter records the result before handing events on.
type sessionPresenter struct {
	session *Session
	next    engine.Presenter
}

func (p *sessionPresenter) ShowQuestion(q domain.ShowQuestion) {
	p.next.ShowQuestion(q)
}

func (p *sessionPresenter) Tick(remaining int) {
	if obs, ok := p.next.(engine.TickObserver); ok {
		obs.Tick(remaining)
	}
}

func (p *sessionPresenter) QuizEnded(r domain.QuizEnded) {
	s := p.session
	select {
	case <-s.ended:
	default:
		s.result = r
		if s.onEnd != nil {
			s.onEnd(r)
		}
		close(s.ended)
	}
	p.next.QuizEnded(r)
}

type nopPresenter struct{}

func (nopPresenter) ShowQuestion(domain.ShowQuestion) {}
func (nopPresenter) QuizEnded(domain.QuizEnded)       {}
