package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"admission-quiz-service/internal/app"
	"admission-quiz-service/internal/bank"
	"admission-quiz-service/internal/config"
	"admission-quiz-service/internal/domain"
	"admission-quiz-service/internal/gate"
	"admission-quiz-service/internal/infra/memory"
	"admission-quiz-service/internal/timer"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a single attempt in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		bankFile string
		bankID   string
		email    string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			var loader memory.BankLoader = bank.NewDirLoader(bankDir(cfg))
			if bankID == "" {
				bankID = cfg.Quiz.DefaultBank
			}
			if bankFile != "" {
				b, err := bank.ReadFile(bankFile)
				if err != nil {
					return err
				}
				bankID = b.ID
				loader = memory.NewStaticBankLoader(map[string]domain.Bank{b.ID: b})
			}

			emailGate, err := gate.New(cfg.Gate.EmailPattern)
			if err != nil {
				return err
			}
			service := app.NewQuizService(memory.NewSessionStore(), memory.NewBankRepository(loader, time.Hour), emailGate, app.Options{
				TickInterval: config.TTLDuration(cfg.Quiz.TickInterval, time.Second),
				Logger:       logger,
			})
			return play(cmd.Context(), service, bankID, email, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bankFile, "bank", "", "question bank file (.xml, .yaml, .json)")
	cmd.Flags().StringVar(&bankID, "bank-id", "", "bank id in the configured bank directory")
	cmd.Flags().StringVar(&email, "email", "", "candidate email; prompted when empty")
	return cmd
}

func play(ctx context.Context, service *app.QuizService, bankID, email string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	term := &terminalPresenter{out: out}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	if email == "" {
		term.printf("Email: ")
		line, ok := <-lines
		if !ok {
			return fmt.Errorf("no email given")
		}
		email = line
	}

	session, err := service.Begin(ctx, app.BeginRequest{BankID: bankID, Email: email}, term)
	if err != nil {
		return err
	}
	defer service.Leave(session)

	if err := session.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-session.Ended():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if _, ended := session.Result(); !ended {
					term.printf("\nInput closed; attempt abandoned.\n")
				}
				return nil
			}
			if line == "" {
				term.printf("Please select an option.\n")
				continue
			}
			if err := session.Submit(ctx, line); err != nil {
				term.printf("%v\n", err)
			}
		}
	}
}

// terminalPresenter prints engine events. Output from the session loop and
// from the input loop is interleaved, so writes are serialized.
type terminalPresenter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *terminalPresenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

func (p *terminalPresenter) ShowQuestion(q domain.ShowQuestion) {
	var b strings.Builder
	if q.QuestionIndex == 0 {
		fmt.Fprintf(&b, "\n== %s (%s) ==\n", q.RoundTitle, timer.FormatClock(q.RemainingSeconds))
	}
	fmt.Fprintf(&b, "\nQ%d. %s\n", q.QuestionIndex+1, q.Prompt)
	for _, opt := range q.Options {
		fmt.Fprintf(&b, "  [%s] %s\n", opt.ID, opt.Text)
	}
	b.WriteString("> ")
	p.printf("%s", b.String())
}

func (p *terminalPresenter) Tick(remaining int) {
	if remaining > 10 && remaining%60 != 0 {
		return
	}
	if remaining == 0 {
		p.printf("\nTime is up.\n")
		return
	}
	p.printf("\n[%s left]\n> ", timer.FormatClock(remaining))
}

func (p *terminalPresenter) QuizEnded(r domain.QuizEnded) {
	p.printf("\nScore: %.2f / %.2f\nNormalized: %.2f / 10\nResult: %s\n", r.Score, r.TotalMarks, r.NormalizedScore, r.Tier)
}
