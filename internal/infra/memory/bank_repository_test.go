package memory

import (
	"context"
	"testing"
	"time"

	"admission-quiz-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{
			"entrance": sampleBank(),
		}),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "entrance"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background(), "entrance"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{"entrance": sampleBank()}),
	}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBank(context.Background(), "entrance")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), "entrance")

	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestBankRepositoryMissingBank(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), time.Minute)
	if _, err := repo.GetBank(context.Background(), "nope"); err != domain.ErrBankNotFound {
		t.Fatalf("expected bank not found, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "entrance",
		Rounds: []domain.Round{
			{
				Title:            "Aptitude",
				TimeLimitSeconds: 60,
				TotalMarks:       10,
				Questions: []domain.Question{
					{
						Prompt: "What is 2 + 2?",
						Options: []domain.Option{
							{ID: "A", Text: "3"},
							{ID: "B", Text: "4"},
						},
						CorrectOptionID: "B",
					},
				},
			},
		},
	}
}
