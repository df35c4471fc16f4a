package engine

import (
	"testing"

	"admission-quiz-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Tier
	}{
		{10, domain.TierTop},
		{9.51, domain.TierTop},
		{9.5, domain.TierMid},
		{7.51, domain.TierMid},
		{7.5, domain.TierLowAdmit},
		{6.51, domain.TierLowAdmit},
		{6.5, domain.TierNotAdmitted},
		{0, domain.TierNotAdmitted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %.2f", tt.score)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 7.5, Normalize(15, 20))
	assert.Equal(t, 0.0, Normalize(0, 20))
	assert.Equal(t, 0.0, Normalize(5, 0))
	assert.Equal(t, 3.33, Normalize(1, 3))
	assert.Equal(t, 6.67, Normalize(2, 3))
	// Three thirds of ten marks accumulate to slightly more than 10.
	assert.Equal(t, 10.0, Normalize(10.0/3+10.0/3+10.0/3, 10))
}

func TestRoundCentsHalvesAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, RoundCents(0.125))
	assert.Equal(t, 9.5, RoundCents(9.499999999))
	assert.Equal(t, -0.13, RoundCents(-0.125))
}

func TestRoundCentsUsesStoredValueOnDecimalHalves(t *testing.T) {
	// 7.505 and 6.505 have no exact binary form and are stored just below.
	assert.Equal(t, 7.5, Normalize(1501, 2000))
	assert.Equal(t, 6.5, Normalize(1301, 2000))
	assert.Equal(t, 6.5, Normalize(13.01, 20))
	assert.Equal(t, 3.75, Normalize(3, 8))

	assert.Equal(t, domain.TierLowAdmit, Result(1501, 2000).Tier)
	assert.Equal(t, domain.TierNotAdmitted, Result(1301, 2000).Tier)
	assert.Equal(t, domain.TierNotAdmitted, Result(13.01, 20).Tier)
}

func TestMarkPerQuestion(t *testing.T) {
	assert.Equal(t, 0.0, MarkPerQuestion(domain.Round{TotalMarks: 10}))
	assert.Equal(t, 2.5, MarkPerQuestion(domain.Round{
		TotalMarks: 10,
		Questions:  make([]domain.Question, 4),
	}))
}
