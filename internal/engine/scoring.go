package engine

import (
	"math"
	"math/big"

	"admission-quiz-service/internal/domain"
)

// Tier boundaries, compared with a strict greater-than.
const (
	topTierAbove      = 9.5
	midTierAbove      = 7.5
	lowAdmitTierAbove = 6.5

	normalizedScale = 10
)

// MarkPerQuestion is a round's marks split evenly across its questions.
func MarkPerQuestion(round domain.Round) float64 {
	if len(round.Questions) == 0 {
		return 0
	}
	return round.TotalMarks / float64(len(round.Questions))
}

// Normalize rescales score to 0-10 and rounds it to cents.
// A quiz with no obtainable marks normalizes to 0.
func Normalize(score, totalMarks float64) float64 {
	if totalMarks <= 0 {
		return 0
	}
	return RoundCents(score / totalMarks * normalizedScale)
}

// RoundCents rounds to two decimals, halves away from zero. The half-cent
// test is made on the exact value of v, so 6.505 (stored just below) rounds
// to 6.50 while 0.125 (stored exactly) rounds to 0.13.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	x := new(big.Float).SetPrec(256).SetFloat64(math.Abs(v))
	x.Mul(x, big.NewFloat(100))
	cents, _ := x.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(x, new(big.Float).SetInt(cents))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		cents.Add(cents, big.NewInt(1))
	}
	rounded, _ := new(big.Float).SetInt(cents).Float64()
	return math.Copysign(rounded/100, v)
}

// Classify maps a normalized score to its admission tier.
func Classify(normalized float64) domain.Tier {
	switch {
	case normalized > topTierAbove:
		return domain.TierTop
	case normalized > midTierAbove:
		return domain.TierMid
	case normalized > lowAdmitTierAbove:
		return domain.TierLowAdmit
	default:
		return domain.TierNotAdmitted
	}
}

// Result builds the final report for an accumulated score.
func Result(score, totalMarks float64) domain.QuizEnded {
	normalized := Normalize(score, totalMarks)
	return domain.QuizEnded{
		Score:           score,
		TotalMarks:      totalMarks,
		NormalizedScore: normalized,
		Tier:            Classify(normalized),
	}
}
