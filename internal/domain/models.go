package domain

// Option is one selectable answer. IDs are single letters such as "A".."D".
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	Prompt          string   `json:"prompt" yaml:"prompt"`
	Options         []Option `json:"options" yaml:"options"`
	CorrectOptionID string   `json:"correctOptionId" yaml:"correct"`
}

// Round is a timed group of questions sharing a title and total marks.
type Round struct {
	Title            string     `json:"title" yaml:"title"`
	TimeLimitSeconds int        `json:"timeLimitSeconds" yaml:"time_limit_seconds"`
	TotalMarks       float64    `json:"totalMarks" yaml:"marks"`
	Questions        []Question `json:"questions" yaml:"questions"`
}

// Bank is a named, ordered sequence of rounds as supplied by a loader.
type Bank struct {
	ID     string  `json:"id" yaml:"id"`
	Rounds []Round `json:"rounds" yaml:"rounds"`
}

// Phase is the lifecycle position of a quiz attempt.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInRound
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInRound:
		return "in_round"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Tier is the admission outcome derived from the normalized score.
type Tier string

const (
	TierTop         Tier = "Top tier"
	TierMid         Tier = "Mid tier"
	TierLowAdmit    Tier = "Low-admit tier"
	TierNotAdmitted Tier = "Not admitted"
)

// ShowQuestion asks the presentation layer to render the current question.
// It never carries the correct option.
type ShowQuestion struct {
	RoundIndex       int      `json:"roundIndex"`
	QuestionIndex    int      `json:"questionIndex"`
	RoundTitle       string   `json:"roundTitle"`
	Prompt           string   `json:"prompt"`
	Options          []Option `json:"options"`
	RemainingSeconds int      `json:"remainingSeconds"`
}

// QuizEnded is the final report of an attempt.
type QuizEnded struct {
	Score           float64 `json:"score"`
	TotalMarks      float64 `json:"totalMarks"`
	NormalizedScore float64 `json:"normalizedScore"`
	Tier            Tier    `json:"tier"`
}
