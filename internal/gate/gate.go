package gate

import (
	"fmt"
	"regexp"
	"strings"

	"admission-quiz-service/internal/domain"
)

// DefaultPattern accepts name@vit.<tld> and name@vitstudent.ac.in addresses.
const DefaultPattern = `^[a-zA-Z0-9._%+-]+@(vit\.[a-zA-Z]+|vitstudent\.ac\.in)$`

// Gate admits candidates whose email matches an accepted-domain pattern.
type Gate struct {
	pattern *regexp.Regexp
}

// New compiles pattern; an empty pattern selects DefaultPattern.
func New(pattern string) (*Gate, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile gate pattern: %w", err)
	}
	return &Gate{pattern: re}, nil
}

// Check returns the trimmed address, or ErrEmailRejected.
func (g *Gate) Check(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !g.pattern.MatchString(email) {
		return "", fmt.Errorf("%q: %w", email, domain.ErrEmailRejected)
	}
	return email, nil
}
