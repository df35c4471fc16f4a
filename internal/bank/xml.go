package bank

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"admission-quiz-service/internal/domain"
)

// XML document layout:
//
//	<quiz>
//	  <round title="Aptitude" time="2" marks="10">
//	    <question>
//	      <text>What is 2 + 2?</text>
//	      <option>A. 4</option>
//	      <option>B. 5</option>
//	      <answer>A</answer>
//	    </question>
//	  </round>
//	</quiz>
//
// time is in minutes; a seconds attribute overrides it. Options without an
// id attribute take the first character of their text as id.
type xmlQuiz struct {
	XMLName xml.Name   `xml:"quiz"`
	Rounds  []xmlRound `xml:"round"`
}

type xmlRound struct {
	Title     string        `xml:"title,attr"`
	Minutes   string        `xml:"time,attr"`
	Seconds   string        `xml:"seconds,attr"`
	Marks     string        `xml:"marks,attr"`
	Questions []xmlQuestion `xml:"question"`
}

type xmlQuestion struct {
	Text    string      `xml:"text"`
	Options []xmlOption `xml:"option"`
	Answer  string      `xml:"answer"`
}

type xmlOption struct {
	ID   string `xml:"id,attr"`
	Text string `xml:",chardata"`
}

// DecodeXML reads rounds from the XML bank format.
func DecodeXML(r io.Reader) ([]domain.Round, error) {
	var doc xmlQuiz
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml bank: %w", err)
	}

	rounds := make([]domain.Round, 0, len(doc.Rounds))
	for i, xr := range doc.Rounds {
		seconds, err := xr.timeLimit()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		marks := 0.0
		if s := strings.TrimSpace(xr.Marks); s != "" {
			if marks, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("round %d: marks %q: %w", i, xr.Marks, err)
			}
		}

		round := domain.Round{
			Title:            strings.TrimSpace(xr.Title),
			TimeLimitSeconds: seconds,
			TotalMarks:       marks,
			Questions:        make([]domain.Question, 0, len(xr.Questions)),
		}
		for _, xq := range xr.Questions {
			round.Questions = append(round.Questions, xq.toDomain())
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

func (r xmlRound) timeLimit() (int, error) {
	if s := strings.TrimSpace(r.Seconds); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("seconds %q: %w", r.Seconds, err)
		}
		return secs, nil
	}
	if s := strings.TrimSpace(r.Minutes); s != "" {
		mins, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("time %q: %w", r.Minutes, err)
		}
		return mins * 60, nil
	}
	return 0, nil
}

func (q xmlQuestion) toDomain() domain.Question {
	out := domain.Question{
		Prompt:          strings.TrimSpace(q.Text),
		CorrectOptionID: strings.TrimSpace(q.Answer),
		Options:         make([]domain.Option, 0, len(q.Options)),
	}
	for _, xo := range q.Options {
		text := strings.TrimSpace(xo.Text)
		id := strings.TrimSpace(xo.ID)
		if id == "" && text != "" {
			_, size := utf8.DecodeRuneInString(text)
			id = text[:size]
		}
		out.Options = append(out.Options, domain.Option{ID: id, Text: text})
	}
	return out
}
