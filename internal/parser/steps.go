package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/model"
)

var (
	stepsLabel    = regexp.MustCompile(`^教学步骤\s*[：:]?`)
	stepLine      = regexp.MustCompile(`^(\d+)\.\s*(.+)`)
	gameLine      = regexp.MustCompile(`^(?:[•·￮]\s*)?游戏(\d+)\s*[：:]\s*(.+)`)
	closingStep   = regexp.MustCompile(`结束整理`)
	closingItem   = regexp.MustCompile(`^(?:([ab])\s*[.、．]\s*)?(引导整理|课程总结)\s*[：:]?`)
	guidanceLabel = regexp.MustCompile(`指导语\s*[：:]`)
)

// closingTags maps the fixed closing sub-item labels to their letter tags.
var closingTags = map[string]string{
	"引导整理": "a",
	"课程总结": "b",
}

type stepScanner struct {
	steps      []model.Step
	step       *model.Step
	game       *model.Game
	guidance   []string
	collecting bool
}

func (s *stepScanner) closeGame() {
	if s.game == nil {
		return
	}
	s.game.Guidance = strings.Join(s.guidance, "\n")
	s.step.Games = append(s.step.Games, *s.game)
	s.game = nil
	s.guidance = nil
	s.collecting = false
}

func (s *stepScanner) closeStep() {
	s.closeGame()
	if s.step != nil {
		s.steps = append(s.steps, *s.step)
		s.step = nil
	}
}

// isNewStep decides whether "N." starts a step. Inside an open game only the
// next step ordinal does; any other number is a point of the game.
func (s *stepScanner) isNewStep(n int) bool {
	if s.step == nil || s.game == nil {
		return true
	}
	return n == s.step.Number+1
}

// ScanSteps parses teaching steps and their games from lines. Scanning begins
// after the 教学步骤 label when there is one and ends at the first stop marker.
func ScanSteps(lines []string) []model.Step {
	stop := classify.StopIndex(lines)
	start := 0
	for i := 0; i < stop; i++ {
		if stepsLabel.MatchString(strings.TrimSpace(lines[i])) {
			start = i + 1
			break
		}
	}

	s := &stepScanner{steps: make([]model.Step, 0)}
	for i := start; i < stop; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := stepLine.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			if s.isNewStep(n) {
				s.closeStep()
				s.step = &model.Step{Number: n, Title: strings.TrimSpace(m[2]), Games: []model.Game{}}
				continue
			}
		}
		if s.step == nil {
			continue
		}

		closing := closingStep.MatchString(s.step.Title)
		if closing {
			if m := closingItem.FindStringSubmatchIndex(line); m != nil {
				s.closeGame()
				label := line[m[4]:m[5]]
				tag := closingTags[label]
				if m[2] >= 0 {
					tag = line[m[2]:m[3]]
				}
				s.game = &model.Game{Tag: tag, Title: label}
				if rest := strings.TrimSpace(line[m[1]:]); rest != "" {
					s.guidance = append(s.guidance, rest)
					s.collecting = true
				}
				continue
			}
		} else if m := gameLine.FindStringSubmatch(line); m != nil {
			s.closeGame()
			n, _ := strconv.Atoi(m[1])
			s.game = &model.Game{Number: n, Title: strings.TrimSpace(m[2])}
			continue
		}

		if s.game == nil {
			continue
		}

		if !s.game.IsClosing() {
			if prefix, content, ok := classify.MatchPoint(line); ok && !guidanceLabel.MatchString(content) {
				s.game.Points = append(s.game.Points, model.Point{Prefix: prefix, Content: content})
				continue
			}
		}

		if loc := guidanceLabel.FindStringIndex(line); loc != nil {
			s.guidance = nil
			s.collecting = true
			if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
				s.guidance = append(s.guidance, rest)
			}
			continue
		}

		if s.collecting {
			s.guidance = append(s.guidance, line)
		}
	}
	s.closeStep()
	return s.steps
}
