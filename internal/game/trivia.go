package game

import (
	"sort"

	"github.com/quizclash/api/internal/model"
)

// Trivia scoring constants: a correct answer earns the base plus a bonus
// for every second left in the question window.
const (
	basePoints     = 100
	perSecondBonus = 2
)

// triviaRules runs the concurrent-answer quiz. Every joined player is a
// participant; there is no single turn owner.
type triviaRules struct{}

func (triviaRules) start(s *Session) error {
	if len(s.questions) == 0 {
		return model.ErrNoQuestions
	}
	s.questionIndex = 0
	for _, p := range s.players {
		p.Lives = s.settings.InitialLives
	}
	return nil
}

func (r triviaRules) apply(s *Session, p *model.Player, act Action, ev *events) (*Result, error) {
	// Duplicate submissions for an already-recorded index are a no-op
	// returning the prior result, not an error.
	if prior := p.AnswerFor(s.questionIndex); prior != nil {
		return &Result{IsCorrect: prior.IsCorrect, Points: prior.Points, AlreadyAnswered: true}, nil
	}

	answer := model.Answer{}
	if act.Answer != nil {
		answer = *act.Answer
	}
	timeSpent := act.TimeSpentSec
	if timeSpent < 0 {
		timeSpent = 0
	}

	question := &s.questions[s.questionIndex]
	isCorrect := question.Check(answer)

	points := 0
	if isCorrect {
		remaining := float64(s.settings.TurnSeconds) - timeSpent
		if remaining < 0 {
			remaining = 0
		}
		points = basePoints + perSecondBonus*int(remaining)
	}

	p.Answers = append(p.Answers, model.RecordedAnswer{
		QuestionIndex: s.questionIndex,
		Answer:        answer,
		IsCorrect:     isCorrect,
		Points:        points,
		TimeSpentSec:  timeSpent,
		AnsweredAt:    s.clock(),
	})
	p.Score += points

	res := &Result{IsCorrect: isCorrect, Points: points}

	if s.settings.InitialLives > 0 && !isCorrect {
		p.Lives--
		if p.Lives <= 0 {
			outcome := r.livesOutcome(s)
			s.endLocked(outcome, ev)
			res.GameOver = true
			res.Outcome = outcome
			return res, nil
		}
	}

	ev.roster = s.rosterLocked()
	ev.state = s.snapshotLocked()
	if s.allAnsweredLocked() {
		r.closeWindow(s, ev)
		if s.outcome != nil {
			res.GameOver = true
			res.Outcome = s.outcome
		}
	}
	return res, nil
}

// expire delivers the timeout as a zero-credit non-answer for everyone who
// has not answered the current question.
func (r triviaRules) expire(s *Session, ev *events) {
	r.closeWindow(s, ev)
}

// closeWindow settles the current question: unanswered connected players
// are recorded as zero-credit non-answers (losing a life in the lives
// sub-mode), results are published, and the session advances or ends.
func (r triviaRules) closeWindow(s *Session, ev *events) {
	died := false
	for _, p := range s.players {
		if !p.IsConnected || p.AnswerFor(s.questionIndex) != nil {
			continue
		}
		p.Answers = append(p.Answers, model.RecordedAnswer{
			QuestionIndex: s.questionIndex,
			IsCorrect:     false,
			TimeSpentSec:  float64(s.settings.TurnSeconds),
			AnsweredAt:    s.clock(),
		})
		if s.settings.InitialLives > 0 {
			p.Lives--
			if p.Lives <= 0 {
				died = true
			}
		}
	}

	ev.question = r.questionResults(s)
	ev.hasQuestion = true

	switch {
	case died:
		s.endLocked(r.livesOutcome(s), ev)
	case s.questionIndex < len(s.questions)-1:
		s.questionIndex++
		s.turnStarted = s.clock()
		s.armClockLocked()
		ev.advanced = true
		ev.state = s.snapshotLocked()
	default:
		s.endLocked(&model.Outcome{
			Winner:  r.topRanked(s),
			Results: r.finalResults(s),
		}, ev)
	}
}

// questionResults lists connected players' answers for the current
// question, highest score first.
func (triviaRules) questionResults(s *Session) []model.QuestionResult {
	results := make([]model.QuestionResult, 0, len(s.players))
	for _, p := range s.players {
		if !p.IsConnected {
			continue
		}
		qr := model.QuestionResult{
			PlayerID:     p.ID,
			Name:         p.Name,
			Score:        p.Score,
			TimeSpentSec: float64(s.settings.TurnSeconds),
		}
		if rec := p.AnswerFor(s.questionIndex); rec != nil {
			// Timeout non-answers carry no Answer; the field stays
			// absent in the broadcast.
			if !rec.Answer.Empty() {
				answer := rec.Answer
				qr.Answer = &answer
			}
			qr.IsCorrect = rec.IsCorrect
			qr.TimeSpentSec = rec.TimeSpentSec
		}
		results = append(results, qr)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// finalResults ranks every player by score descending, ties broken by join
// order, ranks 1..N.
func (triviaRules) finalResults(s *Session) []model.FinalResult {
	results := make([]model.FinalResult, 0, len(s.players))
	for _, p := range s.players {
		correct := 0
		totalTime := 0.0
		for _, rec := range p.Answers {
			if rec.IsCorrect {
				correct++
			}
			totalTime += rec.TimeSpentSec
		}
		avg := 0.0
		if len(p.Answers) > 0 {
			avg = totalTime / float64(len(p.Answers))
		}
		results = append(results, model.FinalResult{
			PlayerID:       p.ID,
			Name:           p.Name,
			Score:          p.Score,
			CorrectAnswers: correct,
			TotalAnswers:   len(p.Answers),
			AverageTimeSec: avg,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// topRanked returns the winner of a completed quiz: highest score, ties
// broken by join order.
func (r triviaRules) topRanked(s *Session) string {
	results := r.finalResults(s)
	if len(results) == 0 {
		return ""
	}
	return results[0].PlayerID
}

// livesOutcome decides the session when a player runs out of lives: the
// best-scoring player who still has a life wins immediately.
func (r triviaRules) livesOutcome(s *Session) *model.Outcome {
	results := r.finalResults(s)
	outcome := &model.Outcome{Results: results}
	for _, fr := range results {
		if p := s.playerLocked(fr.PlayerID); p != nil && p.Lives > 0 {
			outcome.Winner = fr.PlayerID
			return outcome
		}
	}
	outcome.Draw = true
	return outcome
}
