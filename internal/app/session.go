package app

import (
	"log"
	"sort"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Notifier delivers an outbound event to a single connection. Implementations
// must not block: sessions call it while holding their lock.
type Notifier interface {
	Send(connID string, event domain.Event)
}

// AdvanceStatus tells the caller what an Advance call did.
type AdvanceStatus int

const (
	// AdvanceIgnored means the caller is not the admin or the game is over.
	AdvanceIgnored AdvanceStatus = iota
	// AdvanceQuestionStarted means the cursor moved onto a question.
	AdvanceQuestionStarted
	// AdvanceFinished means the cursor passed the last question and the PIN was retired.
	AdvanceFinished
)

// AdvanceResult is the outcome of an Advance call.
type AdvanceResult struct {
	Status   AdvanceStatus
	Question domain.QuestionPayload
	Ranking  []domain.Standing
}

// SessionConfig carries the collaborators and switches of a session.
type SessionConfig struct {
	Notifier Notifier
	// OnRetire is invoked when the cursor passes the last question.
	OnRetire func(pin string)
	// ServerTiming makes the session measure answer latency itself instead of
	// trusting the elapsed time reported by the client.
	ServerTiming bool
	Clock        func() time.Time
}

const lobbyCursor = -1

// Session is the state machine of one live game. Every operation runs under mu,
// so join, advance, answer and leave never interleave for the same PIN.
type Session struct {
	pin     string
	quiz    domain.Quiz
	adminID string
	cfg     SessionConfig

	mu              sync.Mutex
	cursor          int
	adminGone       bool
	players         map[string]*domain.Player
	order           []string
	spectators      []string
	questionStarted time.Time
}

// NewSession builds a session in the lobby state for quiz, owned by adminID.
func NewSession(pin string, quiz domain.Quiz, adminID string, cfg SessionConfig) *Session {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Notifier == nil {
		cfg.Notifier = discardNotifier{}
	}
	return &Session{
		pin:     pin,
		quiz:    quiz,
		adminID: adminID,
		cfg:     cfg,
		cursor:  lobbyCursor,
		players: make(map[string]*domain.Player),
	}
}

// PIN returns the code players use to join.
func (s *Session) PIN() string { return s.pin }

// QuizID returns the id of the quiz being played.
func (s *Session) QuizID() string { return s.quiz.ID }

// Cursor returns -1 in the lobby, the active question index, or the question count once finished.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Orphaned reports whether the admin connection has left.
func (s *Session) Orphaned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminGone
}

// Roster returns players in join order.
func (s *Session) Roster() []domain.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rosterLocked()
}

// Join adds a player with score 0 and broadcasts the roster. A connection that
// already plays gets the current roster back unchanged.
func (s *Session) Join(connID, name string) ([]domain.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[connID]; ok {
		return s.rosterLocked(), nil
	}
	for _, p := range s.players {
		if p.Name == name {
			return nil, domain.ErrNameTaken
		}
	}

	s.players[connID] = &domain.Player{ConnID: connID, Name: name}
	s.order = append(s.order, connID)
	s.dropSpectatorLocked(connID)

	roster := s.rosterLocked()
	s.broadcastLocked(domain.Event{Type: domain.EventRosterUpdated, Payload: roster})
	return roster, nil
}

// Watch attaches a non-playing display (projector, admin dashboard) to the room
// and sends it the current roster.
func (s *Session) Watch(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, playing := s.players[connID]
	isAdmin := connID == s.adminID && !s.adminGone
	if !playing && !isAdmin && !s.watchingLocked(connID) {
		s.spectators = append(s.spectators, connID)
	}
	s.cfg.Notifier.Send(connID, domain.Event{Type: domain.EventRosterUpdated, Payload: s.rosterLocked()})
}

// Advance moves the question cursor forward. Only the admin connection may call it.
func (s *Session) Advance(connID string) AdvanceResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if connID != s.adminID || s.adminGone || s.finishedLocked() {
		return AdvanceResult{Status: AdvanceIgnored}
	}

	s.cursor++
	if s.finishedLocked() {
		ranking := s.rankingLocked()
		// Retire before broadcasting so nobody can look the PIN up after seeing the podium.
		if s.cfg.OnRetire != nil {
			s.cfg.OnRetire(s.pin)
		}
		s.broadcastLocked(domain.Event{Type: domain.EventGameFinished, Payload: ranking})
		log.Printf("session %s finished with %d players", s.pin, len(s.order))
		return AdvanceResult{Status: AdvanceFinished, Ranking: ranking}
	}

	for _, p := range s.players {
		p.Answer = nil
	}
	question := s.quiz.Questions[s.cursor]
	payload := domain.QuestionPayload{
		Index:   s.cursor,
		Text:    question.Text,
		Options: append([]string(nil), question.Options...),
	}
	s.questionStarted = s.cfg.Clock()
	s.broadcastLocked(domain.Event{Type: domain.EventQuestionStarted, Payload: payload})
	return AdvanceResult{Status: AdvanceQuestionStarted, Question: payload}
}

// SubmitAnswer scores the first answer of a player for the active question.
// It reports false, with no side effects, when there is no active question, the
// caller is not a player, or the player already answered.
func (s *Session) SubmitAnswer(connID string, optionIndex int, elapsedMs int64) (domain.AnswerResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < 0 || s.finishedLocked() {
		return domain.AnswerResult{}, false
	}
	player, ok := s.players[connID]
	if !ok || player.Answer != nil {
		return domain.AnswerResult{}, false
	}

	if s.cfg.ServerTiming {
		elapsedMs = s.cfg.Clock().Sub(s.questionStarted).Milliseconds()
	}

	answer := optionIndex
	player.Answer = &answer
	question := s.quiz.Questions[s.cursor]
	correct := optionIndex == question.CorrectIndex
	points := ScoreAnswer(correct, elapsedMs)
	player.Score += points

	result := domain.AnswerResult{
		Correct:      correct,
		PointsGained: points,
		CorrectIndex: question.CorrectIndex,
		NewScore:     player.Score,
	}
	s.cfg.Notifier.Send(connID, domain.Event{Type: domain.EventAnswerScored, Payload: result})

	if s.allAnsweredLocked() {
		s.broadcastLocked(domain.Event{Type: domain.EventLeaderboard, Payload: s.rankingLocked()})
	}
	return result, true
}

// Leave removes connID from the room. A departing player triggers a roster
// broadcast; a departing admin leaves the session orphaned.
func (s *Session) Leave(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropSpectatorLocked(connID)
	if connID == s.adminID && !s.adminGone {
		s.adminGone = true
		log.Printf("session %s orphaned: admin disconnected", s.pin)
	}
	if _, ok := s.players[connID]; !ok {
		return
	}
	delete(s.players, connID)
	for i, id := range s.order {
		if id == connID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.broadcastLocked(domain.Event{Type: domain.EventRosterUpdated, Payload: s.rosterLocked()})
}

func (s *Session) finishedLocked() bool {
	return s.cursor >= len(s.quiz.Questions)
}

func (s *Session) allAnsweredLocked() bool {
	for _, p := range s.players {
		if p.Answer == nil {
			return false
		}
	}
	return len(s.players) > 0
}

func (s *Session) rosterLocked() []domain.Standing {
	roster := make([]domain.Standing, 0, len(s.order))
	for _, id := range s.order {
		p := s.players[id]
		roster = append(roster, domain.Standing{Name: p.Name, Score: p.Score})
	}
	return roster
}

// rankingLocked sorts by score descending; equal scores keep join order.
func (s *Session) rankingLocked() []domain.Standing {
	ranking := s.rosterLocked()
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}

// broadcastLocked sends event to the admin, every player in join order, then spectators.
func (s *Session) broadcastLocked(event domain.Event) {
	if !s.adminGone {
		s.cfg.Notifier.Send(s.adminID, event)
	}
	for _, id := range s.order {
		if id == s.adminID {
			continue
		}
		s.cfg.Notifier.Send(id, event)
	}
	for _, id := range s.spectators {
		s.cfg.Notifier.Send(id, event)
	}
}

func (s *Session) watchingLocked(connID string) bool {
	for _, id := range s.spectators {
		if id == connID {
			return true
		}
	}
	return false
}

func (s *Session) dropSpectatorLocked(connID string) {
	for i, id := range s.spectators {
		if id == connID {
			s.spectators = append(s.spectators[:i], s.spectators[i+1:]...)
			return
		}
	}
}

type discardNotifier struct{}

func (discardNotifier) Send(string, domain.Event) {}
