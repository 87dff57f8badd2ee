package app

import (
	"sort"
	"sync"
	"time"

	"lingo-quiz-service/internal/clock"
	"lingo-quiz-service/internal/domain"
)

// Session is one quiz round. Immutable question data is set at creation; the
// mutable part is guarded by mu, which is the single serialization point for
// the session.
type Session struct {
	id            string
	mode          domain.Mode
	difficulty    string
	language      string
	word          string
	category      string
	correctAnswer string
	options       []string
	correctIndex  int
	createdAt     time.Time
	deadline      time.Time

	mu           sync.Mutex
	state        domain.SessionState
	participants map[string]domain.AnswerRecord
	order        []string
	inflight     map[string]struct{}
	expireDue    bool
	timer        clock.Timer
	subscribers  map[chan domain.SessionEvent]struct{}
}

// NewSession is exported for infrastructure layers and their tests that need
// a bare session to register.
func NewSession(id string, mode domain.Mode, createdAt time.Time, timeout time.Duration) *Session {
	return newSession(id, mode, createdAt, timeout)
}

func newSession(id string, mode domain.Mode, createdAt time.Time, timeout time.Duration) *Session {
	return &Session{
		id:           id,
		mode:         mode,
		createdAt:    createdAt,
		deadline:     createdAt.Add(timeout),
		state:        domain.StateOpen,
		participants: make(map[string]domain.AnswerRecord),
		inflight:     make(map[string]struct{}),
		subscribers:  make(map[chan domain.SessionEvent]struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Deadline is when the session stops accepting answers.
func (s *Session) Deadline() time.Time { return s.deadline }

// Mode returns the session mode.
func (s *Session) Mode() domain.Mode { return s.mode }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) handle(baseXP int) domain.SessionHandle {
	return domain.SessionHandle{
		SessionID:  s.id,
		Mode:       s.mode,
		Difficulty: s.difficulty,
		Language:   s.language,
		Word:       s.word,
		Category:   s.category,
		Options:    append([]string(nil), s.options...),
		BaseXP:     baseXP,
		ExpiresAt:  s.deadline,
	}
}

// reserveLocked claims the answer slot for userID. Exactly one caller per slot
// gets through; the claim is released or converted into a record later.
func (s *Session) reserveLocked(userID string, selected int, now time.Time) error {
	if s.state == domain.StateExpired || s.state == domain.StateClosed || !now.Before(s.deadline) {
		return domain.ErrSessionNotFound
	}
	if selected < 0 || selected >= len(s.options) {
		return domain.ErrInvalidOption
	}
	if s.mode == domain.ModeSolo {
		if s.state == domain.StateResolved || len(s.participants) > 0 || len(s.inflight) > 0 {
			return domain.ErrAlreadyAnswered
		}
	} else {
		if _, ok := s.participants[userID]; ok {
			return domain.ErrAlreadyAnswered
		}
		if _, ok := s.inflight[userID]; ok {
			return domain.ErrAlreadyAnswered
		}
	}
	s.inflight[userID] = struct{}{}
	return nil
}

// releaseLocked drops a reservation whose answer was not committed. It reports
// whether a deferred expiry must now be applied.
func (s *Session) releaseLocked(userID string) bool {
	delete(s.inflight, userID)
	return s.expireDue && len(s.inflight) == 0 && s.state == domain.StateOpen
}

func (s *Session) recordLocked(rec domain.AnswerRecord, at time.Time) {
	delete(s.inflight, rec.UserID)
	if s.state != domain.StateOpen {
		return
	}
	s.participants[rec.UserID] = rec
	s.order = append(s.order, rec.UserID)
	answer := rec
	s.broadcastLocked(domain.SessionEvent{
		Type:      domain.EventAnswered,
		SessionID: s.id,
		State:     s.state,
		Answer:    &answer,
		At:        at,
	})
}

// finishLocked moves the session to a terminal state, sends the summary to
// watchers and closes their channels.
func (s *Session) finishLocked(state domain.SessionState, at time.Time) {
	s.state = state
	s.expireDue = false
	s.broadcastLocked(domain.SessionEvent{
		Type:          domain.EventClosed,
		SessionID:     s.id,
		State:         state,
		CorrectAnswer: s.correctAnswer,
		Participants:  s.participantsLocked(),
		At:            at,
	})
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Participants returns the recorded answers in answer order.
func (s *Session) Participants() []domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participantsLocked()
}

func (s *Session) participantsLocked() []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, 0, len(s.order))
	for _, userID := range s.order {
		out = append(out, s.participants[userID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnsweredAt.Before(out[j].AnsweredAt)
	})
	return out
}

func (s *Session) subscribe() (<-chan domain.SessionEvent, func(), bool) {
	ch := make(chan domain.SessionEvent, 8)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateOpen {
		return nil, nil, false
	}
	s.subscribers[ch] = struct{}{}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, true
}

func (s *Session) broadcastLocked(ev domain.SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// slow watcher: drop its oldest event to make room
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
