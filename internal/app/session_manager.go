package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lingo-quiz-service/internal/clock"
	"lingo-quiz-service/internal/domain"
	"lingo-quiz-service/internal/progression"
	"lingo-quiz-service/internal/vocab"
)

// Config tunes the session manager.
type Config struct {
	DefaultTimeout time.Duration
	// MaxTimeout caps a requested answer window.
	MaxTimeout     time.Duration
	// OptionCount is the number of answer options including the correct one.
	OptionCount    int
	SourceLanguage string
	HistoryLimit   int
}

// DefaultConfig matches the bot's classic quiz: four options, thirty seconds.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: 30 * time.Second,
		MaxTimeout:     5 * time.Minute,
		OptionCount:    4,
		SourceLanguage: "en",
		HistoryLimit:   5,
	}
}

// Deps are the collaborators of a SessionManager. Sessions, Store, Bank and
// Translator are required; the rest fall back to defaults.
type Deps struct {
	Sessions   SessionRepository
	Store      Store
	Bank       *vocab.Bank
	Translator Translator
	Levels     *progression.LevelTable
	Scorer     *progression.Scorer
	Rules      []progression.AchievementRule
	Events     EventPublisher
	Observer   Observer
	Clock      clock.Clock
	Logger     *slog.Logger
}

// StartRequest describes a quiz to open.
type StartRequest struct {
	Mode       domain.Mode
	Difficulty string
	Language   string
	// Timeout overrides the default answer window when positive.
	Timeout time.Duration
}

// SessionManager owns the quiz session lifecycle.
type SessionManager struct {
	cfg        Config
	sessions   SessionRepository
	store      Store
	bank       *vocab.Bank
	translator Translator
	levels     *progression.LevelTable
	scorer     *progression.Scorer
	evaluator  *progression.Evaluator
	events     EventPublisher
	observer   Observer
	clock      clock.Clock
	log        *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewSessionManager(cfg Config, deps Deps) *SessionManager {
	def := DefaultConfig()
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = def.DefaultTimeout
	}
	if cfg.MaxTimeout <= 0 {
		cfg.MaxTimeout = def.MaxTimeout
	}
	if cfg.MaxTimeout < cfg.DefaultTimeout {
		cfg.MaxTimeout = cfg.DefaultTimeout
	}
	if cfg.OptionCount < 2 {
		cfg.OptionCount = def.OptionCount
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = def.SourceLanguage
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if deps.Levels == nil {
		deps.Levels = progression.DefaultLevelTable()
	}
	if deps.Scorer == nil {
		deps.Scorer = progression.NewScorer(progression.DefaultPolicy())
	}
	if deps.Rules == nil {
		deps.Rules = progression.DefaultRules()
	}
	if deps.Events == nil {
		deps.Events = nopPublisher{}
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &SessionManager{
		cfg:        cfg,
		sessions:   deps.Sessions,
		store:      deps.Store,
		bank:       deps.Bank,
		translator: deps.Translator,
		levels:     deps.Levels,
		scorer:     deps.Scorer,
		evaluator:  progression.NewEvaluator(deps.Rules, deps.Store, deps.Logger),
		events:     deps.Events,
		observer:   deps.Observer,
		clock:      deps.Clock,
		log:        deps.Logger,
	}
}

// Start draws a question, translates it and opens a timed session.
func (m *SessionManager) Start(ctx context.Context, req StartRequest) (domain.SessionHandle, error) {
	if !req.Mode.Valid() {
		return domain.SessionHandle{}, fmt.Errorf("%w %q", domain.ErrInvalidMode, req.Mode)
	}
	if _, ok := domain.LookupLanguage(req.Language); !ok {
		return domain.SessionHandle{}, fmt.Errorf("%w %q", domain.ErrUnsupportedLanguage, req.Language)
	}
	if m.isClosed() {
		return domain.SessionHandle{}, domain.ErrManagerClosed
	}
	difficulty := m.bank.Normalize(req.Difficulty)
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = m.cfg.DefaultTimeout
	}
	if timeout > m.cfg.MaxTimeout {
		timeout = m.cfg.MaxTimeout
	}

	word, category := m.bank.RandomWord(difficulty)
	if word == "" {
		return domain.SessionHandle{}, fmt.Errorf("%w: no words for difficulty %q", domain.ErrValidation, difficulty)
	}
	correct, err := m.translate(ctx, word, req.Language)
	if err != nil {
		return domain.SessionHandle{}, err
	}
	options := []string{correct}
	seen := map[string]struct{}{strings.ToLower(correct): {}}
	for _, distractor := range m.bank.Distractors(difficulty, word, m.cfg.OptionCount-1) {
		translated, err := m.translate(ctx, distractor, req.Language)
		if err != nil {
			return domain.SessionHandle{}, err
		}
		key := strings.ToLower(translated)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, translated)
	}
	correctIndex := 0
	m.bank.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correctIndex {
		case i:
			correctIndex = j
		case j:
			correctIndex = i
		}
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return domain.SessionHandle{}, domain.ErrManagerClosed
	}

	session := newSession(uuid.NewString(), req.Mode, m.clock.Now(), timeout)
	session.difficulty = difficulty
	session.language = req.Language
	session.word = word
	session.category = category
	session.correctAnswer = correct
	session.options = options
	session.correctIndex = correctIndex

	m.sessions.Put(session)
	session.mu.Lock()
	session.timer = m.clock.AfterFunc(timeout, func() { m.onDeadline(session) })
	session.mu.Unlock()

	m.observer.SessionStarted(req.Mode)
	m.log.Debug("quiz session started",
		"session_id", session.id, "mode", req.Mode, "difficulty", difficulty, "language", req.Language)
	return session.handle(m.scorer.BaseXP(difficulty)), nil
}

func (m *SessionManager) translate(ctx context.Context, text, target string) (string, error) {
	if target == m.cfg.SourceLanguage {
		return text, nil
	}
	out, err := m.translator.Translate(ctx, text, m.cfg.SourceLanguage, target)
	if err != nil {
		return "", fmt.Errorf("%w: %q to %s: %w", domain.ErrTranslation, text, target, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty translation of %q to %s", domain.ErrTranslation, text, target)
	}
	return out, nil
}

// SubmitAnswer scores a user's answer. Submissions for one session are
// serialized by the session lock; store I/O runs with the lock released while
// the user's slot stays reserved.
func (m *SessionManager) SubmitAnswer(ctx context.Context, sessionID, userID string, selected int) (domain.AnswerOutcome, error) {
	if m.isClosed() {
		return domain.AnswerOutcome{}, domain.ErrManagerClosed
	}
	session, ok := m.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}

	now := m.clock.Now()
	session.mu.Lock()
	if err := session.reserveLocked(userID, selected, now); err != nil {
		session.mu.Unlock()
		if !now.Before(session.deadline) {
			m.onDeadline(session)
		}
		return domain.AnswerOutcome{}, err
	}
	session.mu.Unlock()

	elapsed := now.Sub(session.createdAt)
	isCorrect := selected == session.correctIndex
	var (
		award      progression.Award
		prevStreak int
		newStreak  int
	)
	update, err := m.store.RecordAnswer(ctx, domain.HistoryRecord{
		UserID:        userID,
		SessionID:     session.id,
		Language:      session.language,
		Difficulty:    session.difficulty,
		Question:      session.word,
		CorrectAnswer: session.correctAnswer,
		UserAnswer:    session.options[selected],
		IsCorrect:     isCorrect,
		AnsweredAt:    now,
	}, func(current domain.UserStats, streak int) int {
		prevStreak = current.CurrentStreak
		newStreak = streak
		award = m.scorer.Score(session.difficulty, elapsed, streak, isCorrect)
		return award.Total()
	})
	if err != nil {
		m.release(session, userID)
		err = persistenceError(err)
		m.log.Error("record answer failed", "session_id", session.id, "user_id", userID, "error", err)
		return domain.AnswerOutcome{}, err
	}

	unlocked := m.evaluator.Evaluate(ctx, userID, update.After)

	answeredAt := m.clock.Now()
	record := domain.AnswerRecord{
		UserID:         userID,
		SelectedIndex:  selected,
		IsCorrect:      isCorrect,
		ElapsedSeconds: elapsed.Seconds(),
		XPAwarded:      update.XPAwarded,
		AnsweredAt:     answeredAt,
	}

	var finished domain.SessionState
	archive := false
	session.mu.Lock()
	session.recordLocked(record, answeredAt)
	if session.state == domain.StateOpen {
		switch {
		case session.mode == domain.ModeSolo:
			archive = session.expireDue
			finished = domain.StateResolved
			session.finishLocked(domain.StateResolved, answeredAt)
		case session.expireDue && len(session.inflight) == 0:
			archive = true
			finished = domain.StateExpired
			session.finishLocked(domain.StateExpired, answeredAt)
		}
	}
	session.mu.Unlock()

	if finished != "" {
		m.observer.SessionClosed(session.mode, finished)
	}
	if archive {
		m.sessions.Delete(session.id)
	}
	m.observer.AnswerRecorded(session.mode, isCorrect, update.XPAwarded)

	outcome := domain.AnswerOutcome{
		SessionID:       session.id,
		IsCorrect:       isCorrect,
		CorrectIndex:    session.correctIndex,
		CorrectAnswer:   session.correctAnswer,
		XPAwarded:       update.XPAwarded,
		TimeBonus:       award.Time,
		StreakBonus:     award.Streak,
		PreviousStreak:  prevStreak,
		NewStreak:       newStreak,
		NewXP:           update.After.XP,
		OldLevel:        update.Before.Level,
		NewLevel:        update.After.Level,
		LevelUp:         update.LevelUp(),
		NewAchievements: unlocked,
		Progress:        m.levels.NextLevelInfo(update.After.XP),
	}
	m.publish(ctx, userID, outcome, answeredAt)
	return outcome, nil
}

// release gives back a reservation after a failed commit and applies an
// expiry that was deferred while it was in flight.
func (m *SessionManager) release(session *Session, userID string) {
	session.mu.Lock()
	expire := session.releaseLocked(userID)
	if expire {
		session.finishLocked(domain.StateExpired, m.clock.Now())
	}
	session.mu.Unlock()
	if expire {
		m.archive(session, domain.StateExpired)
	}
}

// onDeadline runs when the answer window closes. Resolved solo sessions are
// archived; open ones expire unless a submission is still in flight, in which
// case the last submission to finish applies the expiry.
func (m *SessionManager) onDeadline(session *Session) {
	session.mu.Lock()
	switch session.state {
	case domain.StateResolved:
		session.mu.Unlock()
		m.sessions.Delete(session.id)
		return
	case domain.StateOpen:
	default:
		session.mu.Unlock()
		return
	}
	if len(session.inflight) > 0 {
		session.expireDue = true
		session.mu.Unlock()
		return
	}
	session.finishLocked(domain.StateExpired, m.clock.Now())
	session.mu.Unlock()
	m.archive(session, domain.StateExpired)
}

func (m *SessionManager) archive(session *Session, state domain.SessionState) {
	m.sessions.Delete(session.id)
	m.observer.SessionClosed(session.mode, state)
	m.log.Debug("quiz session closed", "session_id", session.id, "state", state)
}

func (m *SessionManager) publish(ctx context.Context, userID string, outcome domain.AnswerOutcome, at time.Time) {
	events := []Event{{
		Type:      EventAnswerRecorded,
		UserID:    userID,
		SessionID: outcome.SessionID,
		Payload: map[string]any{
			"correct": outcome.IsCorrect,
			"xp":      outcome.XPAwarded,
			"streak":  outcome.NewStreak,
			"totalXp": outcome.NewXP,
		},
		At: at,
	}}
	if outcome.LevelUp {
		events = append(events, Event{
			Type:      EventLevelUp,
			UserID:    userID,
			SessionID: outcome.SessionID,
			Payload:   map[string]any{"from": outcome.OldLevel, "to": outcome.NewLevel},
			At:        at,
		})
	}
	for _, a := range outcome.NewAchievements {
		events = append(events, Event{
			Type:      EventAchievementUnlocked,
			UserID:    userID,
			SessionID: outcome.SessionID,
			Payload:   map[string]any{"id": a.ID, "name": a.Name},
			At:        at,
		})
	}
	for _, ev := range events {
		if err := m.events.Publish(ctx, ev); err != nil {
			m.log.Warn("publish event failed", "type", ev.Type, "user_id", userID, "error", err)
		}
	}
}

// Watch subscribes to a session's answer and close events. The channel is
// closed after the close event or when cancel is called.
func (m *SessionManager) Watch(sessionID string) (<-chan domain.SessionEvent, func(), error) {
	session, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel, ok := session.subscribe()
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	return ch, cancel, nil
}

// Close stops every armed timer and closes the sessions still open. Later
// calls to Start and SubmitAnswer fail with ErrManagerClosed.
func (m *SessionManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	now := m.clock.Now()
	closed := 0
	for _, session := range m.sessions.Drain() {
		session.mu.Lock()
		session.stopTimerLocked()
		open := session.state == domain.StateOpen
		if open {
			session.finishLocked(domain.StateClosed, now)
		}
		session.mu.Unlock()
		if open {
			closed++
			m.observer.SessionClosed(session.mode, domain.StateClosed)
		}
	}
	m.log.Info("session manager closed", "open_sessions", closed)
}

func (m *SessionManager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
