// Package sessions contains the in-memory per-user interaction state
package sessions

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/luffex/filegate/internal/domain/filegate/deps"
	"github.com/luffex/filegate/internal/domain/filegate/dto"
	"github.com/luffex/filegate/internal/domain/filegate/entities"
)

// userState is the transient conversation state of one user.
// Zero value means no session of any kind.
type userState struct {
	uploadOpen      bool
	uploadBundleID  string
	uploadItems     []entities.ContentItem
	broadcastTarget string
	awaitingCast    bool
	broadcastDraft  *dto.BroadcastDraft
	awaitingFileID  bool
	touched         time.Time
}

func (s *userState) empty() bool {
	return !s.uploadOpen && !s.awaitingCast && s.broadcastDraft == nil && !s.awaitingFileID
}

// Store keeps per-user session state behind a single mutex. State is
// process-local; a restart drops all open sessions, which is acceptable
// because every flow can simply be restarted by the user.
type Store struct {
	mu     sync.Mutex
	states map[int64]*userState
	ttl    time.Duration
	clock  deps.Clock
	logger zerolog.Logger
}

// NewStore creates a session store with the given idle TTL
func NewStore(ttl time.Duration, clock deps.Clock, logger zerolog.Logger) *Store {
	return &Store{
		states: make(map[int64]*userState),
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// state returns the existing state or a fresh one, touching it
func (s *Store) state(userID int64) *userState {
	st, ok := s.states[userID]
	if !ok {
		st = &userState{}
		s.states[userID] = st
	}
	st.touched = s.clock.Now()
	return st
}

// BeginUpload opens a fresh upload session, silently discarding any
// unfinished prior buffer
func (s *Store) BeginUpload(userID int64, bundleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	st.uploadOpen = true
	st.uploadBundleID = bundleID
	st.uploadItems = nil
}

// AppendUpload appends one item to the open session
func (s *Store) AppendUpload(userID int64, item entities.ContentItem) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if !st.uploadOpen {
		return 0, false
	}
	st.uploadItems = append(st.uploadItems, item)
	return len(st.uploadItems), true
}

// TakeUpload closes the session and returns its buffer
func (s *Store) TakeUpload(userID int64) (string, []entities.ContentItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if !st.uploadOpen {
		return "", nil, false
	}
	bundleID, items := st.uploadBundleID, st.uploadItems
	st.uploadOpen = false
	st.uploadBundleID = ""
	st.uploadItems = nil
	return bundleID, items, true
}

// SetAwaitingBroadcast marks or clears broadcast content capture
func (s *Store) SetAwaitingBroadcast(userID int64, target string, awaiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	st.awaitingCast = awaiting
	if awaiting {
		st.broadcastTarget = target
	} else {
		st.broadcastTarget = ""
	}
}

// AwaitingBroadcast returns the capture target when marked
func (s *Store) AwaitingBroadcast(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	return st.broadcastTarget, st.awaitingCast
}

// SetBroadcastDraft stores a broadcast awaiting confirmation
func (s *Store) SetBroadcastDraft(userID int64, draft *dto.BroadcastDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(userID).broadcastDraft = draft
}

// BroadcastDraft returns the stored draft when present
func (s *Store) BroadcastDraft(userID int64) (*dto.BroadcastDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	return st.broadcastDraft, st.broadcastDraft != nil
}

// ClearBroadcast drops draft and capture state
func (s *Store) ClearBroadcast(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	st.broadcastDraft = nil
	st.awaitingCast = false
	st.broadcastTarget = ""
}

// SetAwaitingFileID marks the user as inspecting file IDs
func (s *Store) SetAwaitingFileID(userID int64, awaiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state(userID).awaitingFileID = awaiting
}

// AwaitingFileID reports and clears the mark
func (s *Store) AwaitingFileID(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	if !st.awaitingFileID {
		return false
	}
	st.awaitingFileID = false
	return true
}

// Sweep drops states idle longer than the TTL and empty states.
// Called periodically by the scheduler.
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.ttl)
	swept := 0
	for userID, st := range s.states {
		if st.empty() || st.touched.Before(cutoff) {
			delete(s.states, userID)
			swept++
		}
	}
	if swept > 0 {
		s.logger.Debug().Int("swept", swept).Msg("Expired idle sessions")
	}
}
