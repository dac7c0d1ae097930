package wizard

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

const defaultSessionTTL = 45 * time.Minute

type storeEntry struct {
	mu      sync.Mutex
	session *Session
	expiry  time.Time
}

// Store keeps wizard sessions in memory with a TTL. All mutations go
// through Update, which serializes per session.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	s := &Store{
		entries: make(map[string]*storeEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create validates the offer and registers a new session.
func (s *Store) Create(offer models.Offer) (*Session, error) {
	session, err := newSession(uuid.NewString(), uuid.NewString(), offer)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[session.ID] = &storeEntry{session: session, expiry: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return snapshot(session), nil
}

// Get returns a copy of the session for rendering.
func (s *Store) Get(id string) (*Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return snapshot(entry.session), nil
}

// Update runs fn against the live session under its lock and extends the
// TTL on success.
func (s *Store) Update(id string, fn func(*Session) error) (*Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.session); err != nil {
		return nil, err
	}
	entry.session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	entry.expiry = time.Now().Add(s.ttl)
	s.mu.Unlock()

	return snapshot(entry.session), nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) lookup(id string) (*storeEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NotFoundError{Resource: "wizard session"}
	}

	s.mu.Lock()
	expired := time.Now().After(entry.expiry)
	if expired {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if expired {
		return nil, domain.NotFoundError{Resource: "wizard session"}
	}
	return entry, nil
}

func (s *Store) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.entries {
				if now.After(entry.expiry) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

func snapshot(session *Session) *Session {
	clone := *session
	clone.Travelers = append([]models.Traveler(nil), session.Travelers...)
	clone.Offer.Segments = append([]models.Segment(nil), session.Offer.Segments...)
	clone.Offer.Raw = append(json.RawMessage(nil), session.Offer.Raw...)
	if session.Payment != nil {
		payment := *session.Payment
		clone.Payment = &payment
	}
	return &clone
}
