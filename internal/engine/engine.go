// Package engine is the single source of truth for a run. Every gameplay
// operation goes through a Store, which applies it atomically: an operation
// either commits all of its changes or, when a precondition fails, leaves
// the state untouched.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

var (
	// ErrEventActive is returned when an event is triggered while another
	// one is still waiting for a choice. The new event replaces the old one.
	ErrEventActive = errors.New("an event is already awaiting a choice")
	// ErrNotPlaying is returned when an event is triggered outside an
	// active run.
	ErrNotPlaying = errors.New("no active run")
	// ErrUnknownEvent is returned for event ids missing from the tables.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrNoStorage is returned by Save and Load when no storage is wired.
	ErrNoStorage = errors.New("no storage configured")
)

// Storage persists snapshots under a slot name. Load returns nil and no
// error for an empty slot.
type Storage interface {
	Save(ctx context.Context, slot string, snap *models.Snapshot) error
	Load(ctx context.Context, slot string) (*models.Snapshot, error)
}

// Store is the composition root of the simulation.
type Store struct {
	mu     sync.RWMutex
	tables *content.Tables
	state  *models.Snapshot
	rng    Rand
	seeded *seededRand
	log    logrus.FieldLogger
	newID  func() string

	storage Storage
	slot    string

	subsMu sync.RWMutex
	subs   map[int]Subscriber
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithRand injects the random source. Runs using an injected source cannot
// be resumed mid-stream after a restore.
func WithRand(r Rand) Option {
	return func(s *Store) {
		s.rng = r
		s.seeded = nil
	}
}

// WithSeed makes the default random stream reproducible.
func WithSeed(seed int64) Option {
	return func(s *Store) {
		s.seeded = newSeededRand(seed, 0)
		s.rng = s.seeded
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithStorage wires persistence for Save and Load.
func WithStorage(st Storage, slot string) Option {
	return func(s *Store) {
		s.storage = st
		s.slot = slot
	}
}

// WithIDGenerator replaces the run id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates a store in the intro phase.
func New(tables *content.Tables, opts ...Option) *Store {
	s := &Store{
		tables: tables,
		log:    logrus.StandardLogger(),
		newID:  func() string { return uuid.New().String() },
		subs:   map[int]Subscriber{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.seeded = newSeededRand(time.Now().UnixNano(), 0)
		s.rng = s.seeded
	}
	s.state = fresh(tables)
	s.stampRand(s.state)
	return s
}

// Tables returns the content the store was built with.
func (s *Store) Tables() *content.Tables {
	return s.tables
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Restore replaces the current state with snap. When the store owns a
// seeded stream and the snapshot carries a seed, the stream is rewound to
// the position recorded in the snapshot.
func (s *Store) Restore(snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	if snap.Phase == "" {
		return fmt.Errorf("restore: snapshot has no phase")
	}

	s.mu.Lock()
	s.state = snap.Clone()
	if s.seeded != nil && snap.Seed != 0 {
		s.seeded = newSeededRand(snap.Seed, snap.RandDraws)
		s.rng = s.seeded
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"run": snap.RunID, "phase": snap.Phase}).Info("Run restored")
	return nil
}

// Save writes the current state to the configured storage slot.
func (s *Store) Save(ctx context.Context) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if err := s.storage.Save(ctx, s.slot, s.Snapshot()); err != nil {
		return fmt.Errorf("saving slot %s: %w", s.slot, err)
	}
	return nil
}

// Load restores the configured storage slot. It reports false when the slot
// is empty.
func (s *Store) Load(ctx context.Context) (bool, error) {
	if s.storage == nil {
		return false, ErrNoStorage
	}
	snap, err := s.storage.Load(ctx, s.slot)
	if err != nil {
		return false, fmt.Errorf("loading slot %s: %w", s.slot, err)
	}
	if snap == nil {
		return false, nil
	}
	return true, s.Restore(snap)
}

// Subscribe registers fn for domain events and returns a function that
// removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	s.subsMu.RLock()
	subs := make([]Subscriber, 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.subsMu.RUnlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// AppendLog records a message in the bounded event log.
func (s *Store) AppendLog(msg string) {
	s.mu.Lock()
	next := s.state.Clone()
	appendLog(next, msg, s.tables.Balance.LogCapacity)
	s.state = next
	s.mu.Unlock()
}

// update runs fn against a copy of the state and commits the copy only when
// fn reports success.
func (s *Store) update(op string, fn func(tx *txn) bool) bool {
	s.mu.Lock()
	tx := &txn{
		st:  s.state.Clone(),
		t:   s.tables,
		bal: &s.tables.Balance,
		rng: s.rng,
		log: s.log.WithField("op", op),
		id:  s.newID,
	}
	ok := fn(tx)
	if ok {
		tx.settle()
		s.stampRand(tx.st)
		s.state = tx.st
	}
	s.mu.Unlock()

	if !ok {
		tx.log.Debug("Precondition failed, state unchanged")
		return false
	}
	s.publish(tx.events)
	return true
}

func (s *Store) stampRand(st *models.Snapshot) {
	if s.seeded == nil {
		return
	}
	st.Seed = s.seeded.seed
	st.RandDraws = s.seeded.draws()
}

func fresh(t *content.Tables) *models.Snapshot {
	b := t.Balance
	st := &models.Snapshot{
		Phase: models.PhaseIntro,
		Stats: b.StartingStats,
		Visa:  models.VisaStatus{Subclass: models.Visa500},
		Clock: models.Clock{
			Year:            1,
			Quarter:         1,
			TotalQuarters:   1,
			ActionPoints:    b.MaxActionPoints,
			MaxActionPoints: b.MaxActionPoints,
		},
		Housing:      b.StartingHousing,
		Region:       b.StartingRegion,
		NPCRelations: map[string]int{},
	}
	for _, n := range t.NPCs() {
		st.NPCRelations[n.ID] = n.InitialRel
	}
	return st
}

// appendLog keeps the newest entry first and drops the oldest past capacity.
func appendLog(st *models.Snapshot, msg string, capacity int) {
	st.EventsLog = append([]string{msg}, st.EventsLog...)
	if capacity > 0 && len(st.EventsLog) > capacity {
		st.EventsLog = st.EventsLog[:capacity]
	}
}
