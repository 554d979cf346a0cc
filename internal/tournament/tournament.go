// Package tournament implements the competitive pool lifecycle:
// upcoming → active → completed, one-way and settled exactly once.
package tournament

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidxd786/mememarket/internal/domain"
)

const (
	winBasePoints  = 10
	lossBasePoints = 1
	streakBonus    = 1.5 // applied when won && consecutiveWins > 1
)

// prizeFractions pays the top-K ranks; the fractions sum to 1.
var prizeFractions = []float64{0.5, 0.3, 0.2}

// Status is the tournament lifecycle state.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Participant is one user's standing in a tournament.
type Participant struct {
	UserID      string
	Points      int
	Rank        int
	Wins        int
	Predictions int
	JoinedAt    time.Time
}

// Tournament is a competitive pool. Leaderboard order is authoritative:
// re-sorted and re-ranked after every point change.
type Tournament struct {
	ID              string
	Name            string
	Status          Status
	EntryFee        float64
	PrizePool       float64
	MaxParticipants int
	Leaderboard     []Participant
	CreatedAt       time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
}

// Prize is one settled payout.
type Prize struct {
	UserID string
	Rank   int
	Amount float64
}

// Manager owns all tournaments. Serialized by its own mutex; portfolio
// mutations happen inside the caller-provided ledger update.
type Manager struct {
	mu          sync.Mutex
	tournaments map[string]*Tournament
	now         func() time.Time
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		tournaments: make(map[string]*Tournament),
		now:         time.Now,
	}
}

// Create registers a new upcoming tournament and returns its ID.
func (m *Manager) Create(name string, entryFee float64, maxParticipants int) (Tournament, error) {
	if entryFee < 0 {
		return Tournament{}, domain.NewValidationError("entryFee", "must not be negative")
	}
	if maxParticipants < len(prizeFractions) {
		return Tournament{}, domain.NewValidationError("maxParticipants",
			fmt.Sprintf("must allow at least %d participants", len(prizeFractions)))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := &Tournament{
		ID:              uuid.New().String(),
		Name:            name,
		Status:          StatusUpcoming,
		EntryFee:        entryFee,
		MaxParticipants: maxParticipants,
		CreatedAt:       m.now(),
	}
	m.tournaments[t.ID] = t
	return *t, nil
}

// Get returns a copy of the tournament.
func (m *Manager) Get(id string) (Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.getLocked(id)
	if err != nil {
		return Tournament{}, err
	}
	return copyTournament(t), nil
}

func (m *Manager) getLocked(id string) (*Tournament, error) {
	t, ok := m.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %q: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// Join enrolls a portfolio. Rejected if the tournament is not upcoming,
// is full, the balance does not cover the entry fee, or the user already
// holds a leaderboard entry. On success the fee is debited from the
// portfolio and pooled into the prize pool — atomically: any rejection
// leaves both tournament and portfolio untouched.
func (m *Manager) Join(id string, p *domain.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.getLocked(id)
	if err != nil {
		return err
	}
	if t.Status != StatusUpcoming {
		return fmt.Errorf("tournament.Join: status %s: %w", t.Status, domain.ErrInvalidState)
	}
	if len(t.Leaderboard) >= t.MaxParticipants {
		return fmt.Errorf("tournament.Join: %w", domain.ErrCapacityExceeded)
	}
	for _, part := range t.Leaderboard {
		if part.UserID == p.UserID {
			return fmt.Errorf("tournament.Join: user %s: %w", p.UserID, domain.ErrAlreadyParticipating)
		}
	}
	if p.Balance < t.EntryFee {
		return fmt.Errorf("tournament.Join: entry fee %.2f > balance %.2f: %w",
			t.EntryFee, p.Balance, domain.ErrInsufficientFunds)
	}

	p.Balance -= t.EntryFee
	p.CurrentTournamentID = t.ID
	t.PrizePool += t.EntryFee
	t.Leaderboard = append(t.Leaderboard, Participant{
		UserID:   p.UserID,
		JoinedAt: m.now(),
		Rank:     len(t.Leaderboard) + 1,
	})
	return nil
}

// Start transitions upcoming → active.
func (m *Manager) Start(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.getLocked(id)
	if err != nil {
		return err
	}
	if t.Status != StatusUpcoming {
		return fmt.Errorf("tournament.Start: status %s: %w", t.Status, domain.ErrInvalidState)
	}
	now := m.now()
	t.Status = StatusActive
	t.StartedAt = &now
	return nil
}

// ScorePoint credits a resolved prediction to the participant:
//
//	points = basePoints(won) × (streakBonus if won && consecutiveWins>1)
//
// and re-ranks the leaderboard. Only active tournaments score.
func (m *Manager) ScorePoint(id, userID string, won bool, consecutiveWins int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.getLocked(id)
	if err != nil {
		return err
	}
	if t.Status != StatusActive {
		return fmt.Errorf("tournament.ScorePoint: status %s: %w", t.Status, domain.ErrInvalidState)
	}

	part := findParticipant(t, userID)
	if part == nil {
		return fmt.Errorf("tournament.ScorePoint: user %q: %w", userID, domain.ErrNotFound)
	}

	points := float64(lossBasePoints)
	if won {
		points = winBasePoints
		if consecutiveWins > 1 {
			points *= streakBonus
		}
		part.Wins++
	}
	part.Points += int(points)
	part.Predictions++
	rerank(t)
	return nil
}

// End transitions active → completed, freezes the leaderboard and pays
// prizePool × fraction[i] to the top-K ranks. Irreversible.
func (m *Manager) End(id string) ([]Prize, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusActive {
		return nil, fmt.Errorf("tournament.End: status %s: %w", t.Status, domain.ErrInvalidState)
	}

	rerank(t)
	now := m.now()
	t.Status = StatusCompleted
	t.EndedAt = &now

	var prizes []Prize
	for i, fraction := range prizeFractions {
		if i >= len(t.Leaderboard) {
			break
		}
		prizes = append(prizes, Prize{
			UserID: t.Leaderboard[i].UserID,
			Rank:   i + 1,
			Amount: t.PrizePool * fraction,
		})
	}
	return prizes, nil
}

// rerank sorts descending by points and reassigns contiguous ranks 1..N.
// Ties break by join order (earlier joiner ranks higher).
func rerank(t *Tournament) {
	sort.SliceStable(t.Leaderboard, func(i, j int) bool {
		return t.Leaderboard[i].Points > t.Leaderboard[j].Points
	})
	for i := range t.Leaderboard {
		t.Leaderboard[i].Rank = i + 1
	}
}

func findParticipant(t *Tournament, userID string) *Participant {
	for i := range t.Leaderboard {
		if t.Leaderboard[i].UserID == userID {
			return &t.Leaderboard[i]
		}
	}
	return nil
}

func copyTournament(t *Tournament) Tournament {
	cp := *t
	cp.Leaderboard = append([]Participant(nil), t.Leaderboard...)
	return cp
}
