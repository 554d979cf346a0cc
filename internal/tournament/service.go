package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// Ledger is the portfolio updater tournaments enroll and settle through.
// *ledger.Book satisfies it.
type Ledger interface {
	Update(ctx context.Context, userID string, fn func(p *domain.Portfolio) error) error
}

// Service composes the Manager with the ledger of record: entry fees and
// prizes land in the authoritative portfolio, not in a detached copy.
type Service struct {
	manager *Manager
	ledger  Ledger
	now     func() time.Time
}

// NewService creates a Service over an existing Manager and ledger.
func NewService(m *Manager, l Ledger) *Service {
	return &Service{manager: m, ledger: l, now: time.Now}
}

// Enroll joins the user into the tournament, debiting the entry fee from
// the ledgered portfolio. A rejected join leaves portfolio and tournament
// both untouched.
func (s *Service) Enroll(ctx context.Context, tournamentID, userID string) error {
	return s.ledger.Update(ctx, userID, func(p *domain.Portfolio) error {
		return s.manager.Join(tournamentID, p)
	})
}

// Settle ends the tournament and credits every payout through the ledger:
// prize amounts are added to the winners' balances with an income entry,
// final points are banked into TournamentPoints, and the participation
// marker is cleared. Returns the prizes in rank order.
func (s *Service) Settle(ctx context.Context, tournamentID string) ([]Prize, error) {
	prizes, err := s.manager.End(tournamentID)
	if err != nil {
		return nil, err
	}

	t, err := s.manager.Get(tournamentID)
	if err != nil {
		return nil, err
	}

	amounts := make(map[string]float64, len(prizes))
	for _, prize := range prizes {
		amounts[prize.UserID] = prize.Amount
	}

	for _, part := range t.Leaderboard {
		part := part
		err := s.ledger.Update(ctx, part.UserID, func(p *domain.Portfolio) error {
			p.TournamentPoints += part.Points
			if p.CurrentTournamentID == tournamentID {
				p.CurrentTournamentID = ""
			}
			if amount := amounts[part.UserID]; amount > 0 {
				p.Balance += amount
				p.Income = append(p.Income, domain.IncomeEntry{
					Kind:   domain.IncomeTournament,
					Amount: amount,
					At:     s.now(),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("tournament.Settle: credit %s: %w", part.UserID, err)
		}
	}
	return prizes, nil
}
