package tournament

import (
	"context"
	"testing"

	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollDebitsLedgeredPortfolio(t *testing.T) {
	ctx := context.Background()
	book := ledger.NewBook(nil)
	mgr := NewManager()
	svc := NewService(mgr, book)

	created, err := mgr.Create("Weekly Meme Cup", 100, 8)
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(ctx, created.ID, "annie"))

	p := book.Get(ctx, "annie")
	assert.Equal(t, domain.StartingBalance-100, p.Balance)
	assert.Equal(t, created.ID, p.CurrentTournamentID)

	got, err := mgr.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.PrizePool)
}

func TestEnrollRejectionLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	book := ledger.NewBook(nil)
	mgr := NewManager()
	svc := NewService(mgr, book)

	created, err := mgr.Create("Weekly Meme Cup", 100, 8)
	require.NoError(t, err)

	require.NoError(t, svc.Enroll(ctx, created.ID, "annie"))
	before := book.Get(ctx, "annie")

	err = svc.Enroll(ctx, created.ID, "annie")
	require.ErrorIs(t, err, domain.ErrAlreadyParticipating)

	assert.Equal(t, before, book.Get(ctx, "annie"))
	got, err := mgr.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.PrizePool)
}

func TestSettleCreditsPrizesThroughLedger(t *testing.T) {
	ctx := context.Background()
	book := ledger.NewBook(nil)
	mgr := NewManager()
	svc := NewService(mgr, book)

	created, err := mgr.Create("Weekly Meme Cup", 100, 8)
	require.NoError(t, err)
	for _, user := range []string{"annie", "bob", "cara"} {
		require.NoError(t, svc.Enroll(ctx, created.ID, user))
	}
	require.NoError(t, mgr.Start(created.ID))

	// annie: dos victorias seguidas (10 + 15), bob: una (10), cara: derrota (1).
	require.NoError(t, mgr.ScorePoint(created.ID, "annie", true, 1))
	require.NoError(t, mgr.ScorePoint(created.ID, "annie", true, 2))
	require.NoError(t, mgr.ScorePoint(created.ID, "bob", true, 1))
	require.NoError(t, mgr.ScorePoint(created.ID, "cara", false, 0))

	prizes, err := svc.Settle(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, prizes, 3)
	assert.Equal(t, "annie", prizes[0].UserID)
	assert.Equal(t, 150.0, prizes[0].Amount)

	annie := book.Get(ctx, "annie")
	assert.Equal(t, domain.StartingBalance-100+150, annie.Balance)
	assert.Equal(t, 25, annie.TournamentPoints)
	assert.Empty(t, annie.CurrentTournamentID)
	require.Len(t, annie.Income, 1)
	assert.Equal(t, domain.IncomeTournament, annie.Income[0].Kind)
	assert.Equal(t, 150.0, annie.Income[0].Amount)

	summary := book.Summarize(ctx, "annie")
	assert.Equal(t, 150.0, summary.TournamentPrizes)

	// Los perdedores también banquean sus puntos.
	cara := book.Get(ctx, "cara")
	assert.Equal(t, 1, cara.TournamentPoints)
	assert.Equal(t, 60.0, cara.Income[0].Amount)
}

func TestSettleOnlyOnce(t *testing.T) {
	ctx := context.Background()
	book := ledger.NewBook(nil)
	mgr := NewManager()
	svc := NewService(mgr, book)

	created, err := mgr.Create("Weekly Meme Cup", 50, 8)
	require.NoError(t, err)
	for _, user := range []string{"annie", "bob", "cara"} {
		require.NoError(t, svc.Enroll(ctx, created.ID, user))
	}
	require.NoError(t, mgr.Start(created.ID))

	_, err = svc.Settle(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.Settle(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
