// Package staking implementa el acumulador de yield por tiers sobre el
// balance stakeado de un portfolio. No tiene estado propio: opera sobre
// el Portfolio bajo el lock del ledger (Book.Update).
package staking

import (
	"fmt"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// defaultTiers es la tabla estática min/max/APR.
// El tier se selecciona por la cantidad stakeada actual.
var defaultTiers = []domain.StakingTier{
	{Name: "bronze", MinAmount: 0, MaxAmount: 999.99, APR: 5},
	{Name: "silver", MinAmount: 1_000, MaxAmount: 4_999.99, APR: 8},
	{Name: "gold", MinAmount: 5_000, MaxAmount: 19_999.99, APR: 12},
	{Name: "diamond", MinAmount: 20_000, MaxAmount: 0, APR: 18},
}

// Calculator calcula y aplica rewards de staking.
type Calculator struct {
	tiers []domain.StakingTier
	now   func() time.Time
}

// New crea un Calculator con la tabla de tiers por defecto.
func New() *Calculator {
	return &Calculator{tiers: defaultTiers, now: time.Now}
}

// TierFor devuelve el tier correspondiente a la cantidad stakeada.
func (c *Calculator) TierFor(amount float64) domain.StakingTier {
	for _, t := range c.tiers {
		if t.Contains(amount) {
			return t
		}
	}
	// amount negativo o fuera de tabla: bracket base
	return c.tiers[0]
}

// Stake mueve fondos de balance a staked y resetea el reloj de claim.
// El reward pendiente se auto-reclama primero para no perderlo al
// resetear el reloj.
func (c *Calculator) Stake(p *domain.Portfolio, amount float64) error {
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be positive")
	}
	if amount > p.Balance {
		return fmt.Errorf("staking.Stake: amount %.2f > balance %.2f: %w",
			amount, p.Balance, domain.ErrInsufficientFunds)
	}

	c.applyClaim(p)
	p.Balance -= amount
	p.StakedBalance += amount
	return nil
}

// Unstake devuelve fondos de staked a balance. Primero auto-reclama el
// reward pendiente (el reloj se resetea y el reward se perdería).
func (c *Calculator) Unstake(p *domain.Portfolio, amount float64) error {
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be positive")
	}
	if amount > p.StakedBalance {
		return fmt.Errorf("staking.Unstake: amount %.2f > staked %.2f: %w",
			amount, p.StakedBalance, domain.ErrInsufficientFunds)
	}

	c.applyClaim(p)
	p.StakedBalance -= amount
	p.Balance += amount
	return nil
}

// ClaimableReward devuelve el reward acumulado desde el último claim:
//
//	staked × (APR/100/365) × (horasDesdeClaim/24)
//
// floored a 0. No muta el portfolio.
func (c *Calculator) ClaimableReward(p *domain.Portfolio) float64 {
	if p.StakedBalance <= 0 {
		return 0
	}
	hours := c.now().Sub(p.LastStakingClaim).Hours()
	if hours <= 0 {
		return 0
	}
	tier := c.TierFor(p.StakedBalance)
	return p.StakedBalance * (tier.APR / 100 / 365) * (hours / 24)
}

// Claim acredita el reward pendiente a balance y al contador acumulado,
// y resetea el reloj. Reclamar dos veces seguidas rinde 0 la segunda.
func (c *Calculator) Claim(p *domain.Portfolio) float64 {
	return c.applyClaim(p)
}

func (c *Calculator) applyClaim(p *domain.Portfolio) float64 {
	reward := c.ClaimableReward(p)
	now := c.now()
	if reward > 0 {
		p.Balance += reward
		p.StakingRewardsAccrued += reward
		p.Income = append(p.Income, domain.IncomeEntry{
			Kind:   domain.IncomeStaking,
			Amount: reward,
			At:     now,
		})
	}
	p.LastStakingClaim = now
	return reward
}
