package plans

import (
	"errors"
	"fmt"
	"strings"
)

type Tier string

const (
	TierNone     Tier = "none"
	TierStarter  Tier = "starter"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierComplete Tier = "complete"
)

// Currency is the only currency charges are made in.
const Currency = "USD"

var (
	ErrUnknownTier        = errors.New("unknown plan tier")
	ErrPlanDowngrade      = errors.New("plan can only move forward")
	ErrNoUpgradeAvailable = errors.New("no upgrade available for plan")
)

// Purchasable lists the tiers offered on the paywall, cheapest first.
var Purchasable = []Tier{TierStarter, TierStandard, TierPremium, TierComplete}

var rank = map[Tier]int{
	TierNone:     0,
	TierStarter:  1,
	TierStandard: 2,
	TierPremium:  3,
	TierComplete: 4,
}

// prices are display strings in major units; amounts are what gets charged.
// Both tables must agree.
var prices = map[Tier]string{
	TierStarter:  "5.99",
	TierStandard: "9.99",
	TierPremium:  "14.99",
	TierComplete: "19.99",
}

var amounts = map[Tier]int64{
	TierStarter:  599,
	TierStandard: 999,
	TierPremium:  1499,
	TierComplete: 1999,
}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TierNone, nil
	}
	if _, ok := rank[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

func (t Tier) Valid() bool {
	_, ok := rank[t]
	return ok
}

func (t Tier) Rank() int {
	return rank[t]
}

// AtLeast reports whether t unlocks everything other unlocks.
func (t Tier) AtLeast(other Tier) bool {
	return rank[t] >= rank[other]
}

func Price(t Tier) (string, bool) {
	p, ok := prices[t]
	return p, ok
}

// Amount is the charge for a tier in minor units (cents).
func Amount(t Tier) (int64, bool) {
	a, ok := amounts[t]
	return a, ok
}

// UpgradeAmount is what a buyer of t pays to reach complete.
func UpgradeAmount(t Tier) (int64, error) {
	switch t {
	case TierStarter, TierStandard, TierPremium:
		return amounts[TierComplete] - amounts[t], nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNoUpgradeAvailable, t)
	}
}

func UpgradePrice(t Tier) (string, error) {
	amount, err := UpgradeAmount(t)
	if err != nil {
		return "", err
	}
	return FormatMinor(amount), nil
}

// FormatMinor renders cents as a major-unit string, e.g. 1000 -> "10.00".
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// Advance returns next when it is strictly above current.
func Advance(current, next Tier) (Tier, error) {
	if !next.Valid() || next == TierNone {
		return current, fmt.Errorf("%w: %q", ErrUnknownTier, next)
	}
	if rank[next] <= rank[current] {
		return current, fmt.Errorf("%w: %s -> %s", ErrPlanDowngrade, current, next)
	}
	return next, nil
}
