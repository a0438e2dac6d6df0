package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/benjamonnguyen/catfocus"
	"github.com/benjamonnguyen/catfocus/catalog"
	"github.com/charmbracelet/log"
)

const DefaultDrawProbability = 0.30

type RarityWeight struct {
	Rarity catfocus.Rarity
	Weight float64
}

// DefaultRarityWeights is walked cumulatively from rarest to most common.
var DefaultRarityWeights = []RarityWeight{
	{catfocus.Legendary, 0.05},
	{catfocus.Epic, 0.15},
	{catfocus.Rare, 0.30},
	{catfocus.Common, 0.50},
}

func weightedTiers(weights []RarityWeight) []catfocus.Rarity {
	tiers := make([]catfocus.Rarity, 0, len(weights))
	for _, w := range weights {
		tiers = append(tiers, w.Rarity)
	}
	return tiers
}

// RewardEngine draws collectible cards for completed focus sessions and
// holds at most one pending reward until it is collected or dismissed.
type RewardEngine interface {
	// Draw returns false for break completions, gate misses and duplicates.
	Draw(catfocus.SessionCompleted) (catfocus.OwnedCard, bool)
	Pending() (catfocus.OwnedCard, bool)
	// Collect adds the pending reward to the collection. It is a no-op
	// when nothing is pending.
	Collect(context.Context) (catfocus.OwnedCard, bool, error)
	Dismiss() (catfocus.OwnedCard, bool)
}

type rewardEngine struct {
	catalog    *catalog.Catalog
	collection CollectionProvider
	rng        *rand.Rand
	pDraw      float64
	weights    []RarityWeight
	l          log.Logger

	pending *catfocus.OwnedCard
}

func NewRewardEngine(
	c *catalog.Catalog,
	collection CollectionProvider,
	rng *rand.Rand,
	pDraw float64,
	l log.Logger,
) RewardEngine {
	return &rewardEngine{
		catalog:    c,
		collection: collection,
		rng:        rng,
		pDraw:      pDraw,
		weights:    DefaultRarityWeights,
		l:          l,
	}
}

func (e *rewardEngine) Draw(ev catfocus.SessionCompleted) (catfocus.OwnedCard, bool) {
	if ev.SessionType != catfocus.FocusSession {
		return catfocus.OwnedCard{}, false
	}
	if e.rng.Float64() >= e.pDraw {
		e.l.Debug("reward gate missed")
		return catfocus.OwnedCard{}, false
	}

	rarity := selectRarity(e.weights, e.rng.Float64())
	card := e.pickFromTier(rarity)
	if e.collection.Has(card.ID) {
		e.l.Debug("discarded duplicate draw", "cardID", card.ID, "rarity", rarity)
		return catfocus.OwnedCard{}, false
	}

	owned := catfocus.OwnedCard{
		Card:       card,
		ObtainedAt: ev.CompletedAt,
	}
	if e.pending != nil {
		e.l.Debug("replacing uncollected reward", "cardID", e.pending.ID)
	}
	e.pending = &owned
	e.l.Info("drew reward", "cardID", card.ID, "rarity", rarity)
	return owned, true
}

// selectRarity maps r in [0,1) onto the cumulative weight table.
// Rounding past the final threshold falls into the last tier.
func selectRarity(weights []RarityWeight, r float64) catfocus.Rarity {
	var cumulative float64
	for _, w := range weights {
		cumulative += w.Weight
		if r < cumulative {
			return w.Rarity
		}
	}
	return weights[len(weights)-1].Rarity
}

func (e *rewardEngine) pickFromTier(r catfocus.Rarity) catfocus.Card {
	tier := e.catalog.Tier(r)
	if len(tier) == 0 {
		panic(fmt.Sprintf("catalog has no cards with rarity %s", r))
	}
	return tier[e.rng.IntN(len(tier))]
}

func (e *rewardEngine) Pending() (catfocus.OwnedCard, bool) {
	if e.pending == nil {
		return catfocus.OwnedCard{}, false
	}
	return *e.pending, true
}

func (e *rewardEngine) Collect(ctx context.Context) (catfocus.OwnedCard, bool, error) {
	if e.pending == nil {
		return catfocus.OwnedCard{}, false, nil
	}
	card := *e.pending
	added, err := e.collection.Add(ctx, card)
	if err != nil {
		return catfocus.OwnedCard{}, false, fmt.Errorf("failed to collect card %s: %w", card.ID, err)
	}
	e.pending = nil
	return card, added, nil
}

func (e *rewardEngine) Dismiss() (catfocus.OwnedCard, bool) {
	if e.pending == nil {
		return catfocus.OwnedCard{}, false
	}
	card := *e.pending
	e.pending = nil
	return card, true
}
