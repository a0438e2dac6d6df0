package main

import (
	"context"
	"errors"
	"sync"

	"github.com/Thiht/transactor"
	"github.com/benjamonnguyen/catfocus"
	"github.com/charmbracelet/log"
)

// CollectionProvider adds an id cache on top of CardRepo so the reward
// engine can check ownership without a query.
type CollectionProvider interface {
	// Add returns false when the card is already owned. The stored
	// ObtainedAt is never overwritten.
	Add(context.Context, catfocus.OwnedCard) (bool, error)
	Has(catfocus.CardID) bool
	Query(context.Context, catfocus.CardQuery) ([]catfocus.OwnedCard, error)
	Count() int
	RarityCounts() map[catfocus.Rarity]int

	// RestoreCache loads owned ids from repo; should be called after init
	RestoreCache(context.Context) error
}

type collectionProvider struct {
	repo catfocus.CardRepo
	tx   transactor.Transactor
	l    log.Logger

	mu    sync.RWMutex
	owned map[catfocus.CardID]catfocus.Rarity
}

func NewCollectionProvider(repo catfocus.CardRepo, tx transactor.Transactor, l log.Logger) CollectionProvider {
	return &collectionProvider{
		repo:  repo,
		tx:    tx,
		l:     l,
		owned: make(map[catfocus.CardID]catfocus.Rarity),
	}
}

func (p *collectionProvider) Add(ctx context.Context, card catfocus.OwnedCard) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.owned[card.ID]; exists {
		return false, nil
	}

	var inserted bool
	err := p.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := p.repo.GetCard(ctx, card.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, catfocus.ErrNotFound) {
			return err
		}
		inserted, err = p.repo.InsertCard(ctx, card)
		return err
	})
	if err != nil {
		return false, err
	}

	p.owned[card.ID] = card.Rarity
	if inserted {
		p.l.Info("added card to collection", "cardID", card.ID, "rarity", card.Rarity)
	}
	return inserted, nil
}

func (p *collectionProvider) Has(id catfocus.CardID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, exists := p.owned[id]
	return exists
}

func (p *collectionProvider) Query(ctx context.Context, q catfocus.CardQuery) ([]catfocus.OwnedCard, error) {
	return p.repo.QueryCards(ctx, q)
}

func (p *collectionProvider) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.owned)
}

func (p *collectionProvider) RarityCounts() map[catfocus.Rarity]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	counts := make(map[catfocus.Rarity]int, 4)
	for _, r := range p.owned {
		counts[r]++
	}
	return counts
}

func (p *collectionProvider) RestoreCache(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cards, err := p.repo.ListCards(ctx)
	if err != nil {
		return err
	}
	for _, c := range cards {
		p.owned[c.ID] = c.Rarity
	}
	p.l.Info("restored collection cache", "cnt", len(cards))
	return nil
}
