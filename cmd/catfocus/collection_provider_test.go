package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Thiht/transactor"
	"github.com/benjamonnguyen/catfocus"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// mockCardRepo is an in-memory catfocus.CardRepo
type mockCardRepo struct {
	cards     []catfocus.OwnedCard
	inserts   int
	insertErr error
}

func (m *mockCardRepo) InsertCard(_ context.Context, c catfocus.OwnedCard) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	m.inserts++
	for _, existing := range m.cards {
		if existing.ID == c.ID {
			return false, nil
		}
	}
	m.cards = append(m.cards, c)
	return true, nil
}

func (m *mockCardRepo) GetCard(_ context.Context, id catfocus.CardID) (catfocus.OwnedCard, error) {
	for _, c := range m.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return catfocus.OwnedCard{}, catfocus.ErrNotFound
}

func (m *mockCardRepo) QueryCards(_ context.Context, _ catfocus.CardQuery) ([]catfocus.OwnedCard, error) {
	return m.cards, nil
}

func (m *mockCardRepo) ListCards(ctx context.Context) ([]catfocus.OwnedCard, error) {
	return m.QueryCards(ctx, catfocus.CardQuery{})
}

var _ catfocus.CardRepo = (*mockCardRepo)(nil)

// mockTransactor is a mock implementation of transactor.Transactor
type mockTransactor struct {
	withinTransactionFunc func(context.Context, func(context.Context) error) error
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if m.withinTransactionFunc != nil {
		return m.withinTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ transactor.Transactor = (*mockTransactor)(nil)

func testCard(id string, rarity catfocus.Rarity) catfocus.Card {
	return catfocus.Card{
		ID:            catfocus.CardID(id),
		DisplayName:   id,
		SourcePersona: "Someone Famous",
		Rarity:        rarity,
		Emoji:         "🐱",
	}
}

func TestCollectionProvider_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		repo := &mockCardRepo{}
		p := NewCollectionProvider(repo, &mockTransactor{}, *log.Default())

		card := catfocus.OwnedCard{Card: testCard("tesla-cat", catfocus.Epic), ObtainedAt: testNow}
		added, err := p.Add(ctx, card)
		require.NoError(t, err)
		assert.True(t, added)
		assert.True(t, p.Has("tesla-cat"))
		assert.Equal(t, 1, p.Count())
		assert.Equal(t, map[catfocus.Rarity]int{catfocus.Epic: 1}, p.RarityCounts())
		assert.Equal(t, []catfocus.OwnedCard{card}, repo.cards)
	})

	t.Run("duplicate keeps first obtainedAt", func(t *testing.T) {
		t.Parallel()

		repo := &mockCardRepo{}
		p := NewCollectionProvider(repo, &mockTransactor{}, *log.Default())

		first := catfocus.OwnedCard{Card: testCard("tesla-cat", catfocus.Epic), ObtainedAt: testNow}
		_, err := p.Add(ctx, first)
		require.NoError(t, err)

		second := first
		second.ObtainedAt = testNow.Add(time.Hour)
		added, err := p.Add(ctx, second)
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 1, repo.inserts, "cached id should skip the repo")
		assert.Equal(t, 1, p.Count())

		got, err := repo.GetCard(ctx, "tesla-cat")
		require.NoError(t, err)
		assert.Equal(t, testNow, got.ObtainedAt)
	})

	t.Run("owned in repo but not cached", func(t *testing.T) {
		t.Parallel()

		existing := catfocus.OwnedCard{Card: testCard("monroe-cat", catfocus.Rare), ObtainedAt: testNow}
		repo := &mockCardRepo{cards: []catfocus.OwnedCard{existing}}
		p := NewCollectionProvider(repo, &mockTransactor{}, *log.Default())

		dup := existing
		dup.ObtainedAt = testNow.Add(time.Hour)
		added, err := p.Add(ctx, dup)
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 0, repo.inserts)
		assert.True(t, p.Has("monroe-cat"))
	})

	t.Run("insert error", func(t *testing.T) {
		t.Parallel()

		repo := &mockCardRepo{insertErr: errors.New("disk full")}
		p := NewCollectionProvider(repo, &mockTransactor{}, *log.Default())

		added, err := p.Add(ctx, catfocus.OwnedCard{Card: testCard("tesla-cat", catfocus.Epic)})
		assert.Error(t, err)
		assert.False(t, added)
		assert.False(t, p.Has("tesla-cat"))
	})

	t.Run("transactor error", func(t *testing.T) {
		t.Parallel()

		repo := &mockCardRepo{}
		tx := &mockTransactor{
			withinTransactionFunc: func(ctx context.Context, fn func(context.Context) error) error {
				return errors.New("transaction begin failed")
			},
		}
		p := NewCollectionProvider(repo, tx, *log.Default())

		_, err := p.Add(ctx, catfocus.OwnedCard{Card: testCard("tesla-cat", catfocus.Epic)})
		assert.Error(t, err)
		assert.Equal(t, 0, p.Count())
	})
}

func TestCollectionProvider_RestoreCache(t *testing.T) {
	t.Parallel()

	repo := &mockCardRepo{cards: []catfocus.OwnedCard{
		{Card: testCard("a", catfocus.Common)},
		{Card: testCard("b", catfocus.Common)},
		{Card: testCard("c", catfocus.Legendary)},
	}}
	p := NewCollectionProvider(repo, &mockTransactor{}, *log.Default())
	assert.False(t, p.Has("a"))

	require.NoError(t, p.RestoreCache(context.Background()))
	assert.True(t, p.Has("a"))
	assert.True(t, p.Has("c"))
	assert.Equal(t, 3, p.Count())
	assert.Equal(t, map[catfocus.Rarity]int{catfocus.Common: 2, catfocus.Legendary: 1}, p.RarityCounts())

	cards, err := p.Query(context.Background(), catfocus.CardQuery{})
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}
