// Package catalog loads the read-only collectible card catalog.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/benjamonnguyen/catfocus"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type Catalog struct {
	cards  []catfocus.Card
	byID   map[catfocus.CardID]catfocus.Card
	byTier map[catfocus.Rarity][]catfocus.Card
}

type catalogFile struct {
	Cards []catfocus.Card `yaml:"cards"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile parses a YAML catalog from path. An empty path selects the default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close() //nolint
	return Parse(f)
}

func Parse(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", catfocus.ErrInvalidCatalog, err)
	}
	return New(file.Cards...)
}

// New validates the cards. Ids must be unique.
func New(cards ...catfocus.Card) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[catfocus.CardID]catfocus.Card, len(cards)),
		byTier: make(map[catfocus.Rarity][]catfocus.Card),
	}
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", catfocus.ErrInvalidCatalog, err)
		}
		if _, exists := c.byID[card.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate card id %s", catfocus.ErrInvalidCatalog, card.ID)
		}
		c.byID[card.ID] = card
		c.byTier[card.Rarity] = append(c.byTier[card.Rarity], card)
		c.cards = append(c.cards, card)
	}
	return c, nil
}

// RequireTiers fails when any of the given tiers has no cards.
func (c *Catalog) RequireTiers(tiers ...catfocus.Rarity) error {
	for _, r := range tiers {
		if len(c.byTier[r]) == 0 {
			return fmt.Errorf("%w: no cards with rarity %s", catfocus.ErrInvalidCatalog, r)
		}
	}
	return nil
}

func (c *Catalog) Get(id catfocus.CardID) (catfocus.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Tier returns the cards of one rarity in catalog order.
func (c *Catalog) Tier(r catfocus.Rarity) []catfocus.Card {
	return c.byTier[r]
}

func (c *Catalog) All() []catfocus.Card {
	return c.cards
}

func (c *Catalog) Len() int {
	return len(c.cards)
}
