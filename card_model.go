package catfocus

import (
	"context"
	"fmt"
	"time"
)

// Rarity values are ordered so that a larger value is rarer.
type Rarity uint8

const (
	_ Rarity = iota
	Common
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	default:
		panic(fmt.Sprintf("no matching enum for Rarity: %d", uint8(r)))
	}
}

func (r Rarity) IsValid() bool {
	return r >= Common && r <= Legendary
}

func ParseRarity(s string) (Rarity, bool) {
	switch s {
	case "common":
		return Common, true
	case "rare":
		return Rare, true
	case "epic":
		return Epic, true
	case "legendary":
		return Legendary, true
	default:
		return 0, false
	}
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid rarity: %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	parsed, ok := ParseRarity(string(b))
	if !ok {
		return fmt.Errorf("invalid rarity: %q", string(b))
	}
	*r = parsed
	return nil
}

type CardID string

type Attributes struct {
	Wisdom     int `yaml:"wisdom"`
	Cuteness   int `yaml:"cuteness"`
	Charm      int `yaml:"charm"`
	Fluffiness int `yaml:"fluffiness"`
}

const (
	MinAttribute = 0
	MaxAttribute = 10
)

func (a Attributes) validate() error {
	for name, v := range map[string]int{
		"wisdom":     a.Wisdom,
		"cuteness":   a.Cuteness,
		"charm":      a.Charm,
		"fluffiness": a.Fluffiness,
	} {
		if v < MinAttribute || v > MaxAttribute {
			return fmt.Errorf("attribute %s=%d out of range [%d,%d]", name, v, MinAttribute, MaxAttribute)
		}
	}
	return nil
}

// Card is an immutable catalog entry.
type Card struct {
	ID            CardID     `yaml:"id"`
	DisplayName   string     `yaml:"name"`
	SourcePersona string     `yaml:"source"`
	Description   string     `yaml:"description"`
	Quote         string     `yaml:"quote"`
	Rarity        Rarity     `yaml:"rarity"`
	Attributes    Attributes `yaml:"attributes"`
	Emoji         string     `yaml:"emoji"`
	StyleToken    string     `yaml:"style"`
}

func (c Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card is missing id")
	}
	if c.DisplayName == "" {
		return fmt.Errorf("card %s is missing name", c.ID)
	}
	if !c.Rarity.IsValid() {
		return fmt.Errorf("card %s has invalid rarity", c.ID)
	}
	if err := c.Attributes.validate(); err != nil {
		return fmt.Errorf("card %s: %w", c.ID, err)
	}
	return nil
}

type OwnedCard struct {
	Card
	ObtainedAt time.Time
}

type CardSort uint8

const (
	SortCardsByObtainedAt CardSort = iota
	SortCardsByName
	SortCardsByRarity
)

func ParseCardSort(s string) (CardSort, bool) {
	switch s {
	case "obtained", "obtainedAt", "":
		return SortCardsByObtainedAt, true
	case "name":
		return SortCardsByName, true
	case "rarity":
		return SortCardsByRarity, true
	default:
		return 0, false
	}
}

// CardQuery filters are optional and combined with AND.
// The zero Rarity matches every tier.
type CardQuery struct {
	Search string
	Rarity Rarity
	Sort   CardSort
}

type CardRepo interface {
	// InsertCard returns false without error when the id is already owned.
	InsertCard(context.Context, OwnedCard) (bool, error)
	GetCard(context.Context, CardID) (OwnedCard, error)
	QueryCards(context.Context, CardQuery) ([]OwnedCard, error)
	ListCards(context.Context) ([]OwnedCard, error)
}
