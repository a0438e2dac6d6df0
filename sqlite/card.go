package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/catfocus"
)

const (
	SelectAllCards = "SELECT id, display_name, source_persona, description, quote, rarity, wisdom, cuteness, charm, fluffiness, emoji, style_token, obtained_at FROM owned_cards"
)

type cardEntity struct {
	ID            string
	DisplayName   string
	SourcePersona string
	Description   string
	Quote         string
	Rarity        uint8
	Wisdom        int
	Cuteness      int
	Charm         int
	Fluffiness    int
	Emoji         string
	StyleToken    string
	ObtainedAtMS  int64
}

type cardRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewCardRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *cardRepo {
	return &cardRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *cardRepo) InsertCard(ctx context.Context, card catfocus.OwnedCard) (bool, error) {
	if card.ID == "" {
		return false, fmt.Errorf("provide required field 'ID'")
	}

	e := mapToCardEntity(card)
	args := []any{
		e.ID,
		e.DisplayName,
		e.SourcePersona,
		e.Description,
		e.Quote,
		e.Rarity,
		e.Wisdom,
		e.Cuteness,
		e.Charm,
		e.Fluffiness,
		e.Emoji,
		e.StyleToken,
		e.ObtainedAtMS,
	}
	query := "INSERT INTO owned_cards (id, display_name, source_persona, description, quote, rarity, wisdom, cuteness, charm, fluffiness, emoji, style_token, obtained_at) VALUES " +
		generateParameters(len(args)) + " ON CONFLICT(id) DO NOTHING"
	r.l.Debug("inserting owned card", "query", query, "id", e.ID)
	res, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *cardRepo) GetCard(ctx context.Context, id catfocus.CardID) (catfocus.OwnedCard, error) {
	if id == "" {
		return catfocus.OwnedCard{}, fmt.Errorf("provide id")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllCards), id,
	)
	return extractCard(row)
}

func (r *cardRepo) ListCards(ctx context.Context) ([]catfocus.OwnedCard, error) {
	return r.QueryCards(ctx, catfocus.CardQuery{})
}

func (r *cardRepo) QueryCards(ctx context.Context, q catfocus.CardQuery) ([]catfocus.OwnedCard, error) {
	var (
		where []string
		args  []any
	)
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		where = append(where, "(instr(lower(display_name), ?) > 0 OR instr(lower(source_persona), ?) > 0)")
		args = append(args, search, search)
	}
	if q.Rarity != 0 {
		where = append(where, "rarity = ?")
		args = append(args, uint8(q.Rarity))
	}

	query := SelectAllCards
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + cardOrderBy(q.Sort)

	r.l.Debug("querying owned cards", "query", query, "args", args)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var cards []catfocus.OwnedCard
	for rows.Next() {
		card, err := extractCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func cardOrderBy(s catfocus.CardSort) string {
	switch s {
	case catfocus.SortCardsByName:
		return "display_name ASC, rowid ASC"
	case catfocus.SortCardsByRarity:
		return "rarity DESC, rowid ASC"
	default:
		return "obtained_at DESC, rowid DESC"
	}
}

func extractCard(s scannable) (catfocus.OwnedCard, error) {
	var e cardEntity
	if err := s.Scan(&e.ID, &e.DisplayName, &e.SourcePersona, &e.Description, &e.Quote, &e.Rarity, &e.Wisdom, &e.Cuteness, &e.Charm, &e.Fluffiness, &e.Emoji, &e.StyleToken, &e.ObtainedAtMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catfocus.OwnedCard{}, ErrNotFound
		}
		return catfocus.OwnedCard{}, err
	}
	return mapToOwnedCard(e), nil
}

func mapToCardEntity(c catfocus.OwnedCard) cardEntity {
	return cardEntity{
		ID:            string(c.ID),
		DisplayName:   c.DisplayName,
		SourcePersona: c.SourcePersona,
		Description:   c.Description,
		Quote:         c.Quote,
		Rarity:        uint8(c.Rarity),
		Wisdom:        c.Attributes.Wisdom,
		Cuteness:      c.Attributes.Cuteness,
		Charm:         c.Attributes.Charm,
		Fluffiness:    c.Attributes.Fluffiness,
		Emoji:         c.Emoji,
		StyleToken:    c.StyleToken,
		ObtainedAtMS:  c.ObtainedAt.UnixMilli(),
	}
}

func mapToOwnedCard(e cardEntity) catfocus.OwnedCard {
	return catfocus.OwnedCard{
		Card: catfocus.Card{
			ID:            catfocus.CardID(e.ID),
			DisplayName:   e.DisplayName,
			SourcePersona: e.SourcePersona,
			Description:   e.Description,
			Quote:         e.Quote,
			Rarity:        catfocus.Rarity(e.Rarity),
			Attributes: catfocus.Attributes{
				Wisdom:     e.Wisdom,
				Cuteness:   e.Cuteness,
				Charm:      e.Charm,
				Fluffiness: e.Fluffiness,
			},
			Emoji:      e.Emoji,
			StyleToken: e.StyleToken,
		},
		ObtainedAt: time.UnixMilli(e.ObtainedAtMS),
	}
}
