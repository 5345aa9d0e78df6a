package repository

import (
	"context"
	"fmt"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// DeckRepositoryImpl stores flashcard decks in a flat file: count, then per
// deck subject, title, timestamp, card count; per card type, question, answer
// and, for multiple choice only, option count and options.
type DeckRepositoryImpl struct {
	path string
}

// NewDeckRepository creates a new flashcard deck repository
func NewDeckRepository(path string) ports.DeckRepository {
	return &DeckRepositoryImpl{path: path}
}

func (r *DeckRepositoryImpl) Load(ctx context.Context) ([]entities.Deck, error) {
	decks, err := loadFile(ctx, r.path, decodeDecks)
	if err != nil {
		return decks, fmt.Errorf("load decks: %w", err)
	}
	return decks, nil
}

func (r *DeckRepositoryImpl) Save(ctx context.Context, decks []entities.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var w lineWriter
	w.count(len(decks))
	for _, d := range decks {
		w.line(singleLine(d.Subject))
		w.line(singleLine(d.Title))
		w.line(singleLine(d.Timestamp))
		w.count(len(d.Cards))
		for _, c := range d.Cards {
			w.line(string(c.Type))
			w.line(singleLine(c.Question))
			w.line(singleLine(c.Answer))
			if c.Type == entities.CardTypeMultipleChoice {
				w.count(len(c.Options))
				for _, opt := range c.Options {
					w.line(singleLine(opt))
				}
			}
		}
	}

	if err := w.writeTo(r.path); err != nil {
		return fmt.Errorf("save decks: %w", err)
	}
	return nil
}

func decodeDecks(r *lineReader) ([]entities.Deck, error) {
	n, err := r.count("deck count")
	if err != nil {
		return nil, err
	}

	decks := make([]entities.Deck, 0, capHint(n))
	for i := 0; i < n; i++ {
		var d entities.Deck
		if d.Subject, err = r.next("subject"); err != nil {
			return nil, err
		}
		if d.Title, err = r.next("title"); err != nil {
			return nil, err
		}
		if d.Timestamp, err = r.next("timestamp"); err != nil {
			return nil, err
		}

		cards, err := r.count("card count")
		if err != nil {
			return nil, err
		}
		d.Cards = make([]entities.Card, 0, capHint(cards))
		for j := 0; j < cards; j++ {
			c, err := decodeCard(r)
			if err != nil {
				return nil, err
			}
			d.Cards = append(d.Cards, c)
		}

		decks = append(decks, d)
	}

	return decks, nil
}

func decodeCard(r *lineReader) (entities.Card, error) {
	var c entities.Card

	raw, err := r.next("card type")
	if err != nil {
		return c, err
	}
	c.Type = entities.CardType(raw)
	if !c.Type.IsValid() {
		return c, r.corrupt("unknown card type %q", raw)
	}

	if c.Question, err = r.next("question"); err != nil {
		return c, err
	}
	if c.Answer, err = r.next("answer"); err != nil {
		return c, err
	}

	if c.Type != entities.CardTypeMultipleChoice {
		return c, nil
	}

	n, err := r.count("option count")
	if err != nil {
		return c, err
	}
	c.Options = make([]string, 0, capHint(n))
	for k := 0; k < n; k++ {
		opt, err := r.next("option")
		if err != nil {
			return c, err
		}
		c.Options = append(c.Options, opt)
	}

	return c, nil
}
