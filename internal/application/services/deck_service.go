package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// DeckService handles flashcard decks and their cards
type DeckService struct {
	ws        *entities.Workspace
	deckRepo  ports.DeckRepository
	validator *Validator
	clock     calendar.Clock
	logger    *logger.Logger
	metrics   *metrics.Recorder
}

// NewDeckService creates a new deck service
func NewDeckService(ws *entities.Workspace, deckRepo ports.DeckRepository, validator *Validator, clock calendar.Clock, logger *logger.Logger, metrics *metrics.Recorder) *DeckService {
	return &DeckService{
		ws:        ws,
		deckRepo:  deckRepo,
		validator: validator,
		clock:     clock,
		logger:    logger.WithComponent("flashcards"),
		metrics:   metrics,
	}
}

// ParseOptions splits a comma separated option list, trimming each option
// and dropping empty ones.
func ParseOptions(line string) []string {
	var options []string
	for _, opt := range strings.Split(line, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

// NormalizeTrueFalse maps t/true and f/false, in any case, onto "true" and "false".
func NormalizeTrueFalse(answer string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "t", "true":
		return "true", true
	case "f", "false":
		return "false", true
	}
	return "", false
}

// buildCard normalizes and validates a card request
func (s *DeckService) buildCard(req ports.AddCardRequest) (entities.Card, error) {
	switch req.Type {
	case entities.CardTypeTrueFalse:
		answer, ok := NormalizeTrueFalse(req.Answer)
		if !ok {
			return entities.Card{}, entities.ErrInvalidAnswer
		}
		req.Answer = answer
		req.Options = nil
	case entities.CardTypeMultipleChoice:
		var options []string
		for _, opt := range req.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) == 0 {
			return entities.Card{}, entities.ErrNoOptions
		}
		req.Options = options
	default:
		req.Options = nil
	}

	if err := s.validator.Validate(req); err != nil {
		return entities.Card{}, err
	}

	card := entities.Card{
		Type:     req.Type,
		Question: req.Question,
		Answer:   req.Answer,
		Options:  req.Options,
	}
	if !card.HasValidAnswer() {
		return entities.Card{}, entities.ErrAnswerNotInOptions
	}

	return card, nil
}

// CreateDeck creates a deck with optional initial cards and saves all decks
func (s *DeckService) CreateDeck(ctx context.Context, req ports.CreateDeckRequest) (*entities.Deck, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Subject == "" {
		req.Subject = entities.DefaultDeckSubj
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		req.Title = entities.DefaultDeckTitle
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	deck := entities.Deck{
		Subject:   req.Subject,
		Title:     req.Title,
		Timestamp: calendar.Timestamp(s.clock),
		Cards:     make([]entities.Card, 0, len(req.Cards)),
	}
	for i, cardReq := range req.Cards {
		card, err := s.buildCard(cardReq)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		deck.Cards = append(deck.Cards, card)
	}

	s.ws.Decks = append(s.ws.Decks, deck)
	s.logger.Infow("Deck created successfully", "title", deck.Title, "subject", deck.Subject, "cards", len(deck.Cards))

	if err := persist(ctx, s.logger, s.metrics, CollectionDecks, len(s.ws.Decks), s.save); err != nil {
		return &deck, err
	}
	return &deck, nil
}

// AddCard appends a card to the deck at deckIndex
func (s *DeckService) AddCard(ctx context.Context, deckIndex int, req ports.AddCardRequest) (*entities.Card, error) {
	if deckIndex < 0 || deckIndex >= len(s.ws.Decks) {
		return nil, fmt.Errorf("deck %d: %w", deckIndex+1, entities.ErrIndexOutOfRange)
	}

	card, err := s.buildCard(req)
	if err != nil {
		return nil, err
	}

	deck := &s.ws.Decks[deckIndex]
	deck.Cards = append(deck.Cards, card)
	s.logger.Infow("Card added successfully", "deck", deck.Title, "type", string(card.Type))

	if err := persist(ctx, s.logger, s.metrics, CollectionDecks, len(s.ws.Decks), s.save); err != nil {
		return &card, err
	}
	return &card, nil
}

// DeleteDeck removes the deck at index
func (s *DeckService) DeleteDeck(ctx context.Context, index int) (*entities.Deck, error) {
	if index < 0 || index >= len(s.ws.Decks) {
		return nil, fmt.Errorf("deck %d: %w", index+1, entities.ErrIndexOutOfRange)
	}

	removed := s.ws.Decks[index]
	s.ws.Decks = append(s.ws.Decks[:index], s.ws.Decks[index+1:]...)
	s.logger.Infow("Deck deleted successfully", "title", removed.Title)

	if err := persist(ctx, s.logger, s.metrics, CollectionDecks, len(s.ws.Decks), s.save); err != nil {
		return &removed, err
	}
	return &removed, nil
}

// Decks returns a copy of every deck
func (s *DeckService) Decks() []entities.Deck {
	return append([]entities.Deck(nil), s.ws.Decks...)
}

// Deck returns a copy of the deck at index
func (s *DeckService) Deck(index int) (*entities.Deck, error) {
	if index < 0 || index >= len(s.ws.Decks) {
		return nil, fmt.Errorf("deck %d: %w", index+1, entities.ErrIndexOutOfRange)
	}
	deck := s.ws.Decks[index]
	deck.Cards = append([]entities.Card(nil), deck.Cards...)
	return &deck, nil
}

func (s *DeckService) save(ctx context.Context) error {
	return s.deckRepo.Save(ctx, s.ws.Decks)
}
