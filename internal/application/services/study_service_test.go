package services

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"reflect"
	"testing"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
)

// scriptedPresenter answers each card from a per-question script and
// records what was shown.
type scriptedPresenter struct {
	answers   map[string][]Response
	shown     []string
	rounds    []int
	pauses    int
	nextRound []bool
	failAfter int
}

func (p *scriptedPresenter) Review(ctx context.Context, card entities.Card, progress Progress) (Response, error) {
	if p.failAfter > 0 && len(p.shown) == p.failAfter {
		return 0, io.EOF
	}
	p.shown = append(p.shown, card.Question)
	p.rounds = append(p.rounds, progress.Round)

	script := p.answers[card.Question]
	if len(script) == 0 {
		return ResponseCorrect, nil
	}
	resp := script[0]
	p.answers[card.Question] = script[1:]
	return resp, nil
}

func (p *scriptedPresenter) Pause(ctx context.Context) error {
	p.pauses++
	return nil
}

func (p *scriptedPresenter) NextRound(ctx context.Context, remaining int) (bool, error) {
	if len(p.nextRound) == 0 {
		return true, nil
	}
	next := p.nextRound[0]
	p.nextRound = p.nextRound[1:]
	return next, nil
}

func newStudyService(rec *metrics.Recorder) *StudyService {
	return NewStudyService(rand.New(rand.NewSource(7)), logger.NewNop(), rec)
}

func deckOf(questions ...string) entities.Deck {
	deck := entities.Deck{Title: "Test"}
	for _, q := range questions {
		deck.Cards = append(deck.Cards, entities.Card{Type: entities.CardTypeIdentification, Question: q, Answer: q})
	}
	return deck
}

func TestNormalModeAllCorrect(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{}}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B", "C"), ModeNormal, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Presented != 3 || res.Known != 3 || !res.Completed || res.Quit {
		t.Errorf("result = %+v", res)
	}
	if !reflect.DeepEqual(p.shown, []string{"A", "B", "C"}) {
		t.Errorf("shown = %v, want deck order", p.shown)
	}
	if p.pauses != 2 {
		t.Errorf("pauses = %d, want 2", p.pauses)
	}
}

func TestNormalModeMissedCardReturnsAtEnd(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{"A": {ResponseIncorrect}}}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B", "C"), ModeNormal, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Presented != 4 || res.Known != 3 || !res.Completed {
		t.Errorf("result = %+v", res)
	}
	if !reflect.DeepEqual(p.shown, []string{"A", "B", "C", "A"}) {
		t.Errorf("shown = %v", p.shown)
	}
}

func TestNormalModeQuit(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{"B": {ResponseQuit}}}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B", "C"), ModeNormal, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Quit || res.Completed || res.Presented != 2 || res.Known != 1 {
		t.Errorf("result = %+v", res)
	}
	if p.pauses != 1 {
		t.Errorf("pauses = %d, want 1", p.pauses)
	}
}

func TestCramModeSecondRoundShowsOnlyMissed(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{"B": {ResponseIncorrect}}}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B"), ModeCram, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Completed || res.Rounds != 2 || res.Presented != 3 || res.Known != 2 {
		t.Errorf("result = %+v", res)
	}

	var roundTwo []string
	for i, q := range p.shown {
		if p.rounds[i] == 2 {
			roundTwo = append(roundTwo, q)
		}
	}
	if !reflect.DeepEqual(roundTwo, []string{"B"}) {
		t.Errorf("round 2 showed %v, want [B]", roundTwo)
	}
	// One pause between the two cards of round 1; none after the last card of a round.
	if p.pauses != 1 {
		t.Errorf("pauses = %d, want 1", p.pauses)
	}
}

func TestCramModeEveryCardOncePerRound(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{}}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B", "C", "D", "E"), ModeCram, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Rounds != 1 || res.Presented != 5 {
		t.Errorf("result = %+v", res)
	}
	seen := map[string]int{}
	for _, q := range p.shown {
		seen[q]++
	}
	for _, q := range []string{"A", "B", "C", "D", "E"} {
		if seen[q] != 1 {
			t.Errorf("card %s shown %d times", q, seen[q])
		}
	}
}

func TestCramModeDeclineNextRound(t *testing.T) {
	p := &scriptedPresenter{
		answers:   map[string][]Response{"A": {ResponseIncorrect}},
		nextRound: []bool{false},
	}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B"), ModeCram, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Quit || res.Completed || res.Rounds != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestRunEmptyDeck(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{}}
	for _, mode := range []Mode{ModeNormal, ModeCram} {
		_, err := newStudyService(nil).Run(context.Background(), entities.Deck{}, mode, p)
		if !errors.Is(err, entities.ErrNothingToStudy) {
			t.Errorf("%s: err = %v, want ErrNothingToStudy", mode, err)
		}
	}
	if len(p.shown) != 0 {
		t.Error("no card should be shown for an empty deck")
	}
}

func TestRunPresenterError(t *testing.T) {
	p := &scriptedPresenter{answers: map[string][]Response{}, failAfter: 1}

	res, err := newStudyService(nil).Run(context.Background(), deckOf("A", "B"), ModeNormal, p)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	if res == nil || res.Presented != 1 || res.Completed {
		t.Errorf("partial result = %+v", res)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newStudyService(nil).Run(ctx, deckOf("A"), ModeCram, &scriptedPresenter{answers: map[string][]Response{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunLeavesDeckUntouched(t *testing.T) {
	deck := deckOf("A", "B", "C")
	before := append([]entities.Card(nil), deck.Cards...)
	p := &scriptedPresenter{answers: map[string][]Response{"A": {ResponseIncorrect, ResponseIncorrect}}}

	if _, err := newStudyService(nil).Run(context.Background(), deck, ModeCram, p); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(deck.Cards, before) {
		t.Error("study session reordered the deck")
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	p := &scriptedPresenter{answers: map[string][]Response{}}

	if _, err := newStudyService(rec).Run(context.Background(), deckOf("A", "B"), ModeNormal, p); err != nil {
		t.Fatal(err)
	}

	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "iskaalaman_study_cards_presented_total" {
			found = true
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Errorf("cards presented = %v, want 2", got)
			}
		}
	}
	if !found {
		t.Error("cards presented metric not recorded")
	}
}

func TestRunUnknownMode(t *testing.T) {
	if _, err := newStudyService(nil).Run(context.Background(), deckOf("A"), Mode("speed"), &scriptedPresenter{}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
