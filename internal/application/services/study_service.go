package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/infrastructure/metrics"
)

// Mode selects how a deck is studied
type Mode string

const (
	// ModeNormal cycles missed cards to the back of the queue until every card is known.
	ModeNormal Mode = "normal"
	// ModeCram shows each remaining card once per shuffled round.
	ModeCram Mode = "cram"
)

func (m Mode) IsValid() bool {
	return m == ModeNormal || m == ModeCram
}

// Response is the learner's verdict on a card
type Response int

const (
	ResponseCorrect Response = iota
	ResponseIncorrect
	ResponseQuit
)

// Progress describes where a session stands when a card is shown
type Progress struct {
	Mode Mode
	// Round is 1 for normal mode.
	Round int
	// Remaining counts the cards still to be answered, the current one included.
	Remaining int
	Known     int
}

// StudyPresenter shows cards and collects responses. The console implements it.
type StudyPresenter interface {
	Review(ctx context.Context, card entities.Card, progress Progress) (Response, error)
	// Pause waits before the next card is shown.
	Pause(ctx context.Context) error
	// NextRound asks whether to start another cram round over the missed cards.
	NextRound(ctx context.Context, remaining int) (bool, error)
}

// Result summarizes a study session
type Result struct {
	SessionID string
	Mode      Mode
	Presented int
	Known     int
	Rounds    int
	Completed bool
	Quit      bool
}

func (r *Result) outcome() string {
	switch {
	case r.Completed:
		return "completed"
	case r.Quit:
		return "quit"
	default:
		return "aborted"
	}
}

// StudyService runs flashcard study sessions
type StudyService struct {
	rng     *rand.Rand
	logger  *logger.Logger
	metrics *metrics.Recorder
}

// NewStudyService creates a study service. rng drives cram-mode shuffling.
func NewStudyService(rng *rand.Rand, logger *logger.Logger, metrics *metrics.Recorder) *StudyService {
	return &StudyService{
		rng:     rng,
		logger:  logger.WithComponent("study"),
		metrics: metrics,
	}
}

// Run studies deck in the given mode. The session works on card indices and
// never modifies the deck. A presenter error or a cancelled context ends the
// session early; the partial result is returned with the error.
func (s *StudyService) Run(ctx context.Context, deck entities.Deck, mode Mode, presenter StudyPresenter) (*Result, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown study mode %q", mode)
	}
	if len(deck.Cards) == 0 {
		return nil, entities.ErrNothingToStudy
	}

	result := &Result{SessionID: uuid.NewString(), Mode: mode}

	var err error
	switch mode {
	case ModeNormal:
		err = s.runNormal(ctx, deck, presenter, result)
	case ModeCram:
		err = s.runCram(ctx, deck, presenter, result)
	}

	s.metrics.StudySession(string(mode), result.outcome(), result.Presented)
	fields := map[string]interface{}{
		"presented": result.Presented,
		"known":     result.Known,
		"rounds":    result.Rounds,
		"outcome":   result.outcome(),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.logger.LogStudySession(result.SessionID, deck.Title, string(mode), fields)

	return result, err
}

func (s *StudyService) runNormal(ctx context.Context, deck entities.Deck, presenter StudyPresenter, result *Result) error {
	queue := make([]int, len(deck.Cards))
	for i := range queue {
		queue[i] = i
	}
	result.Rounds = 1

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		idx := queue[0]
		progress := Progress{Mode: ModeNormal, Round: 1, Remaining: len(queue), Known: result.Known}
		queue = queue[1:]

		resp, err := presenter.Review(ctx, deck.Cards[idx], progress)
		if err != nil {
			return err
		}
		result.Presented++

		switch resp {
		case ResponseCorrect:
			result.Known++
		case ResponseIncorrect:
			queue = append(queue, idx)
		case ResponseQuit:
			result.Quit = true
			return nil
		}

		if len(queue) > 0 {
			if err := presenter.Pause(ctx); err != nil {
				return err
			}
		}
	}

	result.Completed = true
	return nil
}

func (s *StudyService) runCram(ctx context.Context, deck entities.Deck, presenter StudyPresenter, result *Result) error {
	round := make([]int, len(deck.Cards))
	for i := range round {
		round[i] = i
	}

	for len(round) > 0 {
		result.Rounds++
		s.rng.Shuffle(len(round), func(i, j int) {
			round[i], round[j] = round[j], round[i]
		})

		var missed []int
		for i, idx := range round {
			if err := ctx.Err(); err != nil {
				return err
			}

			progress := Progress{Mode: ModeCram, Round: result.Rounds, Remaining: len(round) - i, Known: result.Known}
			resp, err := presenter.Review(ctx, deck.Cards[idx], progress)
			if err != nil {
				return err
			}
			result.Presented++

			switch resp {
			case ResponseCorrect:
				result.Known++
			case ResponseIncorrect:
				missed = append(missed, idx)
			case ResponseQuit:
				result.Quit = true
				return nil
			}

			if i < len(round)-1 {
				if err := presenter.Pause(ctx); err != nil {
					return err
				}
			}
		}

		round = missed
		if len(round) == 0 {
			break
		}

		next, err := presenter.NextRound(ctx, len(round))
		if err != nil {
			return err
		}
		if !next {
			result.Quit = true
			return nil
		}
	}

	result.Completed = true
	return nil
}
