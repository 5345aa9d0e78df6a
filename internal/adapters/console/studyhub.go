package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iskaalaman/studyhub/internal/application/services"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// noteTerminator ends note content entry
const noteTerminator = "SAVE_AND_EXIT"

func (s *Shell) studyHubMenu(ctx context.Context) error {
	s.println("Welcome to the ISKAALAMAN Study Hub!")
	for {
		s.println()
		s.println(s.style.header.Render("ISKAALAMAN Study Hub Menu:"))
		s.println("1. Notebook")
		s.println("2. Flashcards")
		s.println("3. Back to Main Menu")

		choice, err := s.choice("Enter your choice (1-3): ", 1, 3)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.notebookMenu(ctx)
		case 2:
			err = s.flashcardMenu(ctx)
		case 3:
			s.println("Returning to ISKAALAMAN Main Menu...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Flashcards

func (s *Shell) flashcardMenu(ctx context.Context) error {
	for {
		decks := s.svc.Decks.Decks()

		s.println()
		s.println(s.style.header.Render("--- Flashcard Decks ---"))
		if len(decks) == 0 {
			s.println(s.style.muted.Render("No flashcard decks available."))
		}
		for i, d := range decks {
			s.printf("%d. %s | %s | %d card(s) | Created: %s\n", i+1, d.Title, d.Subject, len(d.Cards), d.Timestamp)
		}

		n := len(decks)
		makeNew, addCard, deleteDeck, back := n+1, n+2, n+3, n+4

		s.println("\nFlashcard Menu Options:")
		if n > 0 {
			s.printf("1-%d. View/Manage Deck Content\n", n)
		}
		s.printf("%d. Make New Flashcard Deck\n", makeNew)
		s.printf("%d. Add Card to Existing Deck\n", addCard)
		s.printf("%d. Delete Flashcard Deck\n", deleteDeck)
		s.printf("%d. Back to Study Hub Menu\n", back)

		choice, err := s.choice("Enter your choice: ", 1, back)
		if err != nil {
			return err
		}

		switch {
		case choice <= n:
			err = s.manageDeck(ctx, choice-1)
		case choice == makeNew:
			err = s.createDeck(ctx)
		case choice == addCard:
			err = s.addCardToChosenDeck(ctx)
		case choice == deleteDeck:
			err = s.deleteChosenDeck(ctx)
		case choice == back:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) manageDeck(ctx context.Context, index int) error {
	for {
		deck, err := s.svc.Decks.Deck(index)
		if err != nil {
			s.report(err)
			return nil
		}

		s.println()
		s.println(s.style.header.Render("--- Managing Deck: " + deck.Title + " ---"))
		s.println("1. View Cards")
		s.println("2. Study This Deck")
		s.println("3. Add New Card to This Deck")
		s.println("4. Delete This Deck")
		s.println("5. Back to All Decks")

		choice, err := s.choice("Enter your choice (1-5): ", 1, 5)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			s.viewDeck(*deck)
		case 2:
			err = s.studyDeck(ctx, *deck)
		case 3:
			err = s.addCards(ctx, index, deck.Title)
		case 4:
			deleted, delErr := s.deleteDeck(ctx, index)
			if delErr != nil || deleted {
				return delErr
			}
		case 5:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) viewDeck(deck entities.Deck) {
	s.println()
	s.println(s.style.title.Render("--- Deck Details ---"))
	s.printf("Subject: %s\nTitle: %s\nCreated: %s\n", deck.Subject, deck.Title, deck.Timestamp)
	if len(deck.Cards) == 0 {
		s.println("  No cards in this deck.")
	} else {
		s.println("  Cards:")
	}
	for i, c := range deck.Cards {
		s.printf("    Card %d:\n", i+1)
		s.printf("      Type: %s\n", c.Type.Label())
		s.printf("      Question: %s\n", c.Question)
		if c.Type == entities.CardTypeMultipleChoice {
			s.printf("      Options: %s\n", strings.Join(c.Options, ", "))
		}
		s.printf("      Answer: %s\n", c.Answer)
	}
	s.println("----------------------")
}

// readCard collects one card, re-prompting until each field is usable
func (s *Shell) readCard() (ports.AddCardRequest, error) {
	var req ports.AddCardRequest

	s.println("\nCard Types:\n1. True/False\n2. Identification\n3. Multiple Choice")
	choice, err := s.choice("Choose card type (1-3): ", 1, 3)
	if err != nil {
		return req, err
	}
	req.Type = []entities.CardType{
		entities.CardTypeTrueFalse,
		entities.CardTypeIdentification,
		entities.CardTypeMultipleChoice,
	}[choice-1]

	if req.Question, err = s.required("Enter question: ", "Question cannot be empty."); err != nil {
		return req, err
	}

	switch req.Type {
	case entities.CardTypeTrueFalse:
		for {
			answer, err := s.text("Enter answer (true/false): ")
			if err != nil {
				return req, err
			}
			if normalized, ok := services.NormalizeTrueFalse(answer); ok {
				req.Answer = normalized
				break
			}
			s.println("Invalid input. Please enter 'true' or 'false'.")
		}
	case entities.CardTypeIdentification:
		if req.Answer, err = s.required("Enter answer: ", "Answer cannot be empty."); err != nil {
			return req, err
		}
	case entities.CardTypeMultipleChoice:
		for len(req.Options) == 0 {
			line, err := s.text("Enter options separated by commas: ")
			if err != nil {
				return req, err
			}
			if req.Options = services.ParseOptions(line); len(req.Options) == 0 {
				s.println("No options entered. Please add options.")
			}
		}
		prompt := fmt.Sprintf("Enter the correct answer from options (%s): ", strings.Join(req.Options, ", "))
		for {
			answer, err := s.text(prompt)
			if err != nil {
				return req, err
			}
			if contains(req.Options, answer) {
				req.Answer = answer
				break
			}
			s.println("Answer not in options. Please try again.")
		}
	}

	return req, nil
}

func (s *Shell) createDeck(ctx context.Context) error {
	s.println()
	s.println(s.style.title.Render("--- Create New Deck ---"))

	subject, err := s.pickSubject(s.svc.Schedule.Subjects(), entities.DefaultDeckSubj)
	if err != nil {
		return err
	}
	title, err := s.text("Enter deck title: ")
	if err != nil {
		return err
	}

	req := ports.CreateDeckRequest{Subject: subject, Title: title}
	for {
		more, err := s.confirm("Add a card to this deck now? (yes/no): ")
		if err != nil {
			return err
		}
		if !more {
			break
		}
		card, err := s.readCard()
		if err != nil {
			return err
		}
		req.Cards = append(req.Cards, card)
	}

	deck, err := s.svc.Decks.CreateDeck(ctx, req)
	if !s.ok(err) {
		return nil
	}
	s.println(s.style.success.Render(fmt.Sprintf("Deck '%s' (%s) created on %s with %d card(s).",
		deck.Title, deck.Subject, deck.Timestamp, len(deck.Cards))))
	if len(deck.Cards) == 0 {
		s.println("You can add cards later using the 'Add Card to Existing Deck' option.")
	}
	return nil
}

// chooseDeck lists decks and returns the picked index, or -1 on cancel
func (s *Shell) chooseDeck(heading string) (int, error) {
	decks := s.svc.Decks.Decks()
	if len(decks) == 0 {
		s.println("No decks available. Please create a deck first.")
		return -1, nil
	}

	s.println()
	s.println(s.style.title.Render(heading))
	for i, d := range decks {
		s.printf("%d. %s (%s) - Created: %s\n", i+1, d.Title, d.Subject, d.Timestamp)
	}
	n, err := s.choice("Enter deck number (or 0 to cancel): ", 0, len(decks))
	return n - 1, err
}

func (s *Shell) addCardToChosenDeck(ctx context.Context) error {
	index, err := s.chooseDeck("--- Add Card to Existing Deck ---")
	if err != nil || index < 0 {
		return err
	}
	deck, err := s.svc.Decks.Deck(index)
	if err != nil {
		s.report(err)
		return nil
	}
	return s.addCards(ctx, index, deck.Title)
}

// addCards adds cards to one deck until the user stops
func (s *Shell) addCards(ctx context.Context, index int, title string) error {
	s.println()
	s.println(s.style.title.Render("--- Adding New Card to Deck: " + title + " ---"))
	for {
		req, err := s.readCard()
		if err != nil {
			return err
		}
		if _, err := s.svc.Decks.AddCard(ctx, index, req); s.ok(err) {
			s.println(s.style.success.Render(fmt.Sprintf("Card added successfully to deck '%s'!", title)))
		}

		more, err := s.confirm("Add another card? (yes/no): ")
		if err != nil {
			return err
		}
		if !more {
			s.printf("Finished adding cards to '%s'.\n", title)
			return nil
		}
	}
}

func (s *Shell) deleteChosenDeck(ctx context.Context) error {
	index, err := s.chooseDeck("--- Delete Flashcard Deck ---")
	if err != nil || index < 0 {
		return err
	}
	_, err = s.deleteDeck(ctx, index)
	return err
}

// deleteDeck asks for confirmation and reports whether the deck was removed
func (s *Shell) deleteDeck(ctx context.Context, index int) (bool, error) {
	deck, err := s.svc.Decks.Deck(index)
	if err != nil {
		s.report(err)
		return false, nil
	}

	yes, err := s.confirm(fmt.Sprintf("Are you sure you want to delete deck '%s'? (yes/no): ", deck.Title))
	if err != nil {
		return false, err
	}
	if !yes {
		s.println("Deletion cancelled.")
		return false, nil
	}

	removed, err := s.svc.Decks.DeleteDeck(ctx, index)
	if !s.ok(err) {
		return false, nil
	}
	s.println(s.style.success.Render(fmt.Sprintf("Deck '%s' deleted successfully.", removed.Title)))
	return true, nil
}

// Study sessions

func (s *Shell) studyDeck(ctx context.Context, deck entities.Deck) error {
	if len(deck.Cards) == 0 {
		s.println("This deck has no cards to study. Please add some cards first.")
		return nil
	}

	s.println()
	s.println(s.style.header.Render("--- Study Deck: " + deck.Title + " ---"))
	s.println("1. Normal Study Mode")
	s.println("2. Cram Mode")
	s.println("3. Back to Flashcard Menu")

	choice, err := s.choice("Enter your choice (1-3): ", 1, 3)
	if err != nil || choice == 3 {
		return err
	}

	mode := services.ModeNormal
	if choice == 2 {
		mode = services.ModeCram
		s.println("\nCram Mode: go through all cards. Incorrect cards are repeated in later rounds. Type 'quit' to end.")
	} else {
		s.printf("\nNormal Mode: reviewing %d cards. Type 'quit' at the answer prompt to end the session.\n", len(deck.Cards))
	}

	result, err := s.svc.Study.Run(ctx, deck, mode, s)
	if err != nil {
		if errors.Is(err, errInputClosed) {
			return err
		}
		s.report(err)
		return nil
	}

	switch {
	case result.Completed && mode == services.ModeNormal:
		s.println(s.style.success.Render(fmt.Sprintf("\nCongratulations! You've correctly answered all %d cards in this session!", result.Known)))
	case result.Completed:
		s.println(s.style.success.Render("\nCongratulations! You've correctly answered all cards in Cram Mode!"))
	default:
		s.println("Session ended.")
	}
	s.printf("Study session for '%s' ended. Cards shown: %d, rounds: %d.\n", deck.Title, result.Presented, result.Rounds)
	return nil
}

// Review shows a card, flips it on enter and asks for the verdict
func (s *Shell) Review(ctx context.Context, card entities.Card, progress services.Progress) (services.Response, error) {
	s.println()
	s.println(s.style.muted.Render(fmt.Sprintf("[%s round %d] %d card(s) left, %d known",
		progress.Mode, progress.Round, progress.Remaining, progress.Known)))
	s.println("-------------------- CARD --------------------")
	s.printf("Front: %s\n", card.Question)
	if card.Type == entities.CardTypeMultipleChoice {
		s.println("Options:")
		for i, opt := range card.Options {
			s.printf("  %d. %s\n", i+1, opt)
		}
	}
	if err := s.pause("Press Enter to flip..."); err != nil {
		return services.ResponseQuit, err
	}
	s.printf("Back: %s\n", card.Answer)
	s.println("----------------------------------------------")

	for {
		answer, err := s.text("Did you get it right? (y/n/quit): ")
		if err != nil {
			return services.ResponseQuit, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			s.println(s.style.success.Render("Correct!"))
			return services.ResponseCorrect, nil
		case "n", "no":
			if progress.Mode == services.ModeCram {
				s.println(s.style.failure.Render("Incorrect. This card will appear in the next round."))
			} else {
				s.println(s.style.failure.Render("Incorrect. This card will be shown again."))
			}
			return services.ResponseIncorrect, nil
		case "q", "quit":
			return services.ResponseQuit, nil
		}
		s.println("Invalid input. Please type 'y', 'n', or 'quit'.")
	}
}

// Pause waits for enter before the next card
func (s *Shell) Pause(ctx context.Context) error {
	return s.pause("Press Enter for next card...")
}

// NextRound reports the cards left after a cram round and asks to continue
func (s *Shell) NextRound(ctx context.Context, remaining int) (bool, error) {
	s.println()
	s.println(s.style.header.Render("--- Round Complete ---"))
	s.printf("%d card(s) to review again.\n", remaining)
	answer, err := s.text("Press Enter to continue to next round, or type 'quit' to end: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "q", "quit":
		return false, nil
	}
	return true, nil
}

// Notebooks

func (s *Shell) notebookMenu(ctx context.Context) error {
	for {
		subjects := s.svc.Notebooks.Subjects(s.svc.Schedule.Subjects())

		s.println()
		s.println(s.style.header.Render("Notebook Subjects:"))
		if len(subjects) == 0 {
			s.println(s.style.muted.Render("No subjects found from scheduler."))
		}
		for i, subj := range subjects {
			s.printf("%d. %s\n", i+1, subj)
		}
		addNew, back := len(subjects)+1, len(subjects)+2
		s.printf("%d. Create Notebook for New Subject\n", addNew)
		s.printf("%d. Back to Study Hub Menu\n", back)

		choice, err := s.choice("Enter your choice: ", 1, back)
		if err != nil {
			return err
		}

		var subject string
		switch {
		case choice <= len(subjects):
			subject = subjects[choice-1]
		case choice == addNew:
			if subject, err = s.text("Enter new subject name: "); err != nil {
				return err
			}
			if subject == "" {
				s.println("Subject name cannot be empty. Using 'General'.")
				subject = entities.DefaultDeckSubj
			}
		case choice == back:
			return nil
		}

		if err := s.subjectNotes(ctx, subject); err != nil {
			return err
		}
	}
}

func (s *Shell) subjectNotes(ctx context.Context, subject string) error {
	for {
		notes := s.svc.Notebooks.Notes(subject)

		s.println()
		s.println(s.style.header.Render("--- Notes for " + subject + " ---"))
		if len(notes) == 0 {
			s.printf("No notes found for %s.\n", subject)
		}
		for i, n := range notes {
			s.printf("%d. %s : [%s]\n", i+1, n.Title, n.Timestamp)
		}

		s.println("\nOptions:")
		s.println("1. Create New Note")
		s.println("2. View Note Content")
		s.println("3. Back to Notebook Subjects")

		choice, err := s.choice("Enter your choice (1-3): ", 1, 3)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.createNote(ctx, subject)
		case 2:
			err = s.viewNote(notes)
		case 3:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) createNote(ctx context.Context, subject string) error {
	s.println()
	s.println(s.style.title.Render("--- Create New Note for " + subject + " ---"))

	title, err := s.text("Enter topic title: ")
	if err != nil {
		return err
	}
	if title == "" {
		s.printf("Topic title cannot be empty. Using default title '%s'.\n", entities.DefaultNoteTitle)
	}

	s.printf("Enter your notes (type %s on a new line to finish):\n", noteTerminator)
	var lines []string
	for {
		line, err := s.line("")
		if err != nil {
			return err
		}
		if line == noteTerminator {
			break
		}
		if line == entities.ContentEnd {
			s.println(s.style.warning.Render("<That line is reserved and was not added.>"))
			continue
		}
		lines = append(lines, line)
	}

	note, err := s.svc.Notebooks.AddNote(ctx, ports.AddNoteRequest{
		Subject: subject,
		Title:   title,
		Content: strings.Join(lines, "\n"),
	})
	if s.ok(err) {
		s.println(s.style.success.Render(fmt.Sprintf("Note '%s' saved successfully!", note.Title)))
	}
	return nil
}

func (s *Shell) viewNote(notes []entities.Note) error {
	if len(notes) == 0 {
		s.println("No notes to view.")
		return nil
	}

	n, err := s.choice(fmt.Sprintf("Enter note number to view (1-%d): ", len(notes)), 1, len(notes))
	if err != nil {
		return err
	}
	note := notes[n-1]

	s.println()
	s.println(s.style.title.Render("--- Note: " + note.Title + " ---"))
	s.printf("Timestamp: %s\n", note.Timestamp)
	s.printf("Content:\n%s\n", note.Content)
	s.println("---------------------------------")
	return nil
}

func contains(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}
