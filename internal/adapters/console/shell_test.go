package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iskaalaman/studyhub/internal/application"
	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/infrastructure/config"
	"github.com/iskaalaman/studyhub/internal/infrastructure/logger"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// Wednesday
var testClock = calendar.FixedClock{At: time.Date(2025, 3, 5, 14, 7, 9, 0, time.Local)}

func newTestApp(t *testing.T) *application.App {
	t.Helper()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DataDir:        t.TempDir(),
			ScheduleFile:   "schedule.dat",
			TasksFile:      "tasks.dat",
			FlashcardsFile: "flashcards.dat",
			NotebooksFile:  "notebooks.dat",
		},
		Study: config.StudyConfig{ShuffleSeed: 7},
	}
	app, err := application.New(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("application.New: %v", err)
	}
	app.Load(context.Background())
	return app
}

func runShell(t *testing.T, app *application.App, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	svc := Services{
		Schedule:  app.Schedule,
		Tasks:     app.Tasks,
		Decks:     app.Decks,
		Notebooks: app.Notebooks,
		Study:     app.Study,
	}
	shell := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, svc, testClock, logger.NewNop())
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestShellAddClassRepromptsBadInput(t *testing.T) {
	app := newTestApp(t)

	out := runShell(t, app,
		"1", "2", "1",
		"Math", "9am", "09:00 AM", "10:00 AM", "Mon,Xyz", "M,W", "R1",
		"3", "4", "3",
	)

	if !strings.Contains(out, "Invalid time format") {
		t.Error("bad time should be re-prompted")
	}
	if !strings.Contains(out, "unrecognized day(s)") {
		t.Error("bad weekday should be re-prompted")
	}
	if !strings.Contains(out, "Class 'Math' added successfully.") {
		t.Errorf("missing success message:\n%s", out)
	}
	classes := app.Schedule.Classes()
	if len(classes) != 1 || strings.Join(classes[0].Days, ",") != "Mon,Wed" || classes[0].Venue != "R1" {
		t.Errorf("classes = %+v", classes)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Error("exit message missing")
	}
}

func TestShellAddClassConflict(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	if _, err := app.Schedule.AddClass(ctx, ports.AddClassRequest{
		Subject: "Math", StartTime: "09:00 AM", EndTime: "10:00 AM", Days: []string{"Mon"},
	}); err != nil {
		t.Fatal(err)
	}

	out := runShell(t, app,
		"1", "2", "1",
		"Physics", "09:30 AM", "11:00 AM", "Mon", "",
		"3", "4", "3",
	)

	if !strings.Contains(out, "Conflict detected with class: Math") {
		t.Errorf("conflict not reported:\n%s", out)
	}
	if len(app.Schedule.Classes()) != 1 {
		t.Error("conflicting class should not be added")
	}
}

func TestShellEditClassWithoutChanges(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.Schedule.AddClass(context.Background(), ports.AddClassRequest{
		Subject: "Math", StartTime: "09:00 AM", EndTime: "10:00 AM", Days: []string{"Mon"},
	}); err != nil {
		t.Fatal(err)
	}

	out := runShell(t, app,
		"1", "2", "2", "1",
		"", "", "", "", "",
		"3", "4", "3",
	)

	if !strings.Contains(out, "No changes were made.") {
		t.Errorf("expected no-change notice:\n%s", out)
	}
}

func TestShellTaskLifecycle(t *testing.T) {
	app := newTestApp(t)

	out := runShell(t, app,
		"1", "3",
		"2", "Essay", "History", "", "2025-13-01", "2025-03-01", "2",
		"1", "1",
		"3", "1", "no",
		"4", "4", "3",
	)

	if !strings.Contains(out, "Task 'Essay' added successfully.") {
		t.Errorf("task not added:\n%s", out)
	}
	if !strings.Contains(out, "Invalid date") {
		t.Error("bad deadline should be re-prompted")
	}
	if !strings.Contains(out, "Overdue") {
		t.Error("past deadline should show as overdue")
	}
	tasks := app.Tasks.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1 (deletion declined)", len(tasks))
	}
	if !tasks[0].Completed || tasks[0].Infos != entities.DefaultInfos || tasks[0].Subject != "History" {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestShellNormalStudySession(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.Decks.CreateDeck(context.Background(), ports.CreateDeckRequest{
		Title: "Capitals",
		Cards: []ports.AddCardRequest{
			{Type: entities.CardTypeIdentification, Question: "France", Answer: "Paris"},
			{Type: entities.CardTypeIdentification, Question: "Japan", Answer: "Tokyo"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	out := runShell(t, app,
		"2", "2", "1", "2", "1",
		"", "maybe", "n", "",
		"", "y", "",
		"", "y",
		"5", "5", "3", "3",
	)

	if !strings.Contains(out, "Invalid input. Please type 'y', 'n', or 'quit'.") {
		t.Error("unknown verdict should be re-prompted")
	}
	if got := strings.Count(out, "Front: France"); got != 2 {
		t.Errorf("France shown %d times, want 2", got)
	}
	if !strings.Contains(out, "correctly answered all 2 cards") {
		t.Errorf("missing completion message:\n%s", out)
	}
	if !strings.Contains(out, "Cards shown: 3") {
		t.Error("summary should count three presentations")
	}
}

func TestShellCreateDeckWithCards(t *testing.T) {
	app := newTestApp(t)

	out := runShell(t, app,
		"2", "2",
		"1", "", "Biology",
		"yes", "1", "Cells divide", "maybe", "T",
		"yes", "3", "Powerhouse", " , ", "Nucleus, Mitochondria", "Golgi", "Mitochondria",
		"no",
		"5", "3", "3",
	)

	decks := app.Decks.Decks()
	if len(decks) != 1 {
		t.Fatalf("decks = %d, want 1:\n%s", len(decks), out)
	}
	deck := decks[0]
	if deck.Subject != entities.DefaultDeckSubj || deck.Title != "Biology" || len(deck.Cards) != 2 {
		t.Fatalf("deck = %+v", deck)
	}
	if deck.Cards[0].Answer != "true" {
		t.Errorf("true/false answer = %q, want normalized", deck.Cards[0].Answer)
	}
	if deck.Cards[1].Answer != "Mitochondria" || len(deck.Cards[1].Options) != 2 {
		t.Errorf("multiple choice card = %+v", deck.Cards[1])
	}
	if !strings.Contains(out, "Answer not in options.") {
		t.Error("answer outside options should be re-prompted")
	}
}

func TestShellNoteEntrySkipsReservedLine(t *testing.T) {
	app := newTestApp(t)

	out := runShell(t, app,
		"2", "1",
		"1", "Math",
		"1", "Intro", "line one", entities.ContentEnd, "line two", "SAVE_AND_EXIT",
		"2", "1",
		"3", "3", "3", "3",
	)

	notes := app.Notebooks.Notes("Math")
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1:\n%s", len(notes), out)
	}
	if notes[0].Title != "Intro" || notes[0].Content != "line one\nline two" {
		t.Errorf("note = %+v", notes[0])
	}
	if !strings.Contains(out, "Content:\nline one\nline two") {
		t.Error("viewing the note should print its content")
	}
}

func TestShellStopsAtEndOfInput(t *testing.T) {
	app := newTestApp(t)
	out := runShell(t, app, "1", "3", "2", "Essay")

	if strings.Contains(out, "Goodbye!") {
		t.Error("shell should stop quietly at end of input")
	}
	if len(app.Tasks.Tasks()) != 0 {
		t.Error("half-entered task should not be added")
	}
}

func TestRenderToday(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	for _, req := range []ports.AddClassRequest{
		{Subject: "Math", StartTime: "09:00 AM", EndTime: "10:00 AM", Venue: "R1", Days: []string{"Wed"}},
		{Subject: "Art", StartTime: "09:00 AM", EndTime: "10:00 AM", Days: []string{"Thu"}},
	} {
		if _, err := app.Schedule.AddClass(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	for _, req := range []ports.AddTaskRequest{
		{Name: "Due", Deadline: "2025-03-05", Urgency: entities.UrgencyHigh},
		{Name: "Later", Deadline: "2025-03-06", Urgency: entities.UrgencyHigh},
	} {
		if _, err := app.Tasks.AddTask(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	RenderToday(&out, app.Schedule, app.Tasks, testClock)
	got := out.String()

	if !strings.Contains(got, "Today's Date: 2025-03-05 (Wed)") {
		t.Errorf("missing date line:\n%s", got)
	}
	if !strings.Contains(got, "Subject: Math") || strings.Contains(got, "Subject: Art") {
		t.Errorf("only Wednesday classes expected:\n%s", got)
	}
	if !strings.Contains(got, "Name: Due") || strings.Contains(got, "Name: Later") {
		t.Errorf("only due tasks expected:\n%s", got)
	}
}
