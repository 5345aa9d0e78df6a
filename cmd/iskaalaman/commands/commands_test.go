package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ISKAALAMAN_DATA_DIR", dir)
	t.Setenv("LOG_FILE", filepath.Join(dir, "test.log"))

	files := map[string]string{
		"schedule.dat": "1\nMath\n09:00 AM\n10:00 AM\nR1\n2\nMon\nWed\n",
		"tasks.dat":    "1\nEssay\nHistory\nNo info available\n2025-03-10\n1\n0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExportSchedule(t *testing.T) {
	dir := setupDataDir(t)
	out := filepath.Join(dir, "schedule.ics")

	if err := exportSchedule("", out, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("exportSchedule: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Math", "RRULE:FREQ=WEEKLY;BYDAY=MO,WE"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("calendar missing %q", want)
		}
	}
}

func TestExportTasks(t *testing.T) {
	dir := setupDataDir(t)
	out := filepath.Join(dir, "tasks.xlsx")

	if err := exportTasks("", out); err != nil {
		t.Fatalf("exportTasks: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Tasks")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "Essay" {
		t.Errorf("rows = %v", rows)
	}
}

func TestRunToday(t *testing.T) {
	setupDataDir(t)

	var out bytes.Buffer
	if err := runToday("", &out); err != nil {
		t.Fatalf("runToday: %v", err)
	}
	if !strings.Contains(out.String(), "Today's Date: "+time.Now().Format("2006-01-02")) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBootstrapRejectsBadConfig(t *testing.T) {
	setupDataDir(t)
	t.Setenv("LOG_FORMAT", "xml")

	if _, _, _, err := bootstrap(""); err == nil {
		t.Fatal("expected configuration error")
	}
}
