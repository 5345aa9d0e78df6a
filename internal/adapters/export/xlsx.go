package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// Sheet names
const (
	SheetTasks      = "Tasks"
	SheetFlashcards = "Flashcards"
)

var (
	taskHeader = []interface{}{"Name", "Subject", "Deadline", "Urgency", "Status", "Infos"}
	cardHeader = []interface{}{"Deck", "Subject", "Type", "Question", "Answer", "Options"}
)

// TasksWorkbook builds a workbook with every task on one sheet and every card
// of every deck on another, in storage order.
func TasksWorkbook(tasks []entities.Task, decks []entities.Deck) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetTasks); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetFlashcards); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := make([][]interface{}, 0, len(tasks)+1)
	rows = append(rows, taskHeader)
	for _, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Completed"
		}
		rows = append(rows, []interface{}{t.Name, t.Subject, t.Deadline, t.Urgency.String(), status, t.Infos})
	}
	if err := writeSheet(f, SheetTasks, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]interface{}{cardHeader}
	for _, d := range decks {
		for _, c := range d.Cards {
			rows = append(rows, []interface{}{d.Title, d.Subject, c.Type.Label(), c.Question, c.Answer, strings.Join(c.Options, ", ")})
		}
	}
	if err := writeSheet(f, SheetFlashcards, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteTasksWorkbook writes the workbook to w
func WriteTasksWorkbook(w io.Writer, tasks []entities.Task, decks []entities.Deck) error {
	f, err := TasksWorkbook(tasks, decks)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "F", 22)
}
