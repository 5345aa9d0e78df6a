package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
	"github.com/iskaalaman/studyhub/internal/ports"
)

// RenderToday writes today's classes and the tasks due today or overdue
func RenderToday(w io.Writer, schedule ports.ScheduleService, tasks ports.TaskService, clock calendar.Clock) {
	st := newStyles(w)
	today := calendar.Today(clock)
	weekday := calendar.TodayWeekday(clock)

	fmt.Fprintln(w, st.header.Render("--- Calendar ---"))
	fmt.Fprintf(w, "Today's Date: %s (%s)\n", today, weekday)

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.header.Render("--- Today's Classes ("+weekday+") ---"))
	classes := schedule.ClassesOn(weekday)
	if len(classes) == 0 {
		fmt.Fprintln(w, st.muted.Render("<No classes scheduled for today>"))
	}
	for i, c := range classes {
		fmt.Fprintf(w, "%d. Subject: %s, Time: %s - %s, Venue: %s\n", i+1, c.Subject, c.StartTime, c.EndTime, c.Venue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.header.Render("--- Today's Tasks (Due Today or Overdue and Not Completed) ---"))
	due := tasks.DueOnOrBefore(today)
	if len(due) == 0 {
		fmt.Fprintln(w, st.muted.Render("<No tasks due today or overdue>"))
	}
	for i, t := range due {
		fmt.Fprintf(w, "%d. Name: %s, Subject: %s, Deadline: %s, Urgency: %s, Status: %s\n",
			i+1, t.Name, t.Subject, t.Deadline, st.urgency(t.Urgency), st.status(t, today))
	}
}

func (s *Shell) plannerMenu(ctx context.Context) error {
	for {
		s.println()
		s.println(s.style.header.Render("ISKAALAMAN Scheduler and Planner Menu:"))
		s.println("1. Calendar")
		s.println("2. Class Scheduler")
		s.println("3. Task Manager")
		s.println("4. Back to Main Menu")

		choice, err := s.choice("Enter your choice (1-4): ", 1, 4)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			s.println()
			RenderToday(s.out, s.svc.Schedule, s.svc.Tasks, s.clock)
			err = s.pause("\nPress Enter to return to the menu...")
		case 2:
			err = s.classMenu(ctx)
		case 3:
			err = s.taskMenu(ctx)
		case 4:
			s.println("Returning to Main Menu...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Class scheduler

func (s *Shell) classMenu(ctx context.Context) error {
	for {
		s.println()
		s.println(s.style.header.Render("--- Class Schedule ---"))
		s.listClasses()
		s.println("\nClass Scheduler Options:")
		s.println("1. Add Class")
		s.println("2. Edit Class")
		s.println("3. Back to Scheduler/Planner Menu")

		choice, err := s.choice("Enter your choice (1-3): ", 1, 3)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.addClass(ctx)
		case 2:
			err = s.editClass(ctx)
		case 3:
			s.println("Returning to Scheduler/Planner Menu...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) listClasses() {
	classes := s.svc.Schedule.Classes()
	if len(classes) == 0 {
		s.println(s.style.muted.Render("<no class schedule is available>"))
		return
	}
	s.println("Current Class Schedule:")
	for i, c := range classes {
		days := "N/A"
		if len(c.Days) > 0 {
			days = strings.Join(c.Days, ",")
		}
		s.printf("%d. Subject: %s, Days: %s, Start: %s, End: %s, Venue: %s\n",
			i+1, c.Subject, days, c.StartTime, c.EndTime, c.Venue)
	}
}

// clockTime re-prompts until a valid "HH:MM AM/PM" time is entered
func (s *Shell) clockTime(prompt string) (string, error) {
	for {
		t, err := s.text(prompt)
		if err != nil {
			return "", err
		}
		if calendar.IsValidTime(t) {
			return t, nil
		}
		s.println("<Invalid time format. Please use HH:MM AM/PM (e.g., 09:30 AM).>")
	}
}

func (s *Shell) addClass(ctx context.Context) error {
	s.println(s.style.title.Render("--- Add New Class ---"))

	subject, err := s.required("Enter Subject: ", "<Subject cannot be empty.>")
	if err != nil {
		return err
	}
	start, err := s.clockTime("Enter Start Time (e.g., 09:00 AM): ")
	if err != nil {
		return err
	}
	end, err := s.clockTime("Enter End Time (e.g., 10:00 AM): ")
	if err != nil {
		return err
	}

	var days []string
	for {
		input, err := s.text("Enter Days of Week (e.g., Mon,Wed,Fri or M,T,W,TH,F,Sat,Sun): ")
		if err != nil {
			return err
		}
		days, err = calendar.ParseWeekdays(input)
		if err != nil {
			s.println("<Invalid day format or unrecognized day(s) entered. Please use formats like Mon,Tue,Wed or M,T,W,TH,F,Sat,Sun.>")
			continue
		}
		if len(days) == 0 {
			s.println("<Days of week cannot be empty when adding a new class.>")
			continue
		}
		break
	}

	venue, err := s.text("Enter Venue: ")
	if err != nil {
		return err
	}

	class, err := s.svc.Schedule.AddClass(ctx, ports.AddClassRequest{
		Subject:   subject,
		StartTime: start,
		EndTime:   end,
		Venue:     venue,
		Days:      days,
	})
	if s.ok(err) {
		s.println(s.style.success.Render(fmt.Sprintf("Class '%s' added successfully.", class.Subject)))
	} else {
		s.println("<Class not added.>")
	}
	return nil
}

func (s *Shell) editClass(ctx context.Context) error {
	classes := s.svc.Schedule.Classes()
	if len(classes) == 0 {
		s.println("<No classes to edit.>")
		return s.pause("Press Enter to return to the menu...")
	}

	s.println(s.style.title.Render("--- Edit Class ---"))
	n, err := s.choice("Enter the number of the class to edit (or 0 to cancel): ", 0, len(classes))
	if err != nil {
		return err
	}
	if n == 0 {
		s.println("Edit cancelled.")
		return nil
	}
	current := classes[n-1]

	var req ports.EditClassRequest

	subject, err := s.text(fmt.Sprintf("Current Subject: %s. New (blank to keep): ", current.Subject))
	if err != nil {
		return err
	}
	if subject != "" {
		req.Subject = &subject
	}

	input, err := s.text(fmt.Sprintf("Current Days: %s.\nNew Days (blank to keep): ", strings.Join(current.Days, ",")))
	if err != nil {
		return err
	}
	if input != "" {
		days, parseErr := calendar.ParseWeekdays(input)
		switch {
		case parseErr != nil:
			s.println("<Invalid day format or unrecognized day(s) entered. Days not changed.>")
		case len(days) == 0:
			s.println("<No valid days recognized from your input. Days not changed.>")
		default:
			req.Days = &days
		}
	}

	start, err := s.text(fmt.Sprintf("Current Start Time: %s. New (blank to keep): ", current.StartTime))
	if err != nil {
		return err
	}
	if start != "" {
		if calendar.IsValidTime(start) {
			req.StartTime = &start
		} else {
			s.println("<Start Time not changed due to invalid format.>")
		}
	}

	end, err := s.text(fmt.Sprintf("Current End Time: %s. New (blank to keep): ", current.EndTime))
	if err != nil {
		return err
	}
	if end != "" {
		if calendar.IsValidTime(end) {
			req.EndTime = &end
		} else {
			s.println("<End Time not changed due to invalid format.>")
		}
	}

	venue, err := s.text(fmt.Sprintf("Current Venue: %s. New (blank to keep): ", current.Venue))
	if err != nil {
		return err
	}
	if venue != "" {
		req.Venue = &venue
	}

	updated, err := s.svc.Schedule.EditClass(ctx, n-1, req)
	switch {
	case errors.Is(err, entities.ErrNoChanges):
		s.println("<No changes were made.>")
	case s.ok(err):
		s.println(s.style.success.Render(fmt.Sprintf("Class '%s' updated successfully.", updated.Subject)))
	default:
		s.println("<Edit not saved due to conflict or invalid time range.>")
	}
	return nil
}

// Task manager

func (s *Shell) taskMenu(ctx context.Context) error {
	for {
		s.println()
		s.println(s.style.header.Render("--- Task Manager ---"))
		s.println("1. Show Tasks")
		s.println("2. Add Task")
		s.println("3. Delete Task")
		s.println("4. Back to Scheduler/Planner Menu")

		choice, err := s.choice("Enter your choice (1-4): ", 1, 4)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = s.showTasks(ctx)
		case 2:
			err = s.addTask(ctx)
		case 3:
			err = s.deleteTask(ctx)
		case 4:
			s.println("Returning to Scheduler/Planner Menu...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) addTask(ctx context.Context) error {
	s.println(s.style.title.Render("--- Add New Task ---"))

	name, err := s.required("Enter Task Name: ", "<Task name cannot be empty.>")
	if err != nil {
		return err
	}
	subject, err := s.pickSubject(s.svc.Schedule.Subjects(), "")
	if err != nil {
		return err
	}
	infos, err := s.text("Enter Infos (or type 'none'): ")
	if err != nil {
		return err
	}

	var deadline string
	for {
		deadline, err = s.text("Enter Deadline Date (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		if _, parseErr := time.Parse(calendar.DateLayout, deadline); parseErr == nil {
			break
		}
		s.println("<Invalid date. Please use YYYY-MM-DD.>")
	}

	urgency, err := s.choice("Enter Urgency (1:High, 2:Moderate, 3:Low): ", 1, 3)
	if err != nil {
		return err
	}

	task, err := s.svc.Tasks.AddTask(ctx, ports.AddTaskRequest{
		Name:     name,
		Subject:  subject,
		Infos:    infos,
		Deadline: deadline,
		Urgency:  entities.Urgency(urgency),
	})
	if s.ok(err) {
		s.println(s.style.success.Render(fmt.Sprintf("Task '%s' added successfully.", task.Name)))
	}
	return nil
}

func (s *Shell) showTasks(ctx context.Context) error {
	s.println(s.style.title.Render("--- Show Tasks ---"))

	tasks := s.svc.Tasks.Tasks()
	if len(tasks) == 0 {
		s.println(s.style.muted.Render("<No tasks available>"))
		return nil
	}
	order := s.svc.Tasks.PendingOrder()
	if len(order) == 0 {
		s.println(s.style.muted.Render("<No pending tasks available>"))
		return nil
	}

	today := calendar.Today(s.clock)
	s.println("Pending Tasks (Sorted by Urgency, then Deadline):")
	for i, idx := range order {
		t := tasks[idx]
		s.printf("%d. Name: %s, Subject: %s, Deadline: %s, Urgency: %s, Status: %s\n   Infos: %s\n",
			i+1, t.Name, t.Subject, t.Deadline, s.style.urgency(t.Urgency), s.style.status(t, today), t.Infos)
	}

	n, err := s.choice("\nMark a task as completed? (Enter task number or 0 to skip): ", 0, len(order))
	if err != nil || n == 0 {
		return err
	}

	done, err := s.svc.Tasks.CompleteTask(ctx, order[n-1])
	if s.ok(err) {
		s.println(s.style.success.Render(fmt.Sprintf("Task '%s' marked as completed.", done.Name)))
	}
	return nil
}

func (s *Shell) deleteTask(ctx context.Context) error {
	tasks := s.svc.Tasks.Tasks()
	if len(tasks) == 0 {
		s.println("<No tasks to delete.>")
		return s.pause("Press Enter to return to the menu...")
	}

	s.println(s.style.title.Render("--- Delete Task ---"))
	s.println("Available Tasks:")
	today := calendar.Today(s.clock)
	for i, t := range tasks {
		s.printf("%d. Name: %s, Subject: %s, Deadline: %s, Status: %s\n",
			i+1, t.Name, t.Subject, t.Deadline, s.style.status(t, today))
	}

	n, err := s.choice("Enter the number of the task to delete (or 0 to cancel): ", 0, len(tasks))
	if err != nil {
		return err
	}
	if n == 0 {
		s.println("Deletion cancelled.")
		return nil
	}

	yes, err := s.confirm(fmt.Sprintf("Are you sure you want to delete task '%s'? (yes/no): ", tasks[n-1].Name))
	if err != nil {
		return err
	}
	if !yes {
		s.println("Deletion cancelled.")
		return nil
	}

	removed, err := s.svc.Tasks.DeleteTask(ctx, n-1)
	if s.ok(err) {
		s.println(s.style.success.Render(fmt.Sprintf("Task '%s' deleted successfully.", removed.Name)))
	}
	return nil
}
