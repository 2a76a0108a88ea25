package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/api"
)

var errUsageID = errors.New("task id required")

// List prints one page of the caller's tasks; args may hold the page number.
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	res, err := a.api.ListTasks(ctx, page)
	if err != nil {
		return a.checkSession(err)
	}

	if len(res.Tasks) == 0 {
		fmt.Fprintf(a.out, "No tasks on page %d (%d total).\n", page, res.TotalItems)
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tUPDATED")
	for _, t := range res.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Status, t.UpdatedAt.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Page %d, %d task(s) total.\n", page, res.TotalItems)
	return nil
}

// Add creates a task from interactive input.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	name, err := GetSimpleText(a.reader, "Task name", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader, "Status", a.out)
	if err != nil {
		return err
	}

	t, err := a.api.CreateTask(ctx, api.TaskInput{Name: name, Description: description, Status: status})
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintln(a.out, "Task created:", t.ID)
	return nil
}

// Show prints a single task.
func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsageID
	}

	t, err := a.api.GetTask(ctx, args[0])
	if err != nil {
		return a.checkSession(err)
	}
	printTask(a, t)
	return nil
}

// Edit prompts for new field values; an empty answer keeps the current one.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsageID
	}

	cur, err := a.api.GetTask(ctx, args[0])
	if err != nil {
		return a.checkSession(err)
	}

	in := api.TaskInput{Name: cur.Name, Description: cur.Description, Status: cur.Status}
	if in.Name, err = askKeep(a, "Task name", in.Name); err != nil {
		return err
	}
	if in.Description, err = askKeep(a, "Description", in.Description); err != nil {
		return err
	}
	if in.Status, err = askKeep(a, "Status", in.Status); err != nil {
		return err
	}

	t, err := a.api.UpdateTask(ctx, cur.ID, in)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintln(a.out, "Task updated!")
	printTask(a, t)
	return nil
}

// Delete removes a task after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsageID
	}

	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete task %s?", args[0]), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.api.DeleteTask(ctx, args[0]); err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintln(a.out, "Deleted task.")
	return nil
}

func askKeep(a *App, prompt, current string) (string, error) {
	v, err := GetSimpleText(a.reader, fmt.Sprintf("%s [%s]", prompt, current), a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func printTask(a *App, t *api.Task) {
	fmt.Fprintf(a.out, "ID:          %s\n", t.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", t.Name)
	fmt.Fprintf(a.out, "Status:      %s\n", t.Status)
	fmt.Fprintf(a.out, "Created:     %s\n", t.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(a.out, "Updated:     %s\n", t.UpdatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(a.out, "Description:\n%s\n", t.Description)
}
