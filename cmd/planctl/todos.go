package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/termui"
	"example.com/capacity-planner/console/internal/todo"
)

func (c *cli) todoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the shared todo list",
	}

	var filter string
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := c.todos()
			if err := app.Load(cmd.Context()); err != nil {
				return err
			}

			app.SetFilter(models.ParseTodoFilter(filter))
			c.println(termui.RenderTodos(app.View()))
			return nil
		},
	}
	ls.Flags().StringVar(&filter, "filter", string(models.TodoFilterAll), "all, active or completed")

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := c.todos().Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			c.println(termui.Success(fmt.Sprintf("added #%d %s", created.ID, created.Text)))
			return nil
		},
	}

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return err
			}

			app := c.todos()
			if err := app.Load(cmd.Context()); err != nil {
				return err
			}

			current, ok := findTodo(app, id)
			if !ok {
				return fmt.Errorf("%w: #%d", todo.ErrNotFound, id)
			}
			if current.Completed {
				c.println(termui.Success(fmt.Sprintf("#%d is already done", id)))
				return nil
			}

			if _, err := app.Toggle(cmd.Context(), id); err != nil {
				return err
			}

			c.println(termui.Success(fmt.Sprintf("completed #%d %s", id, current.Text)))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return err
			}

			app := c.todos()
			if err := app.Load(cmd.Context()); err != nil {
				return err
			}
			if err := app.Delete(cmd.Context(), id); err != nil {
				return err
			}

			c.println(termui.Success(fmt.Sprintf("deleted #%d", id)))
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Change the text of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTodoID(args[0])
			if err != nil {
				return err
			}

			app := c.todos()
			if err := app.Load(cmd.Context()); err != nil {
				return err
			}

			renamed, err := app.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			c.println(termui.Success(fmt.Sprintf("renamed #%d %s", id, renamed.Text)))
			return nil
		},
	}

	tui := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive todo list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return termui.Run(cmd.Context(), c.todos())
		},
	}

	cmd.AddCommand(ls, add, done, edit, rm, tui)
	return cmd
}

func parseTodoID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(value, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", value)
	}
	return id, nil
}

func findTodo(app *todo.App, id int64) (models.Todo, bool) {
	for _, item := range app.Todos() {
		if item.ID == id {
			return item, true
		}
	}
	return models.Todo{}, false
}
