package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/todos/internal/editor"
	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
)

// readStdin returns piped input, or "" when stdin is a terminal.
func readStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	if info.Mode()&os.ModeNamedPipe == 0 && info.Size() == 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\n")
}

func confirm(msg string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(msg).Value(&ok).Run()
	return ok, err
}

func confirmDelete(cmd *cobra.Command, t *model.Todo) error {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return nil
	}
	if ok, err := confirm(fmt.Sprintf("Delete todo %s?", t.ID)); err != nil || !ok {
		return fmt.Errorf("deletion cancelled")
	}
	return nil
}

var createCmd = &cobra.Command{
	Use:   "create [task]",
	Short: "Create a todo (task from the argument or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task := ""
		if len(args) == 1 {
			task = args[0]
		} else {
			task = readStdin()
		}
		t, err := st.Create(cmd.Context(), task)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created todo %s\n", t.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos in creation order",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		todos, err := st.FindAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderTodoTable(todos))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := st.FindOne(cmd.Context(), todoID)
		if err != nil {
			return err
		}

		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			out, err := markdown.RenderTodo(t)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		data, err := store.MarshalTodo(t)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a todo's task or completion state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		var upd model.TodoUpdate
		if cmd.Flags().Changed("task") {
			task, _ := cmd.Flags().GetString("task")
			upd.Task = &task
		}
		if cmd.Flags().Changed("completed") {
			completed, _ := cmd.Flags().GetBool("completed")
			upd.Completed = &completed
		}
		if upd.IsEmpty() {
			return fmt.Errorf("nothing to update: pass --task and/or --completed")
		}
		t, err := st.Update(cmd.Context(), todoID, upd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %s\n", t.ID)
		return nil
	},
}

// setCompleted builds the complete and reopen commands.
func setCompleted(use, short, verb string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			todoID, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := st.Update(cmd.Context(), todoID, model.TodoUpdate{Completed: &completed})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s todo %s\n", verb, t.ID)
			return nil
		},
	}
}

var (
	completeCmd = setCompleted("complete", "Mark a todo done", "Completed", true)
	reopenCmd   = setCompleted("reopen", "Mark a todo open", "Reopened", false)
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := st.FindOne(cmd.Context(), todoID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Todo: %s (%s)\n", t.Task, t.ID)
		if err := confirmDelete(cmd, t); err != nil {
			return err
		}
		if err := st.Remove(cmd.Context(), t.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo %s\n", t.ID)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <id>",
	Short: "Copy a todo to " + store.CheckoutDir + "/ in the current directory for local editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		path, err := store.Checkout(cmd.Context(), st, todoID, store.CheckoutDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var checkinCmd = &cobra.Command{
	Use:   "checkin <id>",
	Short: "Write a locally edited todo back and remove the local copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		t, err := store.Checkin(cmd.Context(), st, todoID, store.CheckoutPath(store.CheckoutDir, todoID))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checked in todo %s\n", t.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a todo in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoID, err := parseID(args[0])
		if err != nil {
			return err
		}
		dir, err := os.MkdirTemp("", "todos-edit-")
		if err != nil {
			return fmt.Errorf("creating temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		path, err := store.Checkout(cmd.Context(), st, todoID, dir)
		if err != nil {
			return err
		}
		if err := editor.Open(path); err != nil {
			return err
		}
		t, err := store.Checkin(cmd.Context(), st, todoID, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated todo %s\n", t.ID)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("pretty", false, "render with ANSI styling")

	updateCmd.Flags().String("task", "", "new task text")
	updateCmd.Flags().Bool("completed", false, "completion state (--completed=false to reopen)")

	deleteCmd.Flags().BoolP("force", "f", false, "skip confirmation")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(editCmd)
}
