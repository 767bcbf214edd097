package cmd

import (
	"fmt"
	"os"

	"github.com/rogersnm/todos/internal/repofile"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:         "link [server-url]",
	Short:       "Point the current directory tree at a todos server",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{storeAnnotation: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		if show, _ := cmd.Flags().GetBool("show"); show || len(args) == 0 {
			u, dir, err := repofile.Find(cwd)
			if err != nil {
				return err
			}
			if u == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not linked")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked to %s (via %s)\n", u, dir)
			return nil
		}

		if err := repofile.Write(cwd, args[0]); err != nil {
			return err
		}
		u, _ := repofile.Read(cwd)
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to %s\n", cwd, u)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Remove the current directory's server link",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{storeAnnotation: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		removed, err := repofile.Remove(cwd)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s in %s\n", repofile.FileName, cwd)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s\n", cwd)
		return nil
	},
}

func init() {
	linkCmd.Flags().Bool("show", false, "print the linked server instead of setting one")
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
}
