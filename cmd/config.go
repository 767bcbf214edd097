package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rogersnm/todos/internal/config"
	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/repofile"
	"github.com/spf13/cobra"
)

// runSetupPrompt walks through storage and id policy selection and saves the
// result to config.yaml.
func runSetupPrompt(cmd *cobra.Command) error {
	driver := cfg.Storage.Driver
	if driver == "" {
		driver = config.DefaultDriver
	}
	policy := cfg.IDPolicy
	if policy == "" {
		policy = string(id.KindSequence)
	}
	dsn := cfg.Storage.DSN
	remote := cfg.RemoteURL()

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to todos! Where should todos be stored?").
				Options(
					huh.NewOption("SQLite file in "+dataDir, "sqlite"),
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("In memory (lost on exit)", "memory"),
				).
				Value(&driver),
			huh.NewSelect[string]().
				Title("Id policy").
				Options(
					huh.NewOption("Sequential integers from 101", string(id.KindSequence)),
					huh.NewOption("Random UUIDs", string(id.KindUUID)),
				).
				Value(&policy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("PostgreSQL DSN").
				Placeholder("host=localhost port=5432 user=postgres dbname=todos sslmode=disable").
				Value(&dsn),
		).WithHideFunc(func() bool { return driver != "postgres" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Todos server url (leave empty to use local storage)").
				Placeholder("http://localhost:3000").
				Value(&remote).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := repofile.Normalize(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return fmt.Errorf("run 'todos config set <key> <value>' to configure without a terminal")
	}

	cfg.Storage.Driver = driver
	cfg.IDPolicy = policy
	cfg.Storage.DSN = ""
	if driver == "postgres" {
		cfg.Storage.DSN = strings.TrimSpace(dsn)
	}
	cfg.Remote = nil
	if remote = strings.TrimSpace(remote); remote != "" {
		remote, _ = repofile.Normalize(remote)
		cfg.Remote = &config.RemoteConfig{URL: remote}
	}
	if err := config.Save(dataDir, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s storage with %s ids to %s\n", driver, policy, dataDir)
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure storage, id policy and server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetupPrompt(cmd)
	},
}

var configStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// cfg holds the file as written; show what commands will actually use.
		effective, err := config.Resolve(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Data: "+dataDir)
		if u := effective.RemoteURL(); u != "" {
			fmt.Fprintln(out, "Mode: remote")
			fmt.Fprintf(out, "Server: %s\n", u)
		} else {
			fmt.Fprintln(out, "Mode: local")
		}
		fmt.Fprintf(out, "Storage: %s\n", effective.Storage.Driver)
		if dsn := effective.DSN(); dsn != "" {
			fmt.Fprintf(out, "DSN: %s\n", redactDSN(dsn))
		}
		fmt.Fprintf(out, "ID policy: %s\n", effective.IDPolicy)
		fmt.Fprintf(out, "Listen: %s\n", effective.Server.Addr)
		fmt.Fprintf(out, "Log: %s (%s)\n", effective.Log.Level, effective.Log.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (keys: " + strings.Join(config.Keys(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "remote.url" && value != "" {
			normalized, err := repofile.Normalize(value)
			if err != nil {
				return err
			}
			value = normalized
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(dataDir, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value as written in config.yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

// redactDSN hides password=... values in a key/value DSN and the password
// in a URL DSN.
func redactDSN(dsn string) string {
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=***"
		}
	}
	dsn = strings.Join(fields, " ")
	if at := strings.Index(dsn, "@"); at > 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			creds := dsn[scheme+3 : at]
			if colon := strings.Index(creds, ":"); colon >= 0 {
				dsn = dsn[:scheme+3] + creds[:colon] + ":***" + dsn[at:]
			}
		}
	}
	return dsn
}

func init() {
	configCmd.AddCommand(configStatusCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}
