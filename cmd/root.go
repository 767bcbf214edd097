package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/todos/internal/config"
	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/logging"
	"github.com/rogersnm/todos/internal/repofile"
	"github.com/rogersnm/todos/internal/store"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	dataDir   string
	serverURL string
	st        store.Store
	cfg       *config.Config
	logger    = logging.Discard()
)

// storeAnnotation marks commands that manage their own storage (or need none)
// so the root pre-run does not open one.
const storeAnnotation = "todos/store"

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todos")
	}
	return filepath.Join(home, ".todos")
}

var rootCmd = &cobra.Command{
	Use:     "todos",
	Short:   "Todo tracking over a local database or a todos server",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		// Config commands edit the file as written, without env overlays, and
		// must work even when the file holds an invalid value.
		if isConfigCmd(cmd) {
			var err error
			cfg, err = config.Load(dataDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		}

		var err error
		cfg, err = config.Resolve(dataDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger = logging.New(cmd.ErrOrStderr(), cfg.LogOptions())

		if cmd.Annotations[storeAnnotation] == "none" {
			return nil
		}
		st, err = openStore(cmd.Context())
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st == nil {
			return nil
		}
		err := st.Close()
		st = nil
		return err
	},
	SilenceUsage: true,
}

func isConfigCmd(cmd *cobra.Command) bool {
	return cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
}

// resolveServer returns the todos server to talk to: the --server flag, then
// a .todos-server file above the working directory, then remote.url.
func resolveServer() (string, error) {
	if serverURL != "" {
		return repofile.Normalize(serverURL)
	}
	if cwd, err := os.Getwd(); err == nil {
		u, _, err := repofile.Find(cwd)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", repofile.FileName, err)
		}
		if u != "" {
			return u, nil
		}
	}
	return cfg.RemoteURL(), nil
}

func openStore(ctx context.Context) (store.Store, error) {
	remote, err := resolveServer()
	if err != nil {
		return nil, err
	}
	if remote != "" {
		logger.Debug("using remote store", "server", remote)
		return store.Open(ctx, store.Options{Driver: store.DriverRemote, ServerURL: remote})
	}
	return openLocalStore(ctx)
}

// openLocalStore opens the backend named by storage.driver, ignoring any
// configured server.
func openLocalStore(ctx context.Context) (store.Store, error) {
	kind, err := id.ParseKind(cfg.IDPolicy)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", "driver", cfg.Storage.Driver, "id_policy", kind)
	s, err := store.Open(ctx, store.Options{
		Driver:   cfg.Storage.Driver,
		DSN:      cfg.DSN(),
		IDPolicy: kind,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	return s, nil
}

// parseID reads a todo id argument using the open store's id policy.
func parseID(raw string) (id.ID, error) {
	return st.Policy().Parse(raw)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "data directory path")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "todos server url (overrides .todos-server and remote.url)")

	mtpOpts := &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"serve": {
				Examples: []mtp.Example{
					{Description: "Serve the API on the configured address", Command: "todos serve"},
					{Description: "Serve on another port with uuid ids", Command: "TODOS_ID_POLICY=uuid todos serve --addr :8080"},
				},
			},
			"migrate up": {
				Examples: []mtp.Example{
					{Description: "Create the todo table", Command: "todos migrate up"},
				},
			},
			"migrate seed": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of the inserted sample todos",
				},
			},
			"create": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Confirmation with the new todo's id",
				},
				Examples: []mtp.Example{
					{Description: "Create a todo", Command: "todos create \"Buy groceries\""},
					{Description: "Create a todo on a server", Command: "todos create \"Buy groceries\" --server http://localhost:3000"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of todos with ID, task and status, in creation order",
				},
			},
			"show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Todo header fields followed by the task text",
				},
				Examples: []mtp.Example{
					{Description: "Show a todo", Command: "todos show 101"},
					{Description: "Render the task as markdown", Command: "todos show 101 --pretty"},
				},
			},
			"update": {
				Examples: []mtp.Example{
					{Description: "Rename a todo", Command: "todos update 101 --task \"Buy milk\""},
					{Description: "Mark a todo done", Command: "todos update 101 --completed"},
					{Description: "Mark a todo open", Command: "todos update 101 --completed=false"},
				},
			},
			"complete": {
				Examples: []mtp.Example{
					{Description: "Mark a todo done", Command: "todos complete 101"},
				},
			},
			"reopen": {
				Examples: []mtp.Example{
					{Description: "Mark a todo open", Command: "todos reopen 101"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a todo (interactive confirm)", Command: "todos delete 101"},
					{Description: "Delete a todo (skip confirm)", Command: "todos delete 101 --force"},
				},
			},
			"checkout": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Local file path where the todo was checked out (e.g. .todos/101.md)",
				},
				Examples: []mtp.Example{
					{Description: "Checkout a todo for local editing", Command: "todos checkout 101"},
				},
			},
			"checkin": {
				Examples: []mtp.Example{
					{Description: "Check in a locally edited todo", Command: "todos checkin 101"},
				},
			},
			"link": {
				Examples: []mtp.Example{
					{Description: "Point this directory tree at a server", Command: "todos link http://localhost:3000"},
					{Description: "Show the linked server", Command: "todos link --show"},
				},
			},
			"unlink": {
				Examples: []mtp.Example{
					{Description: "Remove the directory's server link", Command: "todos unlink"},
				},
			},
			"config set": {
				Examples: []mtp.Example{
					{Description: "Use postgres", Command: "todos config set storage.driver postgres"},
					{Description: "Use uuid ids", Command: "todos config set id_policy uuid"},
				},
			},
		},
	}

	mtp.WithDescribe(rootCmd, mtpOpts)
}

func Execute() error {
	return rootCmd.Execute()
}
