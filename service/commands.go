// Package service holds the folio command line: serving the blog and
// maintaining its stores.
package service

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"time"

	"folio/app/auth"
	"folio/app/config"
	"folio/app/repositories"
	"folio/app/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string

	cfg *config.Config
}

// Config loads the environment configuration once per invocation and
// installs the configured logger, writing to logs.
func (o *RootOptions) Config(logs io.Writer) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	// A missing .env file is fine; the process environment still applies.
	if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", o.EnvFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(cfg.NewLogger(logs))

	if cfg.LoginDisabled() {
		slog.Warn("FOLIO_ADMIN_DIGEST is empty; admin login is disabled",
			"hint", "generate one with: folio digest <secret>")
	}
	o.cfg = cfg
	return cfg, nil
}

// NewRootCommand creates the root command of the folio CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "folio - portfolio blog service",
		Long:          "Serves a personal portfolio front page with a Markdown blog and a single-admin dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the environment is read")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newDigestCommand())
	cmd.AddCommand(newBackupCommand(opts))
	cmd.AddCommand(newRestoreCommand(opts))
	cmd.AddCommand(newCleanCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, err := NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ln, err := net.Listen("tcp", cfg.ServerAddr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.ServerAddr(), err)
			}
			return app.Serve(cmd.Context(), ln)
		},
	}
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the welcome post to an empty blog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			repo, err := repositories.Open(cfg.RepositoryOptions())
			if err != nil {
				return err
			}
			defer repo.Close()

			posts := services.NewPostService(repo, cfg.Author)
			if err := posts.SeedInitialData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blog has %d post(s)\n", len(posts.ListPosts(cmd.Context())))
			return nil
		},
	}
}

func newDigestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest <secret>",
		Short: "Print the SHA3-256 digest to configure as FOLIO_ADMIN_DIGEST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), auth.Digest(args[0]))
			return nil
		},
	}
}

// localOnly rejects maintenance commands that only make sense for badger.
func localOnly(cfg *config.Config) error {
	if cfg.Storage != repositories.BackendLocal {
		return fmt.Errorf("only the local store can be maintained from the CLI, FOLIO_STORAGE is %q", cfg.Storage)
	}
	return nil
}

func newBackupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [dir]",
		Short: "Create a backup of the local store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := localOnly(cfg); err != nil {
				return err
			}

			dir := "data/backups"
			if len(args) == 1 {
				dir = args[0]
			}
			file, err := backupDB(cfg.DBPath, dir, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", file)
			return nil
		},
	}
}

func newRestoreCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the local store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := localOnly(cfg); err != nil {
				return err
			}

			if !exists(args[0]) {
				return fmt.Errorf("backup file does not exist: %s", args[0])
			}
			if exists(cfg.DBPath) && !yes &&
				!confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Existing database found. Do you want to replace it?") {
				return ErrCancelled
			}

			if err := restoreDB(cfg.DBPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}

func newCleanCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := localOnly(cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !exists(cfg.DBPath) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to clean the database? This cannot be undone.") {
				return ErrCancelled
			}
			if err := os.RemoveAll(cfg.DBPath); err != nil {
				return fmt.Errorf("cleaning database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio version %s\n", Version)
		},
	}
}
