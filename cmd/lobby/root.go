package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ligustah/lobby/internal/bytesize"
	"github.com/ligustah/lobby/internal/config"
	"github.com/ligustah/lobby/internal/logging"
	"github.com/ligustah/lobby/internal/session"
)

type rootOptions struct {
	configFile    string
	logLevel      string
	timeout       time.Duration
	maxSize       string
	sessionID     int
	playerName    string
	imageURL      string
	modelURL      string
	failurePolicy string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Join a session and load the player's avatar",
		Long: `Join a session, set the player name and load the avatar model and image
from their URLs. Settings come from flags, LOBBY_ environment variables and an
optional YAML or TOML config file, in that order of precedence.`,
		Example: `lobby --app-session-id 42 --portal-user-name ada \
  --app-avatar-image-url https://cdn.example.com/ada.png`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd, &opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML or TOML config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.DurationVar(&opts.timeout, "timeout", 0, "per-fetch timeout (default 10s)")
	pf.StringVar(&opts.maxSize, "max-size", "", "maximum asset size, e.g. 32MiB")

	f := cmd.Flags()
	f.IntVar(&opts.sessionID, config.KeySessionID, 0, "session to create or join")
	f.StringVar(&opts.playerName, config.KeyPlayerName, "", "player display name")
	f.StringVar(&opts.imageURL, config.KeyAvatarImageURL, "", "avatar image URL")
	f.StringVar(&opts.modelURL, config.KeyAvatarModelURL, "", "avatar model URL")
	f.StringVar(&opts.failurePolicy, "failure-policy", "", "on avatar load failure: continue or abort")

	cmd.AddCommand(newFetchCmd(&opts))
	return cmd
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(opts.configFile); err != nil {
			return cfg, usageError{err}
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return cfg, usageError{err}
	}

	override := config.Config{
		SessionID:     opts.sessionID,
		PlayerName:    opts.playerName,
		Avatar:        config.AvatarConfig{ImageURL: opts.imageURL, ModelURL: opts.modelURL},
		Fetch:         config.FetchConfig{Timeout: opts.timeout},
		Log:           config.LogConfig{Level: opts.logLevel},
		FailurePolicy: config.FailurePolicy(opts.failurePolicy),
	}
	if opts.maxSize != "" {
		size, err := bytesize.Parse(opts.maxSize)
		if err != nil {
			return cfg, invalidArgs("--max-size: %w", err)
		}
		override.Fetch.MaxSize = size
	}
	return cfg.Merge(override), nil
}

func runBootstrap(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingSessionID) {
			return err
		}
		return usageError{err}
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return usageError{err}
	}

	player := session.NewPlayer(session.PlayerOptions{Logger: logger})
	mgr, err := session.NewManager(newRegistry(cfg, logger), player, logger)
	if err != nil {
		return err
	}

	report, err := session.Bootstrap(cmd.Context(), &cfg, mgr, logger)
	if report != nil {
		printReport(cmd.OutOrStdout(), report, player)
	}
	return err
}

func printReport(w io.Writer, report *session.Report, player *session.Player) {
	fmt.Fprintf(w, "session:      %d\n", report.SessionID)
	fmt.Fprintf(w, "player:       %s\n", player.Name())
	fmt.Fprintf(w, "avatar image: %v\n", player.AvatarImage())
	fmt.Fprintf(w, "avatar mesh:  %v\n", player.AvatarMesh())
	for _, l := range report.Loads {
		if l.Err != nil {
			fmt.Fprintf(w, "%s: %s: %v\n", l.Slot, l.Status, l.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", l.Slot, l.Status)
	}
}
