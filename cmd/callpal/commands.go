package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"callpal-go/internal/config"
	"callpal-go/internal/logger"
	"callpal-go/internal/phone"
	"callpal-go/internal/pipeline"
	"callpal-go/internal/theme"
	"callpal-go/internal/types"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "callpal",
		Short:         "Operate the CallPal call assistant from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr at debug level")

	root.AddCommand(
		newTranscriptCmd(opts),
		newIntentCmd(opts),
		newScenariosCmd(opts),
		newPhoneCmd(),
		newThemeCmd(),
	)
	return root
}

// services builds the same service graph the server uses.
func (o *rootOptions) services() (*pipeline.Services, error) {
	cfg := config.Load()
	level := "error"
	if o.verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Environment: cfg.Environment, Level: level, Output: os.Stderr})
	return pipeline.Build(cfg, log, nil)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTranscriptCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <call-id>",
		Short: "Transcribe a finished call into speaker turns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.services()
			if err != nil {
				return err
			}
			defer s.Close()

			lines, err := s.Transcripts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"lines": lines})
		},
	}
}

func newIntentCmd(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "intent <message>",
		Short: "Extract the call intent from a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.services()
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.Profiles.Get()
			m := types.ParseMode(mode, types.ParseMode(string(p.Mode), types.ModeCalm))
			intent, err := s.Intents.Extract(cmd.Context(), strings.Join(args, " "), p, m)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), intent)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "calm or power (default: profile mode)")
	return cmd
}

func newScenariosCmd(opts *rootOptions) *cobra.Command {
	var mode, door string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List demo scenarios for one mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.services()
			if err != nil {
				return err
			}
			defer s.Close()
			return printJSON(cmd.OutOrStdout(), s.Scenarios.Shape(types.ParseMode(mode, types.ModeCalm), types.Door(door)))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "calm", "calm or power")
	cmd.Flags().StringVar(&door, "door", "", "only scenarios for this door")
	return cmd
}

type phoneResult struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Valid      bool   `json:"valid"`
}

func newPhoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phone <number>",
		Short: "Normalize a phone number to E.164",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := strings.Join(args, " ")
			n := phone.Normalize(in)
			return printJSON(cmd.OutOrStdout(), phoneResult{Input: in, Normalized: n, Valid: phone.Valid(n)})
		},
	}
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [favourite thing]",
		Short: "Show the UI theme for a favourite thing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), theme.Lookup(strings.Join(args, " ")))
		},
	}
}
