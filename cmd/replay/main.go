// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Command replay plays a recorded JSONL capture of emotion snapshots and
// transcript segments into a MoodMeet server, the way a live client would:
// records are appended to local logs at their original cadence, flushed
// incrementally over HTTP, and the meeting is ended after a final flush.
//
//	replay capture.jsonl --server http://localhost:5001 --speed 4
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmeet/internal/apiclient"
	"github.com/tomtom215/moodmeet/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := replayOptions{}
	var logLevel string

	cmd := &cobra.Command{
		Use:          "replay <capture.jsonl>",
		Short:        "Replay a recorded meeting capture into a MoodMeet server",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{Level: logLevel, Format: "console", Timestamp: true, Output: cmd.ErrOrStderr()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.SyncInterval <= 0 {
				return fmt.Errorf("--sync-interval must be positive")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			recs, err := readCapture(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := replay(ctx, apiclient.New(opts.Server, nil), recs, opts)
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "meeting %s: %d emotions, %d transcript segments", res.Code, res.Emotions, res.Transcript)
				if res.Ended {
					fmt.Fprintf(cmd.OutOrStdout(), ", status %s", res.FinalStatus)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Server, "server", "s", "http://localhost:5001", "MoodMeet server base URL")
	f.StringVarP(&opts.Code, "code", "c", "", "replay into this existing meeting instead of creating one")
	f.StringVarP(&opts.Title, "title", "t", "Replayed Meeting", "title of the created meeting")
	f.StringVar(&opts.Host, "host", "Replay", "host name of the created meeting")
	f.Float64Var(&opts.Speed, "speed", 1, "playback speed multiplier, 0 replays without waiting")
	f.DurationVar(&opts.SyncInterval, "sync-interval", 30*time.Second, "incremental flush period")
	f.DurationVar(&opts.FlushTimeout, "flush-timeout", 10*time.Second, "deadline for the final flush and end call")
	f.BoolVar(&opts.Restamp, "restamp", false, "shift record timestamps so the capture starts now (the server rejects items stamped outside the meeting)")
	f.BoolVar(&opts.NoEnd, "no-end", false, "leave the meeting running after the replay")
	f.StringVar(&logLevel, "log-level", "info", "log level")

	return cmd
}
