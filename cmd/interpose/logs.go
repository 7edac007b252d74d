package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/logging"
)

var (
	logsTail   int
	logsErrors bool
)

var logsCmd = &cobra.Command{
	Use:   "logs [session-id]",
	Short: "Show recent events from a session log",
	Long: `Show the most recent structured events written by a UI session.

Without a session id the newest session is shown. --errors reads the shared
error log instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 20, "Number of events to show")
	logsCmd.Flags().BoolVar(&logsErrors, "errors", false, "Show the error log across all sessions")
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsTail < 0 {
		return withExitCode(errors.New(errors.ErrCodeInvalidInput, "--tail must not be negative"), exitFailure)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workdir, _ := os.Getwd()
	logDir := cfg.LogDir(workdir)

	var path string
	switch {
	case logsErrors:
		path = filepath.Join(logDir, "errors.jsonl")
	case len(args) == 1:
		path = logging.SessionPath(logDir, args[0])
	default:
		path, err = latestSessionLog(logDir)
		if err != nil {
			return err
		}
	}

	events, err := logging.ReadRecentEvents(path, logsTail)
	if err != nil {
		return err
	}
	return printEvents(cmd.OutOrStdout(), events)
}

// latestSessionLog returns the newest session file. Session ids are ULIDs,
// so lexical order is creation order.
func latestSessionLog(logDir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(logDir, "sessions"))
	if err != nil {
		return "", fmt.Errorf("no session logs in %s: %w", logDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no session logs in %s", logDir)
	}
	sort.Strings(names)
	return filepath.Join(logDir, "sessions", names[len(names)-1]), nil
}

func printEvents(w io.Writer, events []logging.Event) error {
	for _, ev := range events {
		line := fmt.Sprintf("%s %-5s %s/%s",
			ev.Timestamp.Local().Format(time.RFC3339),
			strings.ToUpper(string(ev.Level)),
			ev.Category,
			ev.EventType,
		)
		if ev.Message != "" {
			line += " " + ev.Message
		}
		if len(ev.Details) > 0 {
			details, err := json.Marshal(ev.Details)
			if err == nil {
				line += " " + string(details)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
