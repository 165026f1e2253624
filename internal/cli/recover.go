package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

func (c *CLI) recoverCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "recover [session-id]",
		Short: "List or restore autosaved documents",
		Long: `The serve command keeps an autosave copy of every unsaved change. Without
an argument, recover lists the copies left by sessions that ended with
unsaved changes. With a session id, it writes that copy back to its file,
or to --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.listAutosaves(cmd.Context())
			}
			return c.restoreAutosave(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of the original")
	return cmd
}

func (c *CLI) listAutosaves(ctx context.Context) error {
	fs, err := c.autosaveStore()
	if err != nil {
		return err
	}
	recs, err := fs.List(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printInfo("No autosaved documents")
		return nil
	}
	for _, rec := range recs {
		path := rec.Path
		if path == "" {
			path = "(unsaved)"
		}
		printInfo("%s  %s", rec.ID, StyleValue.Render(path))
		printDetail("revision %d, saved %s", rec.Revision, formatRelativeTime(rec.SavedAt, time.Now()))
	}
	printNewline()
	printNextStep("Restore one", "pedigree recover "+recs[0].ID)
	return nil
}

func (c *CLI) restoreAutosave(ctx context.Context, id, output string) error {
	s, err := c.newSession(sessionOpts{noCache: true, autosave: true})
	if err != nil {
		return err
	}
	rec, err := s.Recover(ctx, id)
	if err != nil {
		return err
	}
	path := output
	if path == "" {
		path = rec.Path
	}
	if path == "" {
		return perrors.New(perrors.ErrCodeInvalidInput, "session %s was never saved to a file; pass --output", id)
	}
	if err := s.SaveFile(ctx, path); err != nil {
		return err
	}
	fs, err := c.autosaveStore()
	if err != nil {
		return err
	}
	if err := fs.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Close(ctx); err != nil {
		return err
	}
	printSuccess("Recovered revision %d", rec.Revision)
	printFile(path)
	printStats(s.Snapshot(), nil)
	return nil
}

// formatRelativeTime renders t relative to now, e.g. "5m ago".
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
