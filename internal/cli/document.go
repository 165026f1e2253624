package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree/edit"
	"github.com/matzehuels/pedigree/pkg/pedigree/layout"
	"github.com/matzehuels/pedigree/pkg/session"
)

// dispatchFile applies intents to the document at path in order and saves
// it. The file is left untouched when any intent is rejected.
func (c *CLI) dispatchFile(ctx context.Context, path string, intents ...edit.Intent) (edit.Result, error) {
	var last edit.Result
	_, err := c.editFile(ctx, path, func(s *session.Session) error {
		for _, in := range intents {
			res, err := s.Dispatch(in)
			if err != nil {
				return err
			}
			last = res
		}
		return nil
	})
	return last, err
}

func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty pedigree document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return perrors.New(perrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			s, err := c.newSession(sessionOpts{noCache: true})
			if err != nil {
				return err
			}
			if _, err := s.Dispatch(edit.Intent{Op: edit.OpNew}); err != nil {
				return err
			}
			if err := s.SaveFile(cmd.Context(), path); err != nil {
				return err
			}
			printSuccess("Created %s", path)
			printNextStep("Add the first individual", "pedigree add "+path+" --kind female")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) addCommand() *cobra.Command {
	var (
		kind  string
		label string
		x, y  float64
	)

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Add an individual",
		Long: `Add an individual of the given kind. Without --x and --y the individual
is placed near the middle of the canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			add := edit.Intent{Op: edit.OpAdd, Kind: kind}
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				add.Position = &edit.XY{X: x, Y: y}
			}
			var id string
			_, err := c.editFile(cmd.Context(), args[0], func(s *session.Session) error {
				res, err := s.Dispatch(add)
				if err != nil {
					return err
				}
				id = res.ID
				if label == "" {
					return nil
				}
				_, err = s.Dispatch(edit.Intent{Op: edit.OpLabel, ID: id, Label: label})
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "unknown", "kind: male, female or unknown")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label (default: the kind's placeholder)")
	cmd.Flags().Float64Var(&x, "x", 0, "x position")
	cmd.Flags().Float64Var(&y, "y", 0, "y position")
	return cmd
}

func (c *CLI) connectCommand() *cobra.Command {
	var from, to, style string

	cmd := &cobra.Command{
		Use:   "connect [file] [source] [target]",
		Short: "Connect two individuals",
		Long: `Connect two individuals. The handles pick the sides of the symbols the
line leaves and enters: t(op), b(ottom), l(eft) or r(ight). A line entering
the top of an individual marks it as the child of the source.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			intents := []edit.Intent{{
				Op:           edit.OpConnect,
				Source:       args[1],
				SourceHandle: from,
				Target:       args[2],
				TargetHandle: to,
			}}
			res, err := c.editFileWithID(cmd.Context(), args[0], intents, style)
			if err != nil {
				return err
			}
			printSuccess("Connected %s %s %s as %s", args[1], iconArrow, args[2], res.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "b", "source handle")
	cmd.Flags().StringVar(&to, "to", "t", "target handle")
	cmd.Flags().StringVar(&style, "style", "", "line style: standard, uncertain or consanguineous")
	return cmd
}

// editFileWithID dispatches intents and, when style is set, restyles the
// relationship the last intent created.
func (c *CLI) editFileWithID(ctx context.Context, path string, intents []edit.Intent, style string) (edit.Result, error) {
	var res edit.Result
	_, err := c.editFile(ctx, path, func(s *session.Session) error {
		for _, in := range intents {
			r, err := s.Dispatch(in)
			if err != nil {
				return err
			}
			res = r
		}
		if style == "" {
			return nil
		}
		_, err := s.Dispatch(edit.Intent{Op: edit.OpRestyle, ID: res.ID, Style: style})
		return err
	})
	return res, err
}

func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect [file] [edge]",
		Short: "Remove a relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.dispatchFile(cmd.Context(), args[0], edit.Intent{Op: edit.OpDisconnect, ID: args[1]}); err != nil {
				return err
			}
			printSuccess("Removed %s", args[1])
			return nil
		},
	}
}

func (c *CLI) childCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "child [file] [parent] [parent]",
		Short: "Add a child below two partners",
		Long: `Add a child of unknown kind centered below the two parents, joined to
them by a partnership line and a descent line.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := args[1], args[2]
			res, err := c.dispatchFile(cmd.Context(), args[0],
				edit.Intent{Op: edit.OpSelectOnly, IDs: []string{a, b}},
				edit.Intent{Op: edit.OpChild, ParentA: a, ParentB: b},
			)
			if err != nil {
				return err
			}
			printSuccess("Added child %s of %s and %s", res.ID, a, b)
			return nil
		},
	}
}

func (c *CLI) setCommand() *cobra.Command {
	var (
		label string
		kind  string
		x, y  float64
		flags = map[string]*bool{}
	)
	flagNames := []string{"affected", "carrier", "deceased", "proband"}

	cmd := &cobra.Command{
		Use:   "set [file] [id]",
		Short: "Change an individual's label, kind, status or position",
		Example: `  pedigree set family.json node_2 --label "Grandma" --deceased
  pedigree set family.json node_4 --kind female --proband=false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[1]
			var intents []edit.Intent
			changed := cmd.Flags().Changed
			if changed("kind") {
				intents = append(intents, edit.Intent{Op: edit.OpRetype, ID: id, Kind: kind})
			}
			if changed("label") {
				intents = append(intents, edit.Intent{Op: edit.OpLabel, ID: id, Label: label})
			}
			for _, name := range flagNames {
				if changed(name) {
					intents = append(intents, edit.Intent{Op: edit.OpFlag, ID: id, Flag: name, Value: *flags[name]})
				}
			}
			move := changed("x") || changed("y")
			if len(intents) == 0 && !move {
				return perrors.New(perrors.ErrCodeInvalidInput, "nothing to set")
			}
			_, err := c.editFile(cmd.Context(), args[0], func(s *session.Session) error {
				if move {
					n, ok := s.Snapshot().Node(id)
					if !ok {
						return perrors.New(perrors.ErrCodeNodeNotFound, "individual %q not found", id)
					}
					to := edit.XY{X: n.Position.X, Y: n.Position.Y}
					if changed("x") {
						to.X = x
					}
					if changed("y") {
						to.Y = y
					}
					intents = append(intents, edit.Intent{Op: edit.OpMove, ID: id, Position: &to})
				}
				for _, in := range intents {
					if _, err := s.Dispatch(in); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "new label")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "new kind: male, female or unknown")
	for _, name := range flagNames {
		flags[name] = cmd.Flags().Bool(name, false, "set the "+name+" status flag")
	}
	cmd.Flags().Float64Var(&x, "x", 0, "new x position")
	cmd.Flags().Float64Var(&y, "y", 0, "new y position")
	return cmd
}

func (c *CLI) restyleCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "restyle [file] [edge] [style]",
		Short:     "Change a relationship's line style",
		Long:      `Change a relationship's line style: standard, uncertain (dashed) or consanguineous (double line).`,
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"standard", "uncertain", "consanguineous"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.dispatchFile(cmd.Context(), args[0], edit.Intent{Op: edit.OpRestyle, ID: args[1], Style: args[2]}); err != nil {
				return err
			}
			printSuccess("Restyled %s as %s", args[1], args[2])
			return nil
		},
	}
}

func (c *CLI) selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select [file] [id...]",
		Short: "Check what a selection would allow",
		Long: `Select the given individuals and relationships and report which edits
the selection enables. The file is not changed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openFile(cmd.Context(), args[0], sessionOpts{noCache: true})
			if err != nil {
				return err
			}
			if _, err := s.Dispatch(edit.Intent{Op: edit.OpSelectOnly, IDs: args[1:]}); err != nil {
				return err
			}
			sel := s.Editor().Selection()
			printInfo("Selected %s and %s", plural(sel.NodeCount(), "individual"), plural(len(sel.Edges), "relationship"))
			if a, b, ok := sel.Pair(); ok {
				printDetail("child: pedigree child %s %s %s", args[0], a, b)
			}
			printDetail("delete: pedigree delete %s %s", args[0], strings.Join(args[1:], " "))
			return nil
		},
	}
}

func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [file] [id...]",
		Short: "Delete individuals and relationships",
		Long: `Delete the given individuals and relationships. Relationships attached
to a deleted individual are removed with it.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.dispatchFile(cmd.Context(), args[0],
				edit.Intent{Op: edit.OpSelectOnly, IDs: args[1:]},
				edit.Intent{Op: edit.OpDelete},
			)
			if err != nil {
				return err
			}
			printSuccess("Deleted %s and %s", plural(res.Removed.Nodes, "individual"), plural(res.Removed.Edges, "relationship"))
			return nil
		},
	}
}

func (c *CLI) arrangeCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "arrange [file]",
		Short: "Auto-arrange the chart",
		Long: `Auto-arrange the chart. "roots" lines up the individuals without parents
in one row; "layered" places every generation on its own row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.cfg.ArrangeMode()
			if cmd.Flags().Changed("mode") {
				parsed, err := layout.ParseMode(mode)
				if err != nil {
					return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "arrange")
				}
				m = parsed
			}
			var moved int
			_, err := c.editFile(cmd.Context(), args[0], func(s *session.Session) error {
				var err error
				moved, err = s.Arrange(m)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Arranged %s (%s)", plural(moved, "individual"), m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "roots or layered (default from config)")
	return cmd
}
