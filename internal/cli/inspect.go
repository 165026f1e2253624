package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a file is a well-formed pedigree document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openFile(cmd.Context(), args[0], sessionOpts{noCache: true})
			if err != nil {
				return err
			}
			doc := s.Snapshot()
			printSuccess("%s is valid", args[0])
			printStats(doc, nil)
			if p, ok := doc.Proband(); ok {
				printDetail("proband: %s (%s)", p.ID, p.Label)
			}
			return nil
		},
	}
}

func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print the individuals and relationships of a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openFile(cmd.Context(), args[0], sessionOpts{noCache: true})
			if err != nil {
				return err
			}
			doc := s.Snapshot()

			fmt.Fprintln(stdout, StyleTitle.Render(args[0]))
			printKeyValue("individuals", fmt.Sprint(len(doc.Nodes)))
			printKeyValue("lines", fmt.Sprint(len(doc.Edges)))
			printKeyValue("viewport", fmt.Sprintf("%.0f,%.0f @ %.2fx", doc.Viewport.X, doc.Viewport.Y, doc.Viewport.Zoom))
			printKeyValue("next id", fmt.Sprintf("%d", s.Editor().Store().NextID()))
			printNewline()

			if len(doc.Nodes) == 0 {
				printInfo("The chart is empty")
				printNextStep("Add an individual", "pedigree add "+args[0]+" --kind male")
				return nil
			}
			fmt.Fprintln(stdout, individualsTable(doc.Nodes, -1))
			if len(doc.Edges) > 0 {
				fmt.Fprintln(stdout, relationshipsTable(doc.Edges))
			}
			return nil
		},
	}
}
