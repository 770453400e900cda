package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calcfunding/portal/internal/domain/template"
)

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect funding template documents",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate FILE",
			Short: "Report structural problems in a funding template",
			Args:  cobra.ExactArgs(1),
			RunE:  validateTemplate,
		},
		&cobra.Command{
			Use:   "tree FILE",
			Short: "Print a funding template as a tree with node ids",
			Args:  cobra.ExactArgs(1),
			RunE:  printTemplateTree,
		},
	)
	return cmd
}

func loadTemplate(path string) (*template.Editor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := template.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

func validateTemplate(cmd *cobra.Command, args []string) error {
	e, err := loadTemplate(args[0])
	if err != nil {
		return err
	}
	problems := e.Validate()
	if len(problems) == 0 {
		return writef(cmd, "%s: ok (%d nodes)\n", args[0], e.Len())
	}
	for _, p := range problems {
		if err := writef(cmd, "%s: %s\n", args[0], p.String()); err != nil {
			return err
		}
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}

func printTemplateTree(cmd *cobra.Command, args []string) error {
	e, err := loadTemplate(args[0])
	if err != nil {
		return err
	}
	var b strings.Builder
	e.Walk(func(n template.Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&b, "[%d] %s", n.ID, n.Name)
		switch n.Kind {
		case template.KindFundingLine:
			fmt.Fprintf(&b, " (%s", n.LineType)
			if n.FundingLineCode != "" {
				fmt.Fprintf(&b, " %s", n.FundingLineCode)
			}
			b.WriteString(")")
		case template.KindCalculation:
			fmt.Fprintf(&b, " {%s}", n.CalculationType)
		}
		b.WriteString("\n")
	})
	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
