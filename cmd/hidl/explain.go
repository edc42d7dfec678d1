package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"hidl/internal/diag"
)

func newExplainCmd() *cobra.Command {
	var (
		list bool
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "explain <CODE>",
		Short: "Describe a diagnostic code such as RES3001",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, c := range diag.Codes() {
					fmt.Fprintf(out, "%s\t%s\n", c.ID(), c.Title())
				}
				return nil
			}
			code, ok := diag.ParseCode(args[0])
			if !ok {
				return fmt.Errorf("unknown diagnostic code %q (see hidl explain --list)", args[0])
			}
			md := code.Explain()
			if raw {
				_, err := fmt.Fprint(out, md)
				return err
			}
			colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return err
			}
			color, err := readColor(colorFlag)
			if err != nil {
				return err
			}
			rendered, err := renderMarkdown(md, color)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list every code with its title")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")
	return cmd
}

func renderMarkdown(md string, color bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
