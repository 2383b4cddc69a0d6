package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRoutesCmd() *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the bound routes",
		Long:  `Prints the route table as Markdown. On a terminal, or with --render, the table is rendered for reading.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := buildOffline(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			md := srv.Binder().Markdown()
			if !render && !isTerminal(w) {
				_, err := io.WriteString(w, md)
				return err
			}

			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			text, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render routes: %w", err)
			}
			_, err = io.WriteString(w, text)
			return err
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render Markdown even when not writing to a terminal")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
