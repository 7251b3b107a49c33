package main

import (
	"strings"

	"chat2md/internal/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the site adapters and the hosts they serve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Site", "Hosts", "Ready selector"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignLeft},
				{Number: 2, Align: text.AlignLeft, WidthMax: 40},
				{Number: 3, Align: text.AlignLeft, WidthMax: 60},
			})
			for _, name := range scraper.Names() {
				s, _ := scraper.Get(name)
				hosts := strings.Join(s.Hosts(), ", ")
				if hosts == "" {
					hosts = "(fallback)"
				}
				t.AppendRow(table.Row{s.Name(), hosts, s.ReadySelector()})
			}
			t.Render()
			return nil
		},
	}
}
