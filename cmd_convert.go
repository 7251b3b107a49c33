package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chat2md/internal/dom"
	"chat2md/internal/markdown"
	"chat2md/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	selector            string
	baseURL             string
	indent              int
	listTrailingNewline bool
}

func newConvertCmd() *cobra.Command {
	o := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Convert an HTML fragment to Markdown with the default rules",
		Long: `convert runs the converter over every element matching --selector in an
HTML file, or stdin when FILE is omitted or '-', and prints the Markdown.`,
		Example: `  echo '<ul><li>a<ul><li>b</li></ul></li></ul>' | chat2md convert
  chat2md convert -s ".markdown" --base-url https://gemini.google.com/app/1 page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return invalidInput("failed to open %s: %v", args[0], err)
				}
				defer f.Close()
				r = f
			}
			out, err := convertHTML(r, o)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.selector, "selector", "s", "body", "CSS selector of the elements to convert")
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "URL relative links resolve against")
	cmd.Flags().IntVar(&o.indent, "indent", markdown.DefaultIndentWidth, "Spaces per nested list level")
	cmd.Flags().BoolVar(&o.listTrailingNewline, "list-trailing-newline", false, "End every list with an extra newline")
	return cmd
}

func convertHTML(r io.Reader, o *convertOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	matches := doc.Find(o.selector)
	if matches.Length() == 0 {
		return "", scraper.NotFound(o.selector)
	}

	conv := markdown.New(
		markdown.WithIndentWidth(o.indent),
		markdown.WithListTrailingNewline(o.listTrailingNewline),
	)
	base := dom.ParseBase(o.baseURL)
	var parts []string
	matches.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, conv.Convert(dom.FromSelection(s, base)))
	})
	return markdown.Normalize(strings.Join(parts, "\n\n")), nil
}
