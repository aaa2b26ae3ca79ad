package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// searchCmd queries the article index without the TUI. Search needs
// no sign-in; it carries no session state.
var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search the legal-article index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	d := buildDeps()

	keyword := strings.Join(args, " ")
	if err := d.searcher.Search(context.Background(), keyword); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := d.searcher.Results()
	if len(results) == 0 {
		fmt.Printf("No articles found for %q.\n", keyword)
		return nil
	}

	for _, article := range results {
		fmt.Printf("%s %s\n", article.LawName, article.ArticleNumber)
		fmt.Println(indent(article.Content, "  "))
		fmt.Println()
	}
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
