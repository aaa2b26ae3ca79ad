package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lawcheck/internal/session"
	"lawcheck/internal/verdict"
)

// checkCmd runs a single fact-check turn without the TUI.
var checkCmd = &cobra.Command{
	Use:   "check [query]",
	Short: "Fact-check a single legal claim",
	Long: `Submit one claim to the fact-checking service and print the verdict.

Requires a signed-in identity with a resolved backend account
(run 'lawcheck auth login' first).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	d := buildDeps()
	ctx := context.Background()

	user := d.gate.CurrentUser()
	if user == nil {
		return fmt.Errorf("not signed in: run 'lawcheck auth login' first")
	}
	if !user.Resolved() {
		if err := d.gate.ResolveID(ctx); err != nil {
			return fmt.Errorf("backend account not resolved: %w", err)
		}
		user = d.gate.CurrentUser()
	}
	d.session.Bind(user.BackendID)

	query := strings.Join(args, " ")
	turn, err := d.session.Submit(ctx, query)
	if err != nil {
		return err
	}

	printVerdict(turn)
	return nil
}

func printVerdict(turn session.Turn) {
	v := turn.Verdict
	fmt.Printf("Verdict: %s\n\n", verdictLabel(v.Class))
	fmt.Println(v.Explanation)
	if v.ExampleCase != "" {
		fmt.Println("\nExample case:")
		fmt.Println(v.ExampleCase)
	}
	if v.CautionNote != "" {
		fmt.Println("\nCaution:")
		fmt.Println(v.CautionNote)
	}
	if len(v.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range v.Sources {
			fmt.Println("  -", s)
		}
	}
}

func verdictLabel(class verdict.Class) string {
	switch class {
	case verdict.True:
		return "TRUE"
	case verdict.Partial:
		return "PARTIALLY TRUE"
	case verdict.False:
		return "FALSE"
	default:
		return "INDETERMINATE"
	}
}
