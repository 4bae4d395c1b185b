package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pemre/couchspinner/internal/adapters/driven/presenter/console"
	"github.com/pemre/couchspinner/internal/adapters/driving/fileinput"
	"github.com/pemre/couchspinner/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest an export archive or JSON file",
	Long: `Ingest a couch-surfing export and print the resulting session.

The file may be the .zip export itself or the JSON document inside it.

Examples:
  couchspinner ingest export.zip
  couchspinner ingest export.zip --identities
  couchspinner ingest data.json --find alice`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("identities", false, "list the identities found in the export")
	ingestCmd.Flags().String("find", "", "fuzzy-match identities against a username or display name")
	ingestCmd.Flags().Int("limit", 10, "maximum number of --find matches")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	showIdentities, _ := cmd.Flags().GetBool("identities")
	query, _ := cmd.Flags().GetString("find")
	limit, _ := cmd.Flags().GetInt("limit")

	out := cmd.OutOrStdout()
	presenter := console.New(out, showIdentities)

	orchestrator, identities, err := newSession(cmd.Context(), presenter)
	if err != nil {
		return err
	}

	inputs := make([]domain.RawInput, 0, len(args))
	for _, path := range args {
		input, err := fileinput.Load(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, input)
	}

	if _, err := orchestrator.Ingest(cmd.Context(), inputs); err != nil {
		// The presenter has already printed the message.
		return shownError{err}
	}

	if query == "" {
		return nil
	}

	matches := identities.Find(query, limit)
	if len(matches) == 0 {
		fmt.Fprintf(out, "\nNo identities match %q.\n", query)
		return nil
	}
	fmt.Fprintf(out, "\nMatches for %q:\n", query)
	for _, m := range matches {
		fmt.Fprintf(out, "  %-12s %-20s %-24s %.2f\n",
			displayID(m.Identity.PersonID), m.Identity.Username, m.Identity.DisplayName, m.Score)
	}
	return nil
}

func displayID(id string) string {
	if id == "" {
		return "(none)"
	}
	return id
}
