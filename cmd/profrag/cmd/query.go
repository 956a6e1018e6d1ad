package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	chiTransport "github.com/kailas-cloud/profrag/internal/transport/chi"
)

var queryPromptOnly bool

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Resolve one question and print the retrieval result",
	Long: `Runs name resolution and review retrieval for a question, without
the HTTP server, and prints the same JSON the API returns.

Examples:
  profrag query "what do students think of prof muller in statistics"
  profrag query --prompt "dr. zhang organic chemistry"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&queryPromptOnly, "prompt", false, "print only the rendered prompt context")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		printError("startup", err)
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		printError("startup", err)
		return err
	}
	defer a.Close()

	res, err := a.retrieval.Resolve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		printError("query", err)
		return err
	}

	if queryPromptOnly {
		_, err := fmt.Fprintln(os.Stdout, res.Context.Prompt())
		return err //nolint:wrapcheck // stdout write
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(chiTransport.NewRetrieveResponse(res)) //nolint:wrapcheck // stdout write
}
