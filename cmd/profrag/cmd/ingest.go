package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	ingestuc "github.com/kailas-cloud/profrag/internal/usecase/ingest"
)

var ingestBatchSize int

var ingestCmd = &cobra.Command{
	Use:   "ingest <dataset.yaml|dataset.toml>",
	Short: "Load professors and reviews into Redis",
	Long: `Creates the professor and review indexes if needed, writes the
professor directory, embeds every review text and stores the reviews
with their vectors. Files ending in .toml are read as TOML, anything
else as YAML.

Examples:
  profrag ingest testdata/sample_dataset.yaml
  profrag ingest --batch-size 64 reviews.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "reviews per embedding round (overrides index.ingest_batch_size)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ds, err := ingestuc.LoadDatasetFile(args[0])
	if err != nil {
		printError("dataset", err)
		return err
	}

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

	svc := a.ingest.WithBatchSize(ingestBatchSize)
	rep, err := svc.Ingest(cmd.Context(), ds)
	if err != nil {
		logger.Error("Ingestion failed", zap.Error(err), zap.Int("reviews_written", rep.Reviews))
		printError("ingest", err)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep) //nolint:wrapcheck // stdout write
}
