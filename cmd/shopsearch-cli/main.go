package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch"
	dbRedis "github.com/kailas-cloud/shopsearch/internal/db/redis"
	domcat "github.com/kailas-cloud/shopsearch/internal/domain/catalog"
	"github.com/kailas-cloud/shopsearch/internal/domain/pricing"
	logpkg "github.com/kailas-cloud/shopsearch/internal/logger"
	catalogrepo "github.com/kailas-cloud/shopsearch/internal/repository/catalog"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

const loggerKey = "logger"

func main() {
	_ = godotenv.Load() // .env is optional

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	catalogFlag := &cli.StringFlag{
		Name:     "catalog",
		Aliases:  []string{"c"},
		Usage:    "Path to the product catalog (.json, .yaml)",
		EnvVars:  []string{"SHOPSEARCH_CATALOG"},
		Required: true,
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format (text, json)",
		Value:   "text",
	}

	return &cli.App{
		Name:    "shopsearch",
		Usage:   "Search a product catalog with natural-language queries",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		After:  syncLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank the catalog against a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					catalogFlag,
					outputFlag,
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict to one category (All for any)",
					},
					&cli.Float64Flag{
						Name:  "price-max",
						Usage: "Maximum price",
					},
					&cli.Float64Flag{
						Name:  "rating-min",
						Usage: "Minimum rating",
					},
					&cli.BoolFlag{
						Name:  "dynamic-pricing",
						Usage: "Rank against demand-adjusted prices",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results to print",
						Value: 10,
					},
				},
			},
			{
				Name:      "parse",
				Usage:     "Show the constraints parsed from a query",
				ArgsUsage: "QUERY...",
				Action:    parseCommand,
				Flags:     []cli.Flag{outputFlag},
			},
			{
				Name:   "batch",
				Usage:  "Rank many queries concurrently, one per line",
				Action: batchCommand,
				Flags: []cli.Flag{
					catalogFlag,
					outputFlag,
					&cli.StringFlag{
						Name:     "queries",
						Aliases:  []string{"q"},
						Usage:    "File with one query per line (- for stdin)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size (0 = one per CPU)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results per query",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "dynamic-pricing",
						Usage: "Rank against demand-adjusted prices",
					},
				},
			},
			{
				Name:   "price",
				Usage:  "Print the catalog with demand-adjusted prices",
				Action: priceCommand,
				Flags: []cli.Flag{
					catalogFlag,
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output catalog format (json, yaml)",
						Value: "json",
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Print base prices instead of adjusted ones",
					},
				},
			},
			{
				Name:   "publish",
				Usage:  "Push a catalog file to a Redis or Valkey catalog key",
				Action: publishCommand,
				Flags: []cli.Flag{
					catalogFlag,
					&cli.StringSliceFlag{
						Name:    "redis-addr",
						Usage:   "Redis/Valkey address (repeatable)",
						EnvVars: []string{"REDIS_ADDR"},
						Value:   cli.NewStringSlice("localhost:6379"),
					},
					&cli.StringFlag{
						Name:    "redis-password",
						EnvVars: []string{"REDIS_PASSWORD"},
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Catalog key",
						Value: catalogrepo.DefaultRedisKey,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the store",
						Value: 10 * time.Second,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]any{loggerKey: logger}
	return nil
}

func syncLogger(c *cli.Context) error {
	_ = loggerFrom(c).Sync()
	return nil
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

func newClient(c *cli.Context, opts ...shopsearch.Option) (*shopsearch.Client, error) {
	opts = append([]shopsearch.Option{
		shopsearch.WithCatalogFile(c.String("catalog")),
		shopsearch.WithLogger(loggerFrom(c)),
	}, opts...)
	client, err := shopsearch.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return client, nil
}

func searchCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	q := shopsearch.Query{
		Text:     strings.Join(c.Args().Slice(), " "),
		Category: c.String("category"),
		Limit:    c.Int("limit"),
	}
	if c.IsSet("price-max") {
		v := c.Float64("price-max")
		q.PriceMax = &v
	}
	if c.IsSet("rating-min") {
		v := c.Float64("rating-min")
		q.RatingMin = &v
	}
	if c.IsSet("dynamic-pricing") {
		v := c.Bool("dynamic-pricing")
		q.DynamicPricing = &v
	}

	res, err := client.Search(c.Context, q)
	if err != nil {
		return err
	}

	if c.String("output") == "json" {
		return writeJSON(c.App.Writer, res)
	}
	printResults(c.App.Writer, res)
	return nil
}

func parseCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	ex := shopsearch.ExplainIntent(query)

	if c.String("output") == "json" {
		return writeJSON(c.App.Writer, ex)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "price_max:  %s\n", formatFloat(ex.Intent.PriceMax))
	fmt.Fprintf(w, "rating_min: %s\n", formatFloat(ex.Intent.RatingMin))
	fmt.Fprintf(w, "category:   %s\n", formatString(ex.Intent.Category))
	for _, r := range ex.Rules {
		fmt.Fprintf(w, "  %s <- %s (%q)\n", r.Constraint, r.Rule, r.Match)
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	queries, err := readQueries(c.String("queries"), c.App.Reader)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries in %s", c.String("queries"))
	}

	client, err := newClient(c, shopsearch.WithBatchWorkers(c.Int("workers")))
	if err != nil {
		return err
	}

	dynamic := c.Bool("dynamic-pricing")
	batch := make([]shopsearch.Query, len(queries))
	for i, text := range queries {
		batch[i] = shopsearch.Query{Text: text, Limit: c.Int("limit"), DynamicPricing: &dynamic}
	}

	results, err := client.SearchBatch(c.Context, batch)
	if err != nil {
		return err
	}
	loggerFrom(c).Info("Batch finished", zap.Int("queries", len(results)))

	if c.String("output") == "json" {
		return writeJSON(c.App.Writer, batchJSON(results))
	}
	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "== %s\n", r.Query)
		if r.Err != nil {
			fmt.Fprintf(c.App.Writer, "error: %v\n", r.Err)
			continue
		}
		printResults(c.App.Writer, r.Results)
	}
	return nil
}

func priceCommand(c *cli.Context) error {
	format, err := catalogrepo.FormatFromPath(c.String("catalog"))
	if err != nil {
		return err
	}
	repo, err := catalogrepo.New(c.String("catalog"), format)
	if err != nil {
		return err
	}
	base, err := repo.Load(context.Background())
	if err != nil {
		return err
	}

	priced := pricing.DefaultPolicy().Adjust(base, !c.Bool("reset"))
	return catalogrepo.Encode(c.App.Writer, priced, catalogrepo.Format(c.String("format")))
}

func publishCommand(c *cli.Context) error {
	repo, err := catalogrepo.New(c.String("catalog"), "")
	if err != nil {
		return err
	}
	cat, err := repo.Load(c.Context)
	if err != nil {
		return err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    c.StringSlice("redis-addr"),
		Password: c.String("redis-password"),
	})
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.WaitForReady(c.Context, c.Duration("timeout")); err != nil {
		return err
	}

	return publish(c.Context, c.App.Writer, catalogrepo.NewRedis(store, c.String("key")), cat, loggerFrom(c))
}

// catalogPublisher stores a catalog under a shared key.
type catalogPublisher interface {
	Publish(ctx context.Context, c domcat.Catalog) (int64, error)
	Key() string
}

func publish(ctx context.Context, w io.Writer, pub catalogPublisher, cat domcat.Catalog, logger *zap.Logger) error {
	v, err := pub.Publish(ctx, cat)
	if err != nil {
		return fmt.Errorf("publish catalog: %w", err)
	}
	logger.Info("catalog published", zap.String("key", pub.Key()), zap.Int64("version", v))
	_, err = fmt.Fprintf(w, "published %d products to %s (version %d)\n", cat.Len(), pub.Key(), v)
	return err
}

func readQueries(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open queries: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	return queries, nil
}

func printResults(w io.Writer, res *shopsearch.Results) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SCORE\tRATING\tPRICE\tCATEGORY\tNAME\n")
	for _, it := range res.Items {
		price := fmt.Sprintf("%.2f", it.Price)
		if it.PriceAdjusted() {
			price = fmt.Sprintf("%.2f (was %.2f)", it.Price, it.Base())
		}
		fmt.Fprintf(tw, "%.3f\t%.1f\t%s\t%s\t%s\n", it.Score, it.Rating, price, it.Category, it.Name)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d of %d (%s)\n", len(res.Items), res.Total, res.Mode)
}

type batchItemJSON struct {
	Query   string              `json:"query"`
	Error   string              `json:"error,omitempty"`
	Results *shopsearch.Results `json:"results,omitempty"`
}

func batchJSON(results []shopsearch.BatchResult) []batchItemJSON {
	out := make([]batchItemJSON, len(results))
	for i, r := range results {
		out[i] = batchItemJSON{Query: r.Query, Results: r.Results}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func formatString(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
