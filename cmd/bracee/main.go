// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/bracee"
	"github.com/poiesic/bracee/config"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/ingestion"
	"github.com/poiesic/bracee/search"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bracee",
		Usage: "Facet-aware semantic search over people profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest person records from a JSON file",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to JSON file of person records",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Drop all facet namespaces before ingesting",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size (overrides config)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Run a search query",
				ArgsUsage: "<query text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Skip the LLM reranking stage",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write results to a file instead of stdout",
					},
				},
			},
			{
				Name:   "interactive",
				Usage:  "Interactive query loop (Ctrl-D exits)",
				Action: interactiveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results per query (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Skip the LLM reranking stage",
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Run a batch of queries from a CSV file and judge result quality",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "queries",
						Aliases:  []string{"q"},
						Usage:    "Path to CSV file with one query per row",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the results JSON file",
						Value:   "results.json",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results per query (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "no-eval",
						Usage: "Skip the LLM quality judge, only run the queries",
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Drop all facet namespaces and the interpretation cache",
				Action: resetCommand,
			},
			{
				Name:   "status",
				Usage:  "Report stored vector counts per facet",
				Action: statusCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

func newEngine(c *cli.Context) (*bracee.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	engine, err := bracee.NewEngine(bracee.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("starting engine: %w", err)
	}
	return engine, nil
}

// personWire is the JSON input shape for ingestion.
type personWire struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Headline       string `json:"headline"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	WorkExperience []struct {
		Title       string `json:"title"`
		Company     string `json:"company"`
		Description string `json:"description"`
	} `json:"work_experience"`
	Education []struct {
		School string `json:"school"`
		Degree string `json:"degree"`
		Field  string `json:"field_of_study"`
	} `json:"education"`
}

func loadRecords(path string) ([]*core.PersonRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wire []personWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	records := make([]*core.PersonRecord, len(wire))
	for i, w := range wire {
		record := &core.PersonRecord{
			ID:       w.ID,
			Name:     w.Name,
			Headline: w.Headline,
			Bio:      w.Bio,
			Location: w.Location,
		}
		for _, exp := range w.WorkExperience {
			record.WorkExperience = append(record.WorkExperience, core.WorkExperience{
				Title:       exp.Title,
				Company:     exp.Company,
				Description: exp.Description,
			})
		}
		for _, edu := range w.Education {
			record.Education = append(record.Education, core.EducationEntry{
				School: edu.School,
				Degree: edu.Degree,
				Field:  edu.Field,
			})
		}
		records[i] = record
	}
	return records, nil
}

func ingestCommand(c *cli.Context) error {
	records, err := loadRecords(c.String("data"))
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found in %s", c.String("data"))
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	bar := progressbar.Default(int64(len(records)), "ingesting")
	opts := []ingestion.Option{
		ingestion.WithProgress(func(done, total int) {
			bar.Set(done)
		}),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}

	pipeline, err := engine.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	stats, err := pipeline.Ingest(context.Background(), records,
		&ingestion.IngestOptions{Reset: c.Bool("reset")})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nIngested %d records (%d chunks)\n", stats.Records, stats.Chunks)
	return nil
}

func queryCommand(c *cli.Context) error {
	rawQuery := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if rawQuery == "" {
		return fmt.Errorf("query text is required")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Search(context.Background(), rawQuery, &search.SearchOptions{
		TopK:          c.Int("top-k"),
		DisableRerank: c.Bool("no-rerank"),
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResult(out, result)
}

func interactiveCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	opts := &search.SearchOptions{
		TopK:          c.Int("top-k"),
		DisableRerank: c.Bool("no-rerank"),
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("query> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		rawQuery := strings.TrimSpace(scanner.Text())
		if rawQuery == "" {
			continue
		}

		result, err := engine.Search(ctx, rawQuery, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if err := writeResult(os.Stdout, result); err != nil {
			return err
		}
	}
}

// loadQueries reads queries from a CSV file, one query in the first column
// of each row. Blank rows are skipped.
func loadQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var queries []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}
		if q := strings.TrimSpace(row[0]); q != "" {
			queries = append(queries, q)
		}
	}
	return queries, nil
}

// queryEvaluation pairs a query with the judge's verdict for the
// evaluations output file.
type queryEvaluation struct {
	Query      string             `json:"query"`
	Evaluation *search.Evaluation `json:"evaluation"`
}

func evalCommand(c *cli.Context) error {
	queries, err := loadQueries(c.String("queries"))
	if err != nil {
		return fmt.Errorf("loading queries: %w", err)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", c.String("queries"))
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	opts := &search.SearchOptions{TopK: c.Int("top-k")}
	judge := !c.Bool("no-eval")

	var (
		allResults  []*core.QueryResult
		evaluations []queryEvaluation
		scoreSum    float64
	)
	for i, rawQuery := range queries {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", i+1, len(queries), rawQuery)

		result, err := engine.Search(ctx, rawQuery, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			allResults = append(allResults, &core.QueryResult{Query: rawQuery})
			continue
		}
		allResults = append(allResults, result)

		if !judge {
			continue
		}
		eval, err := engine.Evaluate(ctx, rawQuery, result.Results)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  evaluation error: %v\n", err)
			continue
		}
		evaluations = append(evaluations, queryEvaluation{Query: rawQuery, Evaluation: eval})
		scoreSum += eval.OverallScore
		fmt.Fprintf(os.Stderr, "  evaluation score: %.0f/10\n", eval.OverallScore)
		if len(eval.Issues) > 0 {
			fmt.Fprintf(os.Stderr, "  issues: %s\n", strings.Join(eval.Issues, "; "))
		}
	}

	outputPath := c.String("output")
	if err := writeJSON(outputPath, allResults); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Results saved to %s\n", outputPath)

	if len(evaluations) > 0 {
		evalPath := filepath.Join(filepath.Dir(outputPath), "evaluations.json")
		if err := writeJSON(evalPath, evaluations); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Evaluations saved to %s\n", evalPath)
		fmt.Fprintf(os.Stderr, "Average evaluation score: %.1f/10\n", scoreSum/float64(len(evaluations)))
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func resetCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Reset(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "All facet namespaces cleared")
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	counts, err := engine.Counts(context.Background())
	if err != nil {
		return err
	}
	for _, facet := range core.AllFacets() {
		fmt.Printf("%-10s %d\n", facet, counts[facet])
	}
	return nil
}

func writeResult(out *os.File, result *core.QueryResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
