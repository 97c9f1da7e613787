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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/wendao"
	"github.com/poiesic/wendao/ai"
	"github.com/poiesic/wendao/indexing"
	"github.com/poiesic/wendao/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB index directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "docs",
			Usage:    "Path to the knowledge base documents directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "index-dir",
			Usage:    "Path to the YAML metadata records directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "bge-m3",
		},
	}

	app := &cli.App{
		Name:  "wendao",
		Usage: "Hybrid retrieval over a curated markdown knowledge base",
		Flags: []cli.Flag{
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
				Name:   "index",
				Usage:  "Build the vector index from the knowledge base",
				Action: indexCommand,
				Flags: append(commonFlags,
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Drop all index entries before rebuilding",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to write per index transaction",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents to process concurrently",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Retrieve documents for a query",
				ArgsUsage: "<query>",
				Action:    queryCommand,
				Flags: append(commonFlags,
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of documents to return",
						Value:   retrieval.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "layer",
						Usage: "Restrict to a knowledge layer (dao, shu)",
					},
					&cli.StringFlag{
						Name:  "doc-type",
						Usage: "Restrict to a document type",
					},
					&cli.BoolFlag{
						Name:  "no-expand",
						Usage: "Disable related-document expansion",
					},
					&cli.BoolFlag{
						Name:  "no-interpret",
						Usage: "Use the query verbatim, without keyword interpretation",
					},
				),
			},
			{
				Name:   "info",
				Usage:  "Show knowledge base and index statistics",
				Action: infoCommand,
				Flags:  commonFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openSystem(c *cli.Context) (*wendao.System, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	system, err := wendao.Open(c.String("db"), c.String("docs"), c.String("index-dir"),
		wendao.WithAIConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open system: %w", err)
	}

	return system, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	if c.Bool("reset") {
		if err := system.Index().Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Index reset")
	}

	opts := []indexing.Option{
		indexing.WithBatchSize(c.Int("batch-size")),
		indexing.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		indexing.WithProgressWriter(os.Stderr),
	}
	if c.Int("pool-size") > 0 {
		opts = append(opts, indexing.WithPoolSize(c.Int("pool-size")))
	}

	indexer, err := system.NewIndexer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Documents: %s\n", c.String("docs"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	report, err := indexer.IndexAll(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Documents: %d\n", report.Documents)
	fmt.Printf("Indexed:   %d\n", report.Indexed)
	fmt.Printf("Failed:    %d\n", report.Failed)
	fmt.Printf("Chunks:    %d\n", report.Chunks)

	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("query text is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	req := &retrieval.Request{
		Query:    text,
		TopK:     c.Int("top-k"),
		Layer:    c.String("layer"),
		DocType:  c.String("doc-type"),
		NoExpand: c.Bool("no-expand"),
	}

	if !c.Bool("no-interpret") {
		analysis := system.NewInterpreter().Interpret(text)
		req.Query = analysis.EnhancedQuery
		if req.Layer == "" {
			req.Layer = analysis.Layer
		}
		if req.DocType == "" {
			req.DocType = analysis.DocType
		}
	}

	retriever, err := system.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	results, err := retriever.Retrieve(ctx, req)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, cand := range results {
		marker := ""
		if cand.IsRelated {
			marker = " (related)"
		}
		fmt.Printf("%d. %s  score=%.4f%s\n", i+1, cand.DocID, cand.Score, marker)
		if layer := cand.Metadata["layer"]; layer != "" {
			fmt.Printf("   layer=%s doc_type=%s\n", layer, cand.Metadata["doc_type"])
		}
		if cand.Content != "" {
			fmt.Printf("   %s\n", firstLine(cand.Content))
		}
	}

	return nil
}

func infoCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	ids, err := system.Source().ListDocumentIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	count, err := system.Index().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count index entries: %w", err)
	}

	fmt.Printf("Documents: %d\n", len(ids))
	fmt.Printf("Indexed chunks: %d\n", count)

	return nil
}

// firstLine truncates content to its first non-empty line for display.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
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
