package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/datalago/askdb/pkg/agent"
	"github.com/datalago/askdb/pkg/config"
	"github.com/datalago/askdb/pkg/dbx"
	"github.com/datalago/askdb/pkg/llm"
	"github.com/datalago/askdb/pkg/logger"
	"github.com/datalago/askdb/pkg/metrics"
	"github.com/datalago/askdb/pkg/querier"
	"github.com/datalago/askdb/pkg/schema"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	questionFlag := flag.String("question", "", "run a single question and exit (empty starts an interactive loop)")
	showStepsFlag := flag.Bool("show-steps", true, "print the agent's reasoning steps")
	metricsAddrFlag := flag.String("metrics-addr", "", "address to listen on for prometheus metrics (empty disables)")

	driverFlag := flag.String("db-driver", "", "database driver: duckdb, pgx or clickhouse (or set DB_DRIVER)")
	dsnFlag := flag.String("db-dsn", "", "database DSN (or set DB_DSN)")
	providerFlag := flag.String("llm-provider", "", "LLM provider: anthropic or ollama (or set LLM_PROVIDER)")

	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if *driverFlag != "" {
		cfg.DBDriver = *driverFlag
	}
	if *dsnFlag != "" {
		cfg.DBDSN = *dsnFlag
	}
	if *providerFlag != "" {
		cfg.LLMProvider = *providerFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(*verboseFlag)

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := <-sigCh
		log.Info("askdb: received signal", "signal", sig.String())
		cancel()
	}()

	if *metricsAddrFlag != "" {
		metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", *metricsAddrFlag)
			if err != nil {
				log.Error("failed to start prometheus metrics server listener", "error", err)
				return
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			http.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, nil); err != nil {
				log.Error("failed to start prometheus metrics server", "error", err)
			}
		}()
	}

	db, err := dbx.Open(ctx, log, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	inspector, err := schema.New(schema.Config{
		Logger:  log,
		DB:      db,
		Dialect: cfg.DBDriver,
	})
	if err != nil {
		return fmt.Errorf("failed to create schema inspector: %w", err)
	}

	q, err := querier.New(querier.Config{
		Logger:  log,
		DB:      db,
		Timeout: cfg.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create querier: %w", err)
	}

	llmClient, err := llm.New(cfg)
	if err != nil {
		return err
	}
	log.Info("askdb: LLM provider resolved", "provider", cfg.LLMProvider)

	engine, err := agent.New(&agent.Config{
		Logger:          log,
		LLM:             llmClient,
		Querier:         q,
		Inspector:       inspector,
		MaxAttempts:     cfg.MaxAttempts,
		FilterThreshold: cfg.FilterThreshold,
		QueryLimit:      cfg.QueryLimit,
		LLMTimeout:      cfg.LLMTimeout,
		QueryTimeout:    cfg.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent engine: %w", err)
	}

	if *questionFlag != "" {
		return ask(ctx, engine, *questionFlag, *showStepsFlag)
	}

	// Interactive loop.
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("pergunta> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "sair" || question == "exit" {
			return nil
		}
		if err := ask(ctx, engine, question, *showStepsFlag); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func ask(ctx context.Context, engine *agent.Engine, question string, showSteps bool) error {
	result, err := engine.Run(ctx, question)
	if err != nil {
		return err
	}

	if showSteps {
		for _, step := range result.Steps {
			fmt.Println("  - " + step)
		}
		fmt.Println()
	}

	fmt.Println(result.FinalAnswer)

	if result.Rows != nil && result.Rows.Count > 0 {
		fmt.Println()
		renderTable(result.Rows)
	}
	return nil
}

// renderTable prints the result rows as an ASCII table.
func renderTable(res *querier.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(res.Columns)
	for _, row := range res.Rows {
		values := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			if row[col] == nil {
				values[i] = ""
				continue
			}
			values[i] = fmt.Sprintf("%v", row[col])
		}
		table.Append(values)
	}
	table.Render()
}
