// Command reportetl runs one full reporting pass: extract the program
// mentorship entities, normalize them, compute the three summary reports,
// and replace the destination tables.
//
// The CLI layer stays thin: it loads configuration, optionally initializes a
// metrics backend, opens the storage backend through the factory, and hands
// off to the pipeline. It never imports database drivers directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"reportetl/internal/config"
	"reportetl/internal/metrics"
	"reportetl/internal/metrics/prompush"
	"reportetl/internal/pipeline"
	"reportetl/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "reportetl/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		envPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/report_etl.json", "job config JSON path")
	flag.StringVar(&envPath, "env", ".env", "dotenv file with connection settings (ignored when absent)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// Connection settings may come from a .env file the way the legacy
	// deployment supplied them; absence is not an error.
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	job, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(job)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag → config → env → none.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = job.Metrics.Backend
	}
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = job.Metrics.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job.Name, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v backend=%v job=%v", gwURL, backendName, job.Name)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}
	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	repo, err := storage.New(ctx, storage.Config{
		Kind: job.DB.Kind,
		DSN:  job.DB.ResolveDSN(),
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer repo.Close()

	if err := pipeline.Run(ctx, job, repo); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
