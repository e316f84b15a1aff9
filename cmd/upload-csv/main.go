package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/perfsum/internal/uploadcli"
)

// Default configuration constants.
const (
	defaultRows     = 20
	defaultUploads  = 1
	defaultWorkers  = 1
	defaultBadEvery = 5
	defaultTimeout  = 10 * time.Minute
	defaultRunLimit = 30 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		rows       = flag.Int("rows", defaultRows, "Data rows per generated CSV")
		uploads    = flag.Int("uploads", defaultUploads, "Number of uploads")
		workers    = flag.Int("workers", defaultWorkers, "Number of concurrent uploads")
		badEvery   = flag.Int("bad-every", defaultBadEvery, "Every n-th row gets an unparseable goals_met cell (0 disables)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Generated CSV file (default: sample_TIMESTAMP.csv)")
		reportFile = flag.String("report", "", "JSON report file (default: upload_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file (default: upload_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		uploadcli.ShowHelp()
		return
	}

	logPath, err := uploadcli.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunLimit)
	defer cancel()

	config := &uploadcli.Config{
		BaseURL:    *baseURL,
		Rows:       *rows,
		Uploads:    *uploads,
		Workers:    *workers,
		BadEvery:   *badEvery,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		ReportFile: *reportFile,
		LogFile:    logPath,
		Verbose:    *verbose,
	}

	if _, err := uploadcli.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Upload run failed: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1) //nolint:gocritic // deferred cancels already invoked
	}
}
