package uploadcli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/perfsum/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends the global logger to both stdout and a file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (string, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "upload_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return "", fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return logFile, nil
}

// ShowHelp prints usage information for the upload tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Performance Summary Upload Tool
===============================

Generates sample employee performance CSV files, uploads them to the
summary service and checks the responses.

Usage:
  go run ./cmd/upload-csv [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -rows int
        Data rows per CSV (default 20)
  -uploads int
        Number of uploads (default 1)
  -workers int
        Concurrent uploads (default 1)
  -bad-every int
        Every n-th row gets an unparseable goals_met cell, 0 disables (default 5)
  -timeout duration
        HTTP request timeout (default 10m)
  -output string
        Generated CSV file (default: sample_TIMESTAMP.csv)
  -report string
        JSON report file (default: upload_report_TIMESTAMP.json)
  -log string
        Log file (default: upload_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # One upload against a local server running the fake provider
  PERFSUM_PROVIDER=fake go run ./cmd/main.go &
  go run ./cmd/upload-csv -rows 50

  # Several concurrent uploads
  go run ./cmd/upload-csv -uploads 8 -workers 4 -rows 10
`)
}
