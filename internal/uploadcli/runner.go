package uploadcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/perfsum/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes a complete upload run and returns its statistics. It fails
// when the service is unreachable or any response breaks the contract.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting upload run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rows", config.Rows),
		logger.Int("uploads", config.Uploads),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
	)

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check the service is up
	if err := client.TestConnection(ctx); err != nil {
		return stats, fmt.Errorf("connection check failed: %w", err)
	}

	// Step 2: Generate and save the sample file
	rows := GenerateRows(ctx, config.Rows, config.BadEvery)
	stats.RowsGenerated = len(rows)
	data, err := EncodeCSV(rows)
	if err != nil {
		return stats, fmt.Errorf("csv generation failed: %w", err)
	}
	if err := writeFile(config.OutputFile, "sample_", ".csv", data); err != nil {
		log.Warn(ctx, "failed to save sample csv", logger.Error(err))
	}

	// Step 3: Upload concurrently and verify each response
	uploadAll(ctx, config, client, rows, data, stats)

	// Step 4: Read the server counters
	if serverStats, err := client.Stats(ctx); err != nil {
		log.Warn(ctx, "failed to read server stats", logger.Error(err))
	} else {
		stats.ServerStats = serverStats
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := saveReport(config.ReportFile, stats); err != nil {
		log.Warn(ctx, "failed to save report", logger.Error(err))
	}
	displayFinalStats(ctx, stats)

	if stats.UploadsFailed > 0 || len(stats.Mismatches) > 0 {
		return stats, fmt.Errorf("%d failed uploads, %d contract mismatches", stats.UploadsFailed, len(stats.Mismatches))
	}
	log.Info(ctx, "upload run completed successfully")
	return stats, nil
}

// uploadAll sends config.Uploads copies of data using a worker pool.
func uploadAll(ctx context.Context, config *Config, client *HTTPClient, rows []Row, data []byte, stats *Stats) {
	log := logger.Get()
	workers := max(config.Workers, 1)
	jobs := make(chan int, workers*WorkerChannelMultiplier)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				filename := fmt.Sprintf("upload_%03d.csv", n)
				start := time.Now()
				records, err := client.Upload(ctx, filename, data)

				mu.Lock()
				stats.UploadsSubmitted++
				if err != nil {
					stats.UploadsFailed++
					mu.Unlock()
					log.Error(ctx, "upload failed", logger.String("file", filename), logger.Error(err))
					continue
				}
				mismatches, summaryErrors := Verify(rows, records)
				stats.UploadsOK++
				stats.RowsReturned += len(records)
				stats.SummaryErrors += summaryErrors
				for _, m := range mismatches {
					stats.Mismatches = append(stats.Mismatches, filename+": "+m)
				}
				mu.Unlock()

				log.Info(ctx, "upload verified",
					logger.String("file", filename),
					logger.Int("records", len(records)),
					logger.Int("summaryErrors", summaryErrors),
					logger.Int("mismatches", len(mismatches)),
					logger.Duration("elapsed", time.Since(start)),
				)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 1; n <= config.Uploads; n++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- n:
			}
		}
	}()
	wg.Wait()
}

// writeFile writes data to name, or to a timestamped file when name is empty.
func writeFile(name, prefix, ext string, data []byte) error {
	if name == "" {
		name = prefix + time.Now().Format("20060102_150405") + ext
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(name, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	logger.Get().Info(context.Background(), "file saved", logger.String("filename", name))
	return nil
}

func saveReport(name string, stats *Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(name, "upload_report_", ".json", append(data, '\n'))
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, rowsPerSecond float64
	if stats.UploadsSubmitted > 0 {
		successRate = float64(stats.UploadsOK) / float64(stats.UploadsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsReturned) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("uploadsSubmitted", stats.UploadsSubmitted),
		logger.Int("uploadsOK", stats.UploadsOK),
		logger.Int("uploadsFailed", stats.UploadsFailed),
		logger.Int("rowsReturned", stats.RowsReturned),
		logger.Int("summaryErrors", stats.SummaryErrors),
		logger.Int("mismatches", len(stats.Mismatches)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("rowsPerSecond", rowsPerSecond),
	)
}
