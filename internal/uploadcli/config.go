// Package uploadcli drives the summary service from the outside: it builds
// sample CSV files, uploads them and checks the responses against the
// service contract.
package uploadcli

import "time"

// Config holds configuration for an upload run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Rows       int           // Data rows per generated CSV
	Uploads    int           // Number of CSV uploads
	Workers    int           // Concurrent uploads
	BadEvery   int           // Every n-th row gets an unparseable goals_met cell; 0 disables
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Where the generated CSV is written
	ReportFile string        // Where the JSON report is written
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Row is one generated CSV row plus the values the service should echo.
type Row struct {
	EmployeeName    string
	EmployeeID      string
	Department      string
	Month           string
	TasksCompleted  string
	GoalsCell       string
	PeerFeedback    string
	ManagerComments string

	ExpectedGoals float64
}

// SummaryRecord mirrors one element of the upload response.
type SummaryRecord struct {
	EmployeeName    string  `json:"employee_name"`
	EmployeeID      string  `json:"employee_id"`
	Department      string  `json:"department"`
	Month           string  `json:"month"`
	TasksCompleted  string  `json:"tasks_completed"`
	GoalsMet        float64 `json:"goals_met"`
	PeerFeedback    *string `json:"peer_feedback,omitempty"`
	ManagerComments *string `json:"manager_comments,omitempty"`
	Summary         string  `json:"summary"`
}

// ErrorResponse mirrors the service error body.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated    int           `json:"rows_generated"`
	UploadsSubmitted int           `json:"uploads_submitted"`
	UploadsOK        int           `json:"uploads_ok"`
	UploadsFailed    int           `json:"uploads_failed"`
	RowsReturned     int           `json:"rows_returned"`
	SummaryErrors    int           `json:"summary_errors"`
	Mismatches       []string      `json:"mismatches,omitempty"`
	ServerStats      any           `json:"server_stats,omitempty"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration_ns"`
}
