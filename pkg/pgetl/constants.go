package pgetl

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied truncate approval
	ExitIngestionFailed = 13 // Source file could not be read
	ExitTransformFailed = 14 // Schema or type error during transformation
	ExitStorageFailed   = 15 // Writing or reading records failed
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultIngestRetryDelay is the pause between attempts to read a source file.
	DefaultIngestRetryDelay = 1 * time.Second

	// DefaultTable is the table patient records are written to.
	DefaultTable = "patients"

	// DefaultBatchSize is the number of rows sent per pgx batch.
	DefaultBatchSize = 500

	// DefaultWorkers bounds the number of batches in flight at once.
	DefaultWorkers = 4

	// DefaultMaxConns matches the pool size the loader has always used.
	DefaultMaxConns = 5

	// DefaultPreviewLimit is the number of rows the show command reads back.
	DefaultPreviewLimit = 5
)
