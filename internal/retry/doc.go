// Package retry provides retry logic with exponential backoff for the
// operations that can fail transiently: opening database connections,
// sending insert batches, and reading source files.
//
// # Example Usage
//
//	executor := retry.DefaultPolicy().Executor(retry.NewPostgreSQLErrorClassifier())
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return sendBatch(ctx)
//	})
//
// # Error Classification
//
// PostgreSQLErrorClassifier treats connection, resource and operator
// intervention errors (SQLSTATE classes 08, 53, 57), serialization failures,
// deadlocks and lock timeouts as transient. FileErrorClassifier retries
// missing or temporarily unreadable files and never retries errors that
// implement Permanent.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnRetry() and
// WithLogger() return independent copies.
package retry
