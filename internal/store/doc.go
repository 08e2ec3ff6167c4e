// Package store writes transformed patient records to PostgreSQL and reads
// them back.
//
// Rows are inserted in fixed-size pgx batches, several batches in flight at
// once. Each batch runs as one implicit transaction, so a failed batch is
// retried as a whole without leaving partial rows behind. Every source file
// loaded is recorded in etl_load_runs with its checksum, which lets a later
// run skip files it has already loaded.
package store
