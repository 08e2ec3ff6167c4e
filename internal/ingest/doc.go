// Package ingest reads delimited source files into columnar datasets.
//
// ReadCSV parses a single stream. Loader adds discovery of *.csv files,
// content checksums and retries around transient read failures.
package ingest
