// Package transform holds the pure clean, normalize and validate stages that
// turn an ingested patient dataset into the shape stored in PostgreSQL.
//
// The stages run in a fixed order and stop at the first error:
//
//	out, err := transform.Transform(ds) // Validate(Normalize(Clean(ds)))
//
// Run does the same and also returns a Report with per-stage row counts and
// non-fatal warnings. Nothing in this package performs I/O or logs; callers
// decide how to surface errors and warnings.
package transform
