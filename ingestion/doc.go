// Package ingestion converts person records into facet-scoped vector
// chunks and stored profile summaries.
//
// Each record yields one education chunk per school, a single skills,
// companies and location chunk (when the record has data for them), and a
// catch-all free-text chunk. Chunk IDs are stable per person and facet, so
// ingesting the same record twice overwrites in place.
package ingestion
