// Package billing contains the vendor billing core: jobs and their line
// items, billing notes with frozen tax calculation snapshots, receipts,
// payment vouchers, and the document numbering rules that tie them
// together. Status machines here are authoritative; persistence and HTTP
// layers never mutate a document status directly.
package billing
