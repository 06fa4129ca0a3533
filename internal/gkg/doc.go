// Package gkg parses the GDELT Global Knowledge Graph v2.1 feed.
//
// A feed file is a sequence of tab-delimited lines with 27 positional
// fields. Reader turns a byte stream into numbered non-blank lines and
// ParseRecord turns one line into a domain.Record. Composite fields are
// decoded by small per-family parsers (counts, themes, locations, entities,
// tone, dates, GCAM, quotations, names, amounts, translation info).
//
// Parsing is lenient. The only line-level failure is a line with fewer than
// five fields. Everything else degrades silently: unparsable numbers become
// zero, structurally incomplete blocks are dropped, and empty fields become
// empty slices or nil. The package holds no mutable state, so records may be
// parsed from any number of goroutines.
package gkg
