// Package parser scans Python source files, the one source dialect the
// analyzer understands structurally. It extracts import references for
// semantic grouping and top-level def/class line spans for splitting
// oversized files.
//
// The scanner is line and indentation based rather than a full grammar.
// It tracks triple-quoted strings and comments so that import-looking text
// inside either is ignored, and it fails only where the scan result would
// be meaningless: invalid UTF-8 and a triple-quoted string left open at
// end of file. A failed parse downgrades the file to line-based handling;
// it never aborts a run.
package parser
