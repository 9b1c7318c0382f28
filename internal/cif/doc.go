// Package cif models structured-record files as ordered tables of named
// columns. A Document holds named Blocks; a Block holds data items and
// Loops in file order; a Loop holds equal-length columns.
//
// The package covers the subset of the format the converter needs:
// parsing and writing, splitting value(su) strings into separate value
// and uncertainty entries, unifying keyword aliases, and merging loops
// on a label column. It never interprets the crystallographic meaning
// of any entry.
package cif
