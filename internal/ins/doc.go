// Package ins handles the instruction-file plumbing around the
// constraint codec: continuation unwrapping, region splitting,
// scattering-type handling, header generation, and text ingestion.
// The codec itself lives in package afix; this package only prepares
// its input and frames its output.
package ins
