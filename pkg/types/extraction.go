// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdf2md pipeline:
// configuration, progress updates, and extraction records.
package types

import "time"

// ExtractionStatus indicates the outcome of converting one PDF.
type ExtractionStatus string

const (
	ExtractionNone   ExtractionStatus = "none"
	ExtractionDone   ExtractionStatus = "converted"
	ExtractionFailed ExtractionStatus = "failed"
)

// Progress is a single progress update emitted while pages are collected.
type Progress struct {
	// Page is the 1-based index of the last page handled; 0 before the first.
	Page int `json:"page" yaml:"page"`

	// Total is the page count of the document.
	Total int `json:"total" yaml:"total"`

	// Fraction is the completed share in [0,1].
	Fraction float64 `json:"fraction" yaml:"fraction"`

	// Status is a human-readable message.
	Status string `json:"status" yaml:"status"`
}

// ExtractionRecord describes one extraction run. Records are written to the
// history database and returned by the conversion stage.
type ExtractionRecord struct {
	// ID is a random UUID assigned when the run starts.
	ID string `json:"id" yaml:"id"`

	// SourcePath is the PDF that was read.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Title is the document title used in the header (file name without extension).
	Title string `json:"title" yaml:"title"`

	// Backend identifies the PDF library that produced the page text.
	Backend Backend `json:"backend" yaml:"backend"`

	// Pages is the page count reported by the document.
	Pages int `json:"pages" yaml:"pages"`

	// Words and Characters are counted over the formatted output.
	Words      int `json:"words" yaml:"words"`
	Characters int `json:"characters" yaml:"characters"`

	// OutputPath is where the formatted document was written, if anywhere.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	Status ExtractionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
