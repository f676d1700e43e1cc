// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend identifies the PDF library used to pull page text out of a document.
type Backend string

const (
	BackendLedongthuc Backend = "ledongthuc"
	BackendPdfcpu     Backend = "pdfcpu"
	BackendPdftotext  Backend = "pdftotext"
)

// Backends lists every supported backend in preference order.
var Backends = []Backend{BackendLedongthuc, BackendPdfcpu, BackendPdftotext}

// OutputFormat selects how a formatted document is written.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "md"
	OutputHTML     OutputFormat = "html"
)

// SeparatorMode controls how page separators are counted when pages are
// concatenated.
type SeparatorMode string

const (
	// SeparatorsByIndex appends a separator after every page that produced
	// text unless its raw index is the last one. A skipped final page leaves
	// a trailing separator.
	SeparatorsByIndex SeparatorMode = "index"

	// SeparatorsByProcessed places separators only between pages that
	// produced text.
	SeparatorsByProcessed SeparatorMode = "processed"
)

// HistoryConfig holds settings for the extraction history database.
type HistoryConfig struct {
	// Enabled turns recording of extraction runs on or off.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DataDir is the directory holding history.db.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// LogConfig holds settings for the process-wide structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for an extraction run.
type Config struct {
	// Backend selects the PDF library (default ledongthuc).
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// OutputDir is where converted files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Format selects md or html output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// BatchSize is the number of pages between progress updates (default 1).
	BatchSize int `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`

	// Separators selects page separator accounting (default index).
	Separators SeparatorMode `json:"separators" yaml:"separators" mapstructure:"separators"`

	// Locale is the locale used for the header timestamp (e.g. "en_US").
	// Empty means derive it from the environment.
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`

	// Timezone is an IANA zone name for the header timestamp. Empty means local.
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`

	// PdftotextImage is the container image used by the pdftotext backend.
	PdftotextImage string `json:"pdftotext_image" yaml:"pdftotext_image" mapstructure:"pdftotext_image"`

	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
