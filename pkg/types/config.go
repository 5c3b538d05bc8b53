// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParserConfig holds settings for citation extraction.
type ParserConfig struct {
	// IncludeFootnotes is reserved; footnote text is scanned like body text.
	IncludeFootnotes bool `json:"include_footnotes" yaml:"include_footnotes" mapstructure:"include_footnotes"`

	// MinConfidence is reserved and has no effect on results.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence" mapstructure:"min_confidence"`

	// PatternsFile is an optional YAML file of caller-supplied patterns.
	PatternsFile string `json:"patterns_file,omitempty" yaml:"patterns_file,omitempty" mapstructure:"patterns_file"`
}

// FormatConfig holds settings for Table of Authorities rendering.
type FormatConfig struct {
	// PassimThreshold is the distinct-page count at which "passim" is shown (default 6).
	PassimThreshold int `json:"passim_threshold" yaml:"passim_threshold" mapstructure:"passim_threshold"`

	// MaxLineLength is the width dot-leader lines are filled to (default 80).
	MaxLineLength int `json:"max_line_length" yaml:"max_line_length" mapstructure:"max_line_length"`

	// UseDotLeaders fills the gap between citation and pages with periods.
	UseDotLeaders bool `json:"use_dot_leaders" yaml:"use_dot_leaders" mapstructure:"use_dot_leaders"`

	// IncludePageCounts adds a right-aligned "Page(s)" header to each section.
	IncludePageCounts bool `json:"include_page_counts" yaml:"include_page_counts" mapstructure:"include_page_counts"`

	// OnlyIncluded drops citations the user has excluded.
	OnlyIncluded bool `json:"only_included" yaml:"only_included" mapstructure:"only_included"`

	// AsOOXML renders the table as a minimal WordprocessingML fragment.
	AsOOXML bool `json:"as_ooxml" yaml:"as_ooxml" mapstructure:"as_ooxml"`
}

// DefaultFormatConfig returns the stock table layout.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		PassimThreshold: 6,
		MaxLineLength:   80,
		UseDotLeaders:   true,
		OnlyIncluded:    true,
	}
}

// SourceConfig holds settings for loading documents into page maps.
type SourceConfig struct {
	// CharsPerPage is the slice size used when a document has no page breaks (default 3000).
	CharsPerPage int `json:"chars_per_page" yaml:"chars_per_page" mapstructure:"chars_per_page"`

	// Timeout is the HTTP request timeout for URL sources.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with HTTP requests (e.g. "toa-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// PdftotextImage is the container image used when pdftotext is not on PATH.
	PdftotextImage string `json:"pdftotext_image" yaml:"pdftotext_image" mapstructure:"pdftotext_image"`
}

// StoreConfig holds settings for the scan history database.
type StoreConfig struct {
	// DataDir contains toa.db.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ArtifactType identifies where rendered tables are published.
type ArtifactType string

const (
	ArtifactLocal ArtifactType = "local"
	ArtifactS3    ArtifactType = "s3"
)

// ArtifactConfig holds settings for publishing rendered tables.
type ArtifactConfig struct {
	Type         ArtifactType `json:"type" yaml:"type" mapstructure:"type"`
	LocalPath    string       `json:"local_path" yaml:"local_path" mapstructure:"local_path"`
	S3Bucket     string       `json:"s3_bucket" yaml:"s3_bucket" mapstructure:"s3_bucket"`
	S3Region     string       `json:"s3_region" yaml:"s3_region" mapstructure:"s3_region"`
	AWSAccessKey string       `json:"-" yaml:"-" mapstructure:"aws_access_key"`
	AWSSecretKey string       `json:"-" yaml:"-" mapstructure:"aws_secret_key"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxBodyBytes caps request bodies (default 10 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// Config groups all component configurations.
type Config struct {
	Parser   ParserConfig   `json:"parser" yaml:"parser" mapstructure:"parser"`
	Format   FormatConfig   `json:"format" yaml:"format" mapstructure:"format"`
	Source   SourceConfig   `json:"source" yaml:"source" mapstructure:"source"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Artifact ArtifactConfig `json:"artifact" yaml:"artifact" mapstructure:"artifact"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}
