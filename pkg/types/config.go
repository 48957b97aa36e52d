package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ftol-ppg-figs/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the GenBank fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is the contact address sent with every E-utilities request,
	// as NCBI usage policy asks.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the tool name sent with every E-utilities request.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// BatchDelay is the delay between consecutive summary batches within
	// one fetch (default 350ms, within NCBI's 3 requests/second limit).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// QueryDelay is the delay between consecutive year/compartment
	// queries (default 1s).
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`

	// YearFrom and YearTo bound the fetched year range, inclusive.
	YearFrom int `json:"year_from" yaml:"year_from"`
	YearTo   int `json:"year_to" yaml:"year_to"`
}

// TaxonomyConfig holds settings for the taxonomy name stage.
type TaxonomyConfig struct {
	HTTPConfig `yaml:",inline"`

	// ArchivePath is the local path of the NCBI taxdump zip archive.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// ArchiveURL is where the archive is downloaded from when
	// ArchivePath does not exist.
	ArchiveURL string `json:"archive_url" yaml:"archive_url"`
}

// CountConfig holds settings for the species-by-year count stage.
type CountConfig struct {
	// YearFrom and YearTo bound the summarized year range, inclusive.
	YearFrom int `json:"year_from" yaml:"year_from"`
	YearTo   int `json:"year_to" yaml:"year_to"`

	// SummaryYAML and SummaryCSV are output paths for the summary table.
	// Empty paths skip that output.
	SummaryYAML string `json:"summary_yaml,omitempty" yaml:"summary_yaml,omitempty"`
	SummaryCSV  string `json:"summary_csv,omitempty" yaml:"summary_csv,omitempty"`
}

// RenderConfig holds settings for the chart rendering stage.
type RenderConfig struct {
	// AccumulationPath is the output path of the species accumulation
	// chart (.svg, .png, or .pdf).
	AccumulationPath string `json:"accumulation_path" yaml:"accumulation_path"`

	// RosterPath is the participant roster CSV consumed read-only by the
	// participant chart. Empty skips the chart.
	RosterPath string `json:"roster_path,omitempty" yaml:"roster_path,omitempty"`

	// RosterCountryColumn is the roster column holding the country
	// (default "country").
	RosterCountryColumn string `json:"roster_country_column,omitempty" yaml:"roster_country_column,omitempty"`

	// ParticipantPath is the output path of the participants-per-country
	// chart.
	ParticipantPath string `json:"participant_path,omitempty" yaml:"participant_path,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	// DBPath is the SQLite stage store shared by all stages.
	DBPath string `json:"db_path" yaml:"db_path"`

	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Taxonomy TaxonomyConfig `json:"taxonomy" yaml:"taxonomy"`
	Count    CountConfig    `json:"count" yaml:"count"`
	Render   RenderConfig   `json:"render" yaml:"render"`
}
