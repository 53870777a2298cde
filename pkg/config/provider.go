// Package config provides configuration loading for the aggregation
// pipelines.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Cadence  string              `json:"cadence,omitempty"`
	Debug    bool                `json:"debug,omitempty"`
	Devices  DevicePipelineData  `json:"devices"`
	Stations StationPipelineData `json:"stations,omitempty"`
	Sinks    SinksData           `json:"sinks,omitempty"`
}

// DevicePipelineData holds inputs and output of the device pipeline
type DevicePipelineData struct {
	RawPaths     []string `json:"raw_paths"`
	MetadataPath string   `json:"metadata_path"`
	OutputPath   string   `json:"output_path"`
}

// StationPipelineData holds inputs and output of the weather station
// pipeline; the pipeline is skipped when no input paths are configured
type StationPipelineData struct {
	InputPaths []string `json:"input_paths,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
}

// SinksData holds the configuration for optional storage sinks
type SinksData struct {
	SQLite      *SQLiteSinkData  `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// SQLiteSinkData configures the SQLite file sink
type SQLiteSinkData struct {
	Path string `json:"path"`
}

// TimescaleDBData configures the TimescaleDB sink
type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// StaticProvider implements ConfigProvider for already-materialized
// configuration, such as file configuration merged with CLI overrides
type StaticProvider struct {
	data *ConfigData
}

// NewStaticProvider creates a provider returning the given configuration
func NewStaticProvider(data *ConfigData) *StaticProvider {
	return &StaticProvider{data: data}
}

// LoadConfig returns the static configuration
func (s *StaticProvider) LoadConfig() (*ConfigData, error) {
	return s.data, nil
}
