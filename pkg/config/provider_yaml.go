package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Cadence string `yaml:"cadence,omitempty"`
		Debug   bool   `yaml:"debug,omitempty"`
		Devices struct {
			RawPaths     []string `yaml:"raw_paths"`
			MetadataPath string   `yaml:"metadata_path"`
			OutputPath   string   `yaml:"output_path"`
		} `yaml:"devices"`
		Stations struct {
			InputPaths []string `yaml:"input_paths,omitempty"`
			OutputPath string   `yaml:"output_path,omitempty"`
		} `yaml:"stations,omitempty"`
		Sinks struct {
			SQLite *struct {
				Path string `yaml:"path"`
			} `yaml:"sqlite,omitempty"`
			TimescaleDB *struct {
				ConnectionString string `yaml:"connection_string"`
			} `yaml:"timescaledb,omitempty"`
		} `yaml:"sinks,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Cadence: yamlConfig.Cadence,
		Debug:   yamlConfig.Debug,
		Devices: DevicePipelineData{
			RawPaths:     yamlConfig.Devices.RawPaths,
			MetadataPath: yamlConfig.Devices.MetadataPath,
			OutputPath:   yamlConfig.Devices.OutputPath,
		},
		Stations: StationPipelineData{
			InputPaths: yamlConfig.Stations.InputPaths,
			OutputPath: yamlConfig.Stations.OutputPath,
		},
	}

	if yamlConfig.Sinks.SQLite != nil {
		config.Sinks.SQLite = &SQLiteSinkData{
			Path: yamlConfig.Sinks.SQLite.Path,
		}
	}
	if yamlConfig.Sinks.TimescaleDB != nil {
		config.Sinks.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Sinks.TimescaleDB.ConnectionString,
		}
	}

	return config, nil
}
