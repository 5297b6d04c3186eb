package bench

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Hakuto4838/OrderedDict.git/datastream"
)

type Config struct {
	Workload  datastream.WorkloadConfig `yaml:"workload"`
	Impls     []string                  `yaml:"impls"`
	Runs      int                       `yaml:"runs"`
	Seed      int64                     `yaml:"seed"`
	Verify    bool                      `yaml:"verify"`
	Agreement bool                      `yaml:"agreement"`
}

func DefaultConfig() *Config {
	return &Config{
		Workload:  datastream.DefaultWorkloadConfig(),
		Impls:     []string{ImplAVL, ImplSkip},
		Runs:      1,
		Seed:      1,
		Verify:    false,
		Agreement: true,
	}
}

// LoadConfig reads a YAML config from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if !exists {
		return config, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Runs < 1 {
		return errors.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if err := c.Workload.Validate(); err != nil {
		return errors.Wrap(err, "workload")
	}
	for _, impl := range c.Impls {
		if _, err := ParseImpls(impl); err != nil {
			return err
		}
	}
	return nil
}

// WriteDefaultConfig writes the default config to path.
func WriteDefaultConfig(fs afero.Fs, path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "marshal default config")
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
