package registry

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type CollectionConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
}

type Config struct {
	Collections []CollectionConfig `yaml:"collections"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}
