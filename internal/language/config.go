package language

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ConfigError reports a failure loading a languages file.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("languages config %s: %s", e.Path, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// fileConfig is the on-disk shape of a languages file:
//
//	[[language]]
//	id = "ruby"
//	name = "Ruby"
//	extension = "rb"
//	command = ["ruby", "${script}"]
type fileConfig struct {
	Language []entry `toml:"language"`
}

type entry struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name"`
	Extension string   `toml:"extension"`
	Command   []string `toml:"command"`
}

// LoadFile reads a TOML languages file and registers its entries.
// A missing file is not an error. Any invalid entry fails the whole
// load and leaves already-registered entries in place.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ConfigError{Path: path, Message: "read failed", Err: err}
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return &ConfigError{Path: path, Message: err.Error(), Err: err}
	}

	for _, e := range cfg.Language {
		d := Descriptor{
			ID:        e.ID,
			Name:      e.Name,
			Extension: e.Extension,
			Command:   e.Command,
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		if err := r.Register(d); err != nil {
			return &ConfigError{Path: path, Message: err.Error(), Err: err}
		}
	}
	return nil
}
