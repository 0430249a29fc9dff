package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable read when --config is not set.
const ConfigEnv = "XRF_CONFIG"

// Config is an xrf.yaml or xrf.jsonc file. Keys left out keep the flag
// defaults, and flags given on the command line override the file.
type Config struct {
	Workers   *int   `yaml:"workers" json:"workers"`
	Strict    *bool  `yaml:"strict" json:"strict"`
	Verbose   *bool  `yaml:"verbose" json:"verbose"`
	Silent    *bool  `yaml:"silent" json:"silent"`
	ByteOrder string `yaml:"byte_order" json:"byte_order"`
}

// LoadConfig reads a config file. The extension selects the syntax:
// .yaml and .yml are YAML, .json and .jsonc are JSON with comments and
// trailing commas allowed. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension, expected .yaml or .jsonc", path)
	}

	if _, err := ParseByteOrder(c.ByteOrder); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}

// ParseByteOrder maps "little" or "big" to a byte order. Empty means
// little endian, the order of every shipped game.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "", "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("byte order %q, expected little or big", s)
	}
}
