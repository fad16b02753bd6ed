package pipeline

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/chainring/pkg/errors"
)

// ConfigFileName is the config file looked up in the user config directory.
const ConfigFileName = "chainring.toml"

// LoadConfig reads a TOML parameter file on top of the defaults. Keys that
// are absent keep their default; unknown keys are rejected so typos do not
// silently fall back.
//
//	links = 22
//	drive = "variable"
//	variable_length = 4.6
//	distinguished_length = 6.35
func LoadConfig(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML config data on top of the defaults.
func ParseConfig(data []byte) (Options, error) {
	var o Options
	md, err := toml.Decode(string(data), &o)
	if err != nil {
		return Options{}, apperrors.Wrap(apperrors.ErrCodeParse, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return Options{}, err
	}
	return o, nil
}
