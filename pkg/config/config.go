// Package config loads hsmviz settings from a TOML file.
//
// All settings have defaults matching the hsm library, so a config file is
// only needed for state-machine libraries that spell things differently.
//
//	# .hsmviz.toml
//	[library]
//	state_base      = "fsm::StateBase"
//	transition_type = "fsm::Transition"
//
//	[names]
//	noise = ["struct ", "class ", "fsm::"]
//
//	[[classifier.rule]]
//	fragment = "GoSibling"
//	kind     = "Sibling"
//
//	[[classifier.rule]]
//	fragment = "Stay"
//	kind     = "No"
//
//	[output]
//	left_right = true
//	color      = true
//
// Keys present in the file replace the default; absent keys keep it. Unknown
// keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hsmviz/pkg/errors"
	"github.com/matzehuels/hsmviz/pkg/hsm/names"
	"github.com/matzehuels/hsmviz/pkg/hsm/transition"
)

// DefaultFilename is looked up in the working directory when no config file
// is given explicitly.
const DefaultFilename = ".hsmviz.toml"

// Default library names.
const (
	DefaultStateBase      = "hsm::State"
	DefaultTransitionType = "hsm::Transition"
)

// Config holds every tunable setting.
type Config struct {
	Library    Library    `toml:"library"`
	Names      Names      `toml:"names"`
	Classifier Classifier `toml:"classifier"`
	Output     Output     `toml:"output"`
}

// Library names the state-machine library's types.
type Library struct {
	StateBase      string `toml:"state_base"`      // base class of every state
	TransitionType string `toml:"transition_type"` // result type of transition factories
}

// Names configures the name normalizer.
type Names struct {
	Noise []string `toml:"noise"`
}

// Classifier configures the transition classifier.
type Classifier struct {
	Rules []transition.Rule `toml:"rule"`
}

// Output holds rendering defaults. Command-line flags override them.
type Output struct {
	LeftRight bool `toml:"left_right"`
	Color     bool `toml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Library: Library{
			StateBase:      DefaultStateBase,
			TransitionType: DefaultTransitionType,
		},
		Names:      Names{Noise: append([]string(nil), names.DefaultNoise...)},
		Classifier: Classifier{Rules: append([]transition.Rule(nil), transition.DefaultRules...)},
	}
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data string) (Config, error) {
	var file Config
	md, err := toml.Decode(data, &file)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	cfg := Default()
	if md.IsDefined("library", "state_base") {
		cfg.Library.StateBase = file.Library.StateBase
	}
	if md.IsDefined("library", "transition_type") {
		cfg.Library.TransitionType = file.Library.TransitionType
	}
	if md.IsDefined("names", "noise") {
		cfg.Names.Noise = file.Names.Noise
	}
	if md.IsDefined("classifier", "rule") {
		cfg.Classifier.Rules = file.Classifier.Rules
	}
	if md.IsDefined("output", "left_right") {
		cfg.Output.LeftRight = file.Output.LeftRight
	}
	if md.IsDefined("output", "color") {
		cfg.Output.Color = file.Output.Color
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Discover loads DefaultFilename from dir if it exists. It returns the
// defaults and an empty path when there is no such file.
func Discover(dir string) (Config, string, error) {
	path := filepath.Join(dir, DefaultFilename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), "", nil
		}
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat %s", path)
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Validate checks the configuration for obviously broken values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Library.StateBase) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "library.state_base must not be empty")
	}
	if strings.TrimSpace(c.Library.TransitionType) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "library.transition_type must not be empty")
	}
	for _, n := range c.Names.Noise {
		if strings.TrimSpace(n) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "names.noise entries must not be blank")
		}
	}
	_, err := transition.NewClassifier(c.Classifier.Rules)
	return err
}

// NewClassifier builds the transition classifier for c.
func (c Config) NewClassifier() (*transition.Classifier, error) {
	return transition.NewClassifier(c.Classifier.Rules)
}

// NewNormalizer builds the name normalizer for c.
func (c Config) NewNormalizer() *names.Normalizer {
	return names.New(c.Names.Noise)
}
