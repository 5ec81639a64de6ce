// SPDX-License-Identifier: MIT

// Package config loads the YAML run configuration of the sentinel tools.
//
// Load starts from Default, overlays the file, and validates the result
// with struct tags plus the cross-field rules the tags cannot express.
// Unknown keys are rejected so that a misspelled option never silently
// falls back to its default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sentinel/builder"
	"github.com/katalvlaran/sentinel/core"
	"github.com/katalvlaran/sentinel/dataset"
	"github.com/katalvlaran/sentinel/emergence"
	"github.com/katalvlaran/sentinel/epidemic"
	"github.com/katalvlaran/sentinel/genetic"
	"github.com/katalvlaran/sentinel/greedy"
	"github.com/katalvlaran/sentinel/omission"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Importance measure names.
const (
	ImportanceDegree      = "degree"
	ImportanceBetweenness = "betweenness"
	ImportanceEigenvector = "eigenvector"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the full run configuration.
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Log       LogConfig       `yaml:"log"`
	Generator GeneratorConfig `yaml:"generator"`
	Emergence EmergenceConfig `yaml:"emergence"`
	Epidemic  EpidemicConfig  `yaml:"epidemic"`
	Greedy    greedy.Config   `yaml:"greedy"`
	Genetic   genetic.Config  `yaml:"genetic"`
	Compare   CompareConfig   `yaml:"compare"`
	Dataset   dataset.Config  `yaml:"dataset"`
	Omission  OmissionConfig  `yaml:"omission"`
}

// RunConfig holds the shared run settings. Workers 0 means one per CPU.
type RunConfig struct {
	Seed    int64 `yaml:"seed"`
	Workers int   `yaml:"workers" validate:"gte=0"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// GeneratorConfig are the modular network inputs.
type GeneratorConfig struct {
	ModuleSize       int     `yaml:"module_size" validate:"gt=0"`
	ModuleCount      int     `yaml:"module_count" validate:"gt=0"`
	P                float64 `yaml:"p" validate:"gte=0,lte=1"`
	Heterogeneity    float64 `yaml:"heterogeneity" validate:"gte=0"`
	MeanDegree       int     `yaml:"mean_degree" validate:"gt=0"`
	DiscardUnmatched bool    `yaml:"discard_unmatched"`
	// MinGiantFraction rejects results whose giant component is smaller;
	// 0 disables the check.
	MinGiantFraction float64 `yaml:"min_giant_fraction" validate:"gte=0,lte=1"`
}

// Params returns the generator parameters.
func (g GeneratorConfig) Params() builder.ModularParams {
	return builder.ModularParams{
		ModuleSize:    g.ModuleSize,
		ModuleCount:   g.ModuleCount,
		P:             g.P,
		Heterogeneity: g.Heterogeneity,
		MeanDegree:    g.MeanDegree,
	}
}

// Options returns the builder options implied by g.
func (g GeneratorConfig) Options() []builder.BuilderOption {
	var opts []builder.BuilderOption
	if g.DiscardUnmatched {
		opts = append(opts, builder.WithDiscardUnmatched())
	}
	if g.MinGiantFraction > 0 {
		opts = append(opts, builder.WithMinGiantFraction(g.MinGiantFraction))
	}

	return opts
}

// EmergenceConfig are the probability assignment inputs.
type EmergenceConfig struct {
	Alpha      float64 `yaml:"alpha" validate:"gt=0"`
	Beta       float64 `yaml:"beta" validate:"gt=0"`
	Corr       float64 `yaml:"corr" validate:"gte=-1,lte=1"`
	Importance string  `yaml:"importance" validate:"oneof=degree betweenness eigenvector"`
}

// Params returns the copula parameters.
func (e EmergenceConfig) Params() emergence.Params {
	return emergence.Params{Alpha: e.Alpha, Beta: e.Beta, Corr: e.Corr}
}

// Options returns the assignment options for the configured importance.
func (e EmergenceConfig) Options() []emergence.Option {
	switch e.Importance {
	case ImportanceBetweenness:
		return []emergence.Option{emergence.WithImportance(emergence.BetweennessCentrality)}
	case ImportanceEigenvector:
		return []emergence.Option{emergence.WithImportance(emergence.EigenvectorCentrality)}
	default:
		return nil
	}
}

// EpidemicConfig selects the engine and its rates. A zero Tau is derived
// from the graph as TauFactor times the epidemic threshold. An empty
// Command selects the built-in discrete-time engine.
type EpidemicConfig struct {
	Tau       float64  `yaml:"tau" validate:"gte=0"`
	Gamma     float64  `yaml:"gamma" validate:"gt=0"`
	TauFactor float64  `yaml:"tau_factor" validate:"gte=0"`
	Command   []string `yaml:"command"`
	// MaxSteps caps the built-in engine; 0 runs to extinction.
	MaxSteps int `yaml:"max_steps" validate:"gte=0"`
}

// Rates resolves the engine parameters for g.
func (e EpidemicConfig) Rates(g *core.Graph) (epidemic.Params, error) {
	if e.Tau > 0 {
		return epidemic.Params{Tau: e.Tau, Gamma: e.Gamma}, nil
	}
	tau, err := epidemic.ThresholdScaledTau(g, e.TauFactor)
	if err != nil {
		return epidemic.Params{}, err
	}

	return epidemic.Params{Tau: tau, Gamma: e.Gamma}, nil
}

// CompareConfig drives the strategy comparison.
type CompareConfig struct {
	Sentinels   int      `yaml:"num_sentinels" validate:"gt=0"`
	Repetitions int      `yaml:"repetitions" validate:"gt=0"`
	Simulations int      `yaml:"simulations" validate:"gt=0"`
	Resolution  float64  `yaml:"resolution" validate:"gt=0"`
	Strategies  []string `yaml:"strategies" validate:"min=1,dive,oneof=Greedy GA Global Modular Random"`
}

// OmissionConfig describes the incomplete networks a comparison runs on.
// Percent 0 compares on the reference network itself.
type OmissionConfig struct {
	Kind      omission.Kind `yaml:"kind" validate:"oneof=edges nodes"`
	Percent   float64       `yaml:"percent" validate:"gte=0,lte=100"`
	Instances int           `yaml:"instances" validate:"gt=0"`
	MaxTries  int           `yaml:"max_tries" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Run: RunConfig{Seed: 42},
		Log: LogConfig{Level: "info", Format: "text"},
		Generator: GeneratorConfig{
			ModuleSize:    20,
			ModuleCount:   5,
			P:             0.6,
			Heterogeneity: 3,
			MeanDegree:    5,
		},
		Emergence: EmergenceConfig{Alpha: 0.5, Beta: 5, Corr: 0.5, Importance: ImportanceDegree},
		Epidemic:  EpidemicConfig{Gamma: 1, TauFactor: dataset.DefaultTauFactor},
		Greedy:    greedy.Config{Rounds: 10, Simulations: 1000},
		Genetic:   genetic.DefaultConfig(5),
		Compare: CompareConfig{
			Sentinels:   5,
			Repetitions: 10,
			Simulations: 1000,
			Resolution:  1,
			Strategies:  []string{"Greedy", "GA", "Global", "Modular", "Random"},
		},
		Dataset: dataset.DefaultConfig(),
		Omission: OmissionConfig{
			Kind:      omission.Edges,
			Percent:   0,
			Instances: 10,
			MaxTries:  omission.DefaultMaxTries,
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		if err := decode(bytes.NewReader(raw), cfg); err != nil {
			return nil, fmt.Errorf("config.Load: %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}

	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate checks tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Epidemic.Tau == 0 && c.Epidemic.TauFactor == 0 {
		return fmt.Errorf("epidemic: one of tau or tau_factor must be positive: %w", ErrInvalidConfig)
	}
	if c.Generator.Heterogeneity > 0 && c.Generator.MeanDegree < 2 {
		return fmt.Errorf("generator: heterogeneity needs mean_degree >= 2: %w", ErrInvalidConfig)
	}

	return nil
}

// formatValidationError reports every failed field, wrapped in
// ErrInvalidConfig.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, e.Tag(), e.Param(), e.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", field, e.Tag(), e.Value()))
		}
	}

	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrInvalidConfig)
}
