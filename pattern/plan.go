package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/checker"
	"github.com/arloliu/go-iicwave/sequencer"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPlan indicates a plan that cannot be decoded or has no pattern.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan is a verification plan: a pattern and the timing policy its checkers use.
//
// Zero-valued numeric fields select the checker defaults.
type Plan struct {
	Name          string  `yaml:"name,omitempty"`
	ClockInterval uint    `yaml:"clock_interval,omitempty"`
	Permissive    bool    `yaml:"permissive,omitempty"`
	HighRatio     float64 `yaml:"high_ratio,omitempty"`
	LowRatio      float64 `yaml:"low_ratio,omitempty"`
	Pattern       string  `yaml:"pattern"`
}

// ParsePlan decodes a YAML plan and validates its configuration and pattern.
// Unknown fields are rejected.
func ParsePlan(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("pattern: %w: empty document", ErrInvalidPlan)
		}

		return nil, fmt.Errorf("pattern: %w: %w", ErrInvalidPlan, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadPlan reads and decodes a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: read %s: %w", path, err)
	}

	p, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}

	return p, nil
}

// Marshal encodes the plan as YAML.
func (p *Plan) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("pattern: yaml marshal: %w", err)
	}

	return data, nil
}

// Validate checks the configuration and the pattern of the plan.
func (p *Plan) Validate() error {
	if p.Pattern == "" {
		return fmt.Errorf("pattern: %w: no pattern", ErrInvalidPlan)
	}

	checkers, err := p.Checkers()
	if err != nil {
		return err
	}
	if len(checkers) == 0 {
		return fmt.Errorf("pattern: %w: pattern has no keyword", ErrInvalidPlan)
	}

	return nil
}

// Config builds the checker configuration of the plan.
func (p *Plan) Config() (*checker.Config, error) {
	opts := []checker.Option{checker.WithPermissive(p.Permissive)}
	if p.ClockInterval != 0 {
		opts = append(opts, checker.WithClockInterval(p.ClockInterval))
	}
	if p.HighRatio != 0 || p.LowRatio != 0 {
		high, low := p.HighRatio, p.LowRatio
		if high == 0 {
			high = checker.DefaultHighRatio
		}
		if low == 0 {
			low = checker.DefaultLowRatio
		}
		opts = append(opts, checker.WithDutyThresholds(high, low))
	}

	cfg, err := checker.NewConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("pattern: %w: %w", ErrInvalidPlan, err)
	}

	return cfg, nil
}

// Checkers builds a fresh checker list from the plan.
func (p *Plan) Checkers() ([]checker.Checker, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}

	return Parse(p.Pattern, cfg)
}

// Verify runs the checkers of the plan over the SCL/SDA streams.
func (p *Plan) Verify(scl, sda []bus.Level, opts ...sequencer.Option) ([]checker.Signal, error) {
	checkers, err := p.Checkers()
	if err != nil {
		return nil, err
	}

	return sequencer.Verify(checkers, scl, sda, opts...)
}
