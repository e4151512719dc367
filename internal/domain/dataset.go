package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDataset is wrapped by every dataset configuration error.
var ErrInvalidDataset = errors.New("invalid dataset")

// Model family identifiers, matching the dataset section names.
const (
	ModelBS     = "BS"
	ModelBS2    = "BS2"
	ModelHeston = "HESTON"
)

// Curve kinds accepted in the ASSETS section.
const (
	KindZeroRates = "ZERO_RATES"
	KindForwards  = "FORWARDS"
)

// Dataset is the market and model configuration for a single pricing run.
type Dataset struct {
	Model     string                `yaml:"MODEL,omitempty" json:"model,omitempty"`
	MC        *MCSettings           `yaml:"MC" json:"mc"`
	BS        *BSParams             `yaml:"BS,omitempty" json:"bs,omitempty"`
	BS2       *BS2Params            `yaml:"BS2,omitempty" json:"bs2,omitempty"`
	Heston    *HestonParams         `yaml:"HESTON,omitempty" json:"heston,omitempty"`
	Assets    map[string]AssetCurve `yaml:"ASSETS" json:"assets"`
	Base      string                `yaml:"BASE" json:"base"`
	PricingTS time.Time             `yaml:"PRICING_TS,omitempty" json:"pricing_ts,omitempty"`
}

// MCSettings holds the Monte Carlo run settings.
type MCSettings struct {
	Paths int   `yaml:"PATHS" json:"paths"`
	Seed  int64 `yaml:"SEED" json:"seed"`

	// Timestep is the maximum simulation step. Event times always drive the
	// grid; intervals longer than Timestep are sub-stepped.
	Timestep float64 `yaml:"TIMESTEP" json:"timestep"`
}

// BSParams configures the single-asset flat-vol model.
type BSParams struct {
	Asset string  `yaml:"ASSET" json:"asset"`
	Vol   float64 `yaml:"VOL" json:"vol"`
}

// BS2Params configures the two-asset flat-vol model.
type BS2Params struct {
	Asset1 string  `yaml:"ASSET1" json:"asset1"`
	Asset2 string  `yaml:"ASSET2" json:"asset2"`
	Vol1   float64 `yaml:"VOL1" json:"vol1"`
	Vol2   float64 `yaml:"VOL2" json:"vol2"`
	Corr   float64 `yaml:"CORR" json:"corr"`
}

// HestonParams configures the stochastic-volatility model.
type HestonParams struct {
	Asset           string  `yaml:"ASSET" json:"asset"`
	InitialVariance float64 `yaml:"INITIAL_VARIANCE" json:"initial_variance"` // ν₀
	LongVariance    float64 `yaml:"LONG_VARIANCE" json:"long_variance"`       // θ
	MeanReversion   float64 `yaml:"MEAN_REVERSION" json:"mean_reversion"`     // κ
	VolOfVariance   float64 `yaml:"VOL_OF_VARIANCE" json:"vol_of_variance"`   // ξ
	Correlation     float64 `yaml:"CORRELATION" json:"correlation"`           // ρ
}

// AssetCurve is a (kind, table) pair. Each table row is (time, value) where
// value is a continuously compounded zero rate or a forward level.
type AssetCurve struct {
	Kind  string      `json:"kind"`
	Table [][]float64 `json:"table"`
}

// UnmarshalYAML decodes the two-element sequence form `[KIND, [[t, v], ...]]`.
func (ac *AssetCurve) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: asset entry must be a [kind, table] pair", value.Line)
	}
	var kind string
	if err := value.Content[0].Decode(&kind); err != nil {
		return fmt.Errorf("line %d: asset kind: %w", value.Line, err)
	}
	var table [][]float64
	if err := value.Content[1].Decode(&table); err != nil {
		return fmt.Errorf("line %d: asset table: %w", value.Line, err)
	}
	ac.Kind = strings.ToUpper(strings.TrimSpace(kind))
	ac.Table = table
	return nil
}

// MarshalYAML writes the curve back in the pair form, tables in flow style.
func (ac AssetCurve) MarshalYAML() (interface{}, error) {
	table := &yaml.Node{}
	if err := table.Encode(ac.Table); err != nil {
		return nil, err
	}
	table.Style = yaml.FlowStyle
	for _, row := range table.Content {
		row.Style = yaml.FlowStyle
	}
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: ac.Kind},
			table,
		},
	}, nil
}

// ModelFamily resolves which model section drives the run. An explicit MODEL
// wins; otherwise exactly one model section must be present.
func (ds *Dataset) ModelFamily() (string, error) {
	if ds.Model != "" {
		m := strings.ToUpper(strings.TrimSpace(ds.Model))
		switch m {
		case ModelBS, ModelBS2, ModelHeston:
			return m, nil
		}
		return "", fmt.Errorf("%w: MODEL %q is not one of BS, BS2, HESTON", ErrInvalidDataset, ds.Model)
	}
	var present []string
	if ds.BS != nil {
		present = append(present, ModelBS)
	}
	if ds.BS2 != nil {
		present = append(present, ModelBS2)
	}
	if ds.Heston != nil {
		present = append(present, ModelHeston)
	}
	switch len(present) {
	case 0:
		return "", fmt.Errorf("%w: no model section (BS, BS2 or HESTON)", ErrInvalidDataset)
	case 1:
		return present[0], nil
	}
	return "", fmt.Errorf("%w: several model sections (%s) and no MODEL to choose", ErrInvalidDataset, strings.Join(present, ", "))
}

// ModelledAssets lists the assets simulated by the selected model family.
func (ds *Dataset) ModelledAssets() []string {
	family, err := ds.ModelFamily()
	if err != nil {
		return nil
	}
	switch {
	case family == ModelBS && ds.BS != nil:
		return []string{ds.BS.Asset}
	case family == ModelBS2 && ds.BS2 != nil:
		return []string{ds.BS2.Asset1, ds.BS2.Asset2}
	case family == ModelHeston && ds.Heston != nil:
		return []string{ds.Heston.Asset}
	}
	return nil
}
