package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/mcstate/pricer/internal/domain"
	"github.com/mcstate/pricer/internal/process"
	"gopkg.in/yaml.v3"
)

// requiredKeys lists, per section, the keys that must be spelled out whenever
// the section is present. A zero volatility or a zero seed is a legitimate
// setting, so an absent key cannot be told apart after decoding.
var requiredKeys = []struct {
	section string
	keys    []string
}{
	{"MC", []string{"PATHS", "SEED", "TIMESTEP"}},
	{"BS", []string{"ASSET", "VOL"}},
	{"BS2", []string{"ASSET1", "ASSET2", "VOL1", "VOL2", "CORR"}},
	{"HESTON", []string{"ASSET", "INITIAL_VARIANCE", "LONG_VARIANCE", "MEAN_REVERSION", "VOL_OF_VARIANCE", "CORRELATION"}},
}

// InputParser handles parsing of dataset files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a dataset from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	ds, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ds, nil
}

// Parse decodes and validates a dataset document. Unknown keys are rejected
// and every model parameter must be given explicitly.
func (ip *InputParser) Parse(data []byte) (*domain.Dataset, error) {
	var ds domain.Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrInvalidDataset, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrInvalidDataset, err)
	}
	if err := checkRequiredKeys(&root); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	if err := ip.ValidateDataset(&ds); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	return &ds, nil
}

// checkRequiredKeys reports the first required key missing from a section
// present in the document.
func checkRequiredKeys(root *yaml.Node) error {
	doc := root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for _, req := range requiredKeys {
		section := mappingValue(doc, req.section)
		if section == nil || section.Kind != yaml.MappingNode {
			continue
		}
		for _, key := range req.keys {
			if mappingValue(section, key) == nil {
				return invalid(req.section+"."+key, "is required")
			}
		}
	}
	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ValidateDataset checks every section the selected model needs. Errors wrap
// domain.ErrInvalidDataset and name the offending field.
func (ip *InputParser) ValidateDataset(ds *domain.Dataset) error {
	if err := ip.validateMC(ds.MC); err != nil {
		return err
	}

	if len(ds.Assets) == 0 {
		return invalid("ASSETS", "at least one asset curve is required")
	}
	for name, ac := range ds.Assets {
		if err := ip.validateAssetCurve(name, ac); err != nil {
			return err
		}
	}

	if ds.Base == "" {
		return invalid("BASE", "settlement currency is required")
	}
	if _, ok := ds.Assets[ds.Base]; !ok {
		return invalid("BASE", fmt.Sprintf("%q is not listed in ASSETS", ds.Base))
	}

	family, err := ds.ModelFamily()
	if err != nil {
		return err
	}
	switch family {
	case domain.ModelBS:
		return ip.validateBS(ds)
	case domain.ModelBS2:
		return ip.validateBS2(ds)
	case domain.ModelHeston:
		return ip.validateHeston(ds)
	}
	return nil
}

func (ip *InputParser) validateMC(mc *domain.MCSettings) error {
	if mc == nil {
		return invalid("MC", "section is required")
	}
	if mc.Paths <= 0 {
		return invalid("MC.PATHS", "must be positive")
	}
	if mc.Seed < 0 {
		return invalid("MC.SEED", "must not be negative")
	}
	if !(mc.Timestep >= process.MinStep) || math.IsInf(mc.Timestep, 0) {
		return invalid("MC.TIMESTEP", fmt.Sprintf("must be a finite number of at least %g, got %g", process.MinStep, mc.Timestep))
	}
	return nil
}

func (ip *InputParser) validateAssetCurve(name string, ac domain.AssetCurve) error {
	field := "ASSETS." + name
	if ac.Kind != domain.KindZeroRates && ac.Kind != domain.KindForwards {
		return invalid(field, fmt.Sprintf("kind %q must be ZERO_RATES or FORWARDS", ac.Kind))
	}
	if len(ac.Table) == 0 {
		return invalid(field, "table is empty")
	}
	prev := math.Inf(-1)
	for i, row := range ac.Table {
		if len(row) != 2 {
			return invalid(field, fmt.Sprintf("row %d must be [time, value]", i))
		}
		if row[0] < 0 {
			return invalid(field, fmt.Sprintf("row %d has negative time %g", i, row[0]))
		}
		if row[0] <= prev {
			return invalid(field, "times must be strictly increasing")
		}
		if ac.Kind == domain.KindForwards && !(row[1] > 0) {
			return invalid(field, fmt.Sprintf("forward at t=%g must be positive", row[0]))
		}
		prev = row[0]
	}
	return nil
}

func (ip *InputParser) validateAsset(field, name string, ds *domain.Dataset) error {
	if name == "" {
		return invalid(field, "asset name is required")
	}
	if _, ok := ds.Assets[name]; !ok {
		return invalid(field, fmt.Sprintf("%q is not listed in ASSETS", name))
	}
	return nil
}

func (ip *InputParser) validateBS(ds *domain.Dataset) error {
	if ds.BS == nil {
		return invalid("BS", "section is required for MODEL BS")
	}
	if err := ip.validateAsset("BS.ASSET", ds.BS.Asset, ds); err != nil {
		return err
	}
	return nonNegative("BS.VOL", ds.BS.Vol)
}

func (ip *InputParser) validateBS2(ds *domain.Dataset) error {
	cfg := ds.BS2
	if cfg == nil {
		return invalid("BS2", "section is required for MODEL BS2")
	}
	if err := ip.validateAsset("BS2.ASSET1", cfg.Asset1, ds); err != nil {
		return err
	}
	if err := ip.validateAsset("BS2.ASSET2", cfg.Asset2, ds); err != nil {
		return err
	}
	if cfg.Asset1 == cfg.Asset2 {
		return invalid("BS2.ASSET2", "must differ from BS2.ASSET1")
	}
	if err := nonNegative("BS2.VOL1", cfg.Vol1); err != nil {
		return err
	}
	if err := nonNegative("BS2.VOL2", cfg.Vol2); err != nil {
		return err
	}
	return correlation("BS2.CORR", cfg.Corr)
}

func (ip *InputParser) validateHeston(ds *domain.Dataset) error {
	cfg := ds.Heston
	if cfg == nil {
		return invalid("HESTON", "section is required for MODEL HESTON")
	}
	if err := ip.validateAsset("HESTON.ASSET", cfg.Asset, ds); err != nil {
		return err
	}
	if err := nonNegative("HESTON.INITIAL_VARIANCE", cfg.InitialVariance); err != nil {
		return err
	}
	if err := nonNegative("HESTON.LONG_VARIANCE", cfg.LongVariance); err != nil {
		return err
	}
	if err := nonNegative("HESTON.MEAN_REVERSION", cfg.MeanReversion); err != nil {
		return err
	}
	if err := nonNegative("HESTON.VOL_OF_VARIANCE", cfg.VolOfVariance); err != nil {
		return err
	}
	return correlation("HESTON.CORRELATION", cfg.Correlation)
}

// FellerSatisfied reports whether 2κθ >= ξ², i.e. whether the continuous
// variance process stays strictly positive. Violations are allowed; the
// full-truncation scheme copes with them.
func FellerSatisfied(h *domain.HestonParams) bool {
	return 2*h.MeanReversion*h.LongVariance >= h.VolOfVariance*h.VolOfVariance
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrInvalidDataset, field, msg)
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(field, fmt.Sprintf("must be a finite non-negative number, got %g", v))
	}
	return nil
}

func correlation(field string, v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return invalid(field, fmt.Sprintf("must lie in [-1, 1], got %g", v))
	}
	return nil
}

// CreateExampleDataset creates the example SPX/USD dataset: spot 2900,
// 4% rates, 1% dividend yield, 17.5% vol.
func (ip *InputParser) CreateExampleDataset() *domain.Dataset {
	pricingTS, _ := time.Parse("2006-01-02", "2026-10-18")

	const spot, rate, div = 2900.0, 0.04, 0.01
	forwards := make([][]float64, 0, 6)
	for _, t := range []float64{0, 0.5, 1, 2, 3, 5} {
		forwards = append(forwards, []float64{t, spot * math.Exp((rate-div)*t)})
	}
	ndx := make([][]float64, 0, 6)
	for _, t := range []float64{0, 0.5, 1, 2, 3, 5} {
		ndx = append(ndx, []float64{t, 20000 * math.Exp((rate-0.006)*t)})
	}

	return &domain.Dataset{
		Model: domain.ModelBS,
		MC: &domain.MCSettings{
			Paths:    100000,
			Seed:     1234,
			Timestep: 1.0,
		},
		BS: &domain.BSParams{Asset: "SPX", Vol: 0.175},
		BS2: &domain.BS2Params{
			Asset1: "SPX",
			Asset2: "NDX",
			Vol1:   0.175,
			Vol2:   0.22,
			Corr:   0.85,
		},
		Heston: &domain.HestonParams{
			Asset:           "SPX",
			InitialVariance: 0.175 * 0.175,
			LongVariance:    0.04,
			MeanReversion:   1.5,
			VolOfVariance:   0.4,
			Correlation:     -0.7,
		},
		Assets: map[string]domain.AssetCurve{
			"USD": {Kind: domain.KindZeroRates, Table: [][]float64{{1, rate}}},
			"SPX": {Kind: domain.KindForwards, Table: forwards},
			"NDX": {Kind: domain.KindForwards, Table: ndx},
		},
		Base:      "USD",
		PricingTS: pricingTS,
	}
}

// SaveDataset writes a dataset as YAML
func SaveDataset(ds *domain.Dataset, filename string) error {
	b, err := yaml.Marshal(ds)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
