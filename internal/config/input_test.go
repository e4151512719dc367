package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcstate/pricer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalBS = `MC:
  PATHS: 1000
  SEED: 42
  TIMESTEP: 1.0
BS:
  ASSET: SPX
  VOL: 0.2
ASSETS:
  USD: [ZERO_RATES, [[1.0, 0.04]]]
  SPX: [FORWARDS, [[0.0, 100.0], [1.0, 103.0]]]
BASE: USD
PRICING_TS: 2026-10-18T00:00:00Z
`

const fullBS2 = `MODEL: BS2
MC: {PATHS: 1000, SEED: 42, TIMESTEP: 1.0}
BS2:
  ASSET1: SPX
  ASSET2: NDX
  VOL1: 0.2
  VOL2: 0.25
  CORR: 0.5
ASSETS:
  USD: [ZERO_RATES, [[1.0, 0.04]]]
  SPX: [FORWARDS, [[0.0, 100.0]]]
  NDX: [FORWARDS, [[0.0, 200.0]]]
BASE: USD
`

const fullHeston = `MODEL: HESTON
MC: {PATHS: 1000, SEED: 42, TIMESTEP: 0.01}
HESTON:
  ASSET: SPX
  INITIAL_VARIANCE: 0.04
  LONG_VARIANCE: 0.04
  MEAN_REVERSION: 1.5
  VOL_OF_VARIANCE: 0.3
  CORRELATION: -0.7
ASSETS:
  USD: [ZERO_RATES, [[1.0, 0.04]]]
  SPX: [FORWARDS, [[0.0, 100.0]]]
BASE: USD
`

// withoutKey drops the line defining key from a block-style document.
func withoutKey(doc, key string) string {
	var kept []string
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), key+":") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestParse_Success(t *testing.T) {
	ds, err := NewInputParser().Parse([]byte(minimalBS))
	require.NoError(t, err)

	assert.Equal(t, 1000, ds.MC.Paths)
	assert.Equal(t, int64(42), ds.MC.Seed)
	assert.Equal(t, 1.0, ds.MC.Timestep)
	require.NotNil(t, ds.BS)
	assert.Equal(t, "SPX", ds.BS.Asset)
	assert.Equal(t, 0.2, ds.BS.Vol)
	assert.Equal(t, "USD", ds.Base)
	assert.Equal(t, 2026, ds.PricingTS.Year())

	require.Contains(t, ds.Assets, "SPX")
	assert.Equal(t, domain.KindForwards, ds.Assets["SPX"].Kind)
	assert.Equal(t, [][]float64{{0, 100}, {1, 103}}, ds.Assets["SPX"].Table)

	family, err := ds.ModelFamily()
	require.NoError(t, err)
	assert.Equal(t, domain.ModelBS, family)
}

func TestLoadFromFile_Testdata(t *testing.T) {
	parser := NewInputParser()
	for _, tt := range []struct {
		file   string
		family string
		assets []string
	}{
		{"bs_dataset.yaml", domain.ModelBS, []string{"SPX"}},
		{"bs2_dataset.yaml", domain.ModelBS2, []string{"SPX", "NDX"}},
		{"heston_dataset.yaml", domain.ModelHeston, []string{"SPX"}},
	} {
		t.Run(tt.file, func(t *testing.T) {
			ds, err := parser.LoadFromFile(filepath.Join("..", "..", "test", "testdata", tt.file))
			require.NoError(t, err)
			family, err := ds.ModelFamily()
			require.NoError(t, err)
			assert.Equal(t, tt.family, family)
			assert.Equal(t, tt.assets, ds.ModelledAssets())
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("MC: [unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
}

func TestParse_MissingKeys(t *testing.T) {
	tests := []struct {
		doc   string
		key   string
		field string
	}{
		{minimalBS, "PATHS", "MC.PATHS"},
		{minimalBS, "SEED", "MC.SEED"},
		{minimalBS, "TIMESTEP", "MC.TIMESTEP"},
		{minimalBS, "ASSET", "BS.ASSET"},
		{minimalBS, "VOL", "BS.VOL"},
		{fullBS2, "ASSET1", "BS2.ASSET1"},
		{fullBS2, "ASSET2", "BS2.ASSET2"},
		{fullBS2, "VOL1", "BS2.VOL1"},
		{fullBS2, "VOL2", "BS2.VOL2"},
		{fullBS2, "CORR", "BS2.CORR"},
		{fullHeston, "ASSET", "HESTON.ASSET"},
		{fullHeston, "INITIAL_VARIANCE", "HESTON.INITIAL_VARIANCE"},
		{fullHeston, "LONG_VARIANCE", "HESTON.LONG_VARIANCE"},
		{fullHeston, "MEAN_REVERSION", "HESTON.MEAN_REVERSION"},
		{fullHeston, "VOL_OF_VARIANCE", "HESTON.VOL_OF_VARIANCE"},
		{fullHeston, "CORRELATION", "HESTON.CORRELATION"},
	}

	parser := NewInputParser()
	for _, doc := range []string{minimalBS, fullBS2, fullHeston} {
		_, err := parser.Parse([]byte(doc))
		require.NoError(t, err)
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := parser.Parse([]byte(withoutKey(tt.doc, tt.key)))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			assert.Contains(t, err.Error(), tt.field+": is required")
		})
	}
}

func TestParse_UnknownKeys(t *testing.T) {
	for name, doc := range map[string]string{
		"misspelled vol": strings.Replace(minimalBS, "VOL: 0.2", "VOLATILITY: 0.2", 1),
		"misspelled section": strings.Replace(minimalBS, "BASE: USD", "BASE: USD\nBASES: EUR", 1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}

func TestParse_ZeroSeedIsExplicit(t *testing.T) {
	ds, err := NewInputParser().Parse([]byte(strings.Replace(minimalBS, "SEED: 42", "SEED: 0", 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(0), ds.MC.Seed)
}

func TestParse_BadAssetEntry(t *testing.T) {
	doc := `MC: {PATHS: 10, SEED: 1, TIMESTEP: 1}
BS: {ASSET: SPX, VOL: 0.2}
ASSETS:
  USD: ZERO_RATES
  SPX: [FORWARDS, [[0, 100]]]
BASE: USD
`
	_, err := NewInputParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[kind, table] pair")
}

func TestValidateDataset_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ds *domain.Dataset)
		field  string
	}{
		{"missing MC", func(ds *domain.Dataset) { ds.MC = nil }, "MC"},
		{"zero paths", func(ds *domain.Dataset) { ds.MC.Paths = 0 }, "MC.PATHS"},
		{"negative seed", func(ds *domain.Dataset) { ds.MC.Seed = -3 }, "MC.SEED"},
		{"zero timestep", func(ds *domain.Dataset) { ds.MC.Timestep = 0 }, "MC.TIMESTEP"},
		{"timestep below the minimum step", func(ds *domain.Dataset) { ds.MC.Timestep = 1e-12 }, "MC.TIMESTEP"},
		{"no assets", func(ds *domain.Dataset) { ds.Assets = nil }, "ASSETS"},
		{"bad kind", func(ds *domain.Dataset) {
			ds.Assets["SPX"] = domain.AssetCurve{Kind: "PRICES", Table: [][]float64{{0, 1}}}
		}, "ASSETS.SPX"},
		{"unsorted table", func(ds *domain.Dataset) {
			ds.Assets["SPX"] = domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{{1, 100}, {0, 100}}}
		}, "ASSETS.SPX"},
		{"non-positive forward", func(ds *domain.Dataset) {
			ds.Assets["SPX"] = domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{{0, 0}}}
		}, "ASSETS.SPX"},
		{"missing base", func(ds *domain.Dataset) { ds.Base = "" }, "BASE"},
		{"unknown base", func(ds *domain.Dataset) { ds.Base = "EUR" }, "BASE"},
		{"no model", func(ds *domain.Dataset) { ds.BS = nil }, "model section"},
		{"unknown model", func(ds *domain.Dataset) { ds.Model = "SABR" }, "MODEL"},
		{"model without section", func(ds *domain.Dataset) { ds.Model = domain.ModelHeston }, "HESTON"},
		{"unknown asset", func(ds *domain.Dataset) { ds.BS.Asset = "FTSE" }, "BS.ASSET"},
		{"negative vol", func(ds *domain.Dataset) { ds.BS.Vol = -0.2 }, "BS.VOL"},
		{"bs2 same asset", func(ds *domain.Dataset) {
			ds.Model = domain.ModelBS2
			ds.BS2 = &domain.BS2Params{Asset1: "SPX", Asset2: "SPX", Vol1: 0.2, Vol2: 0.2}
		}, "BS2.ASSET2"},
		{"bs2 correlation", func(ds *domain.Dataset) {
			ds.Model = domain.ModelBS2
			ds.Assets["NDX"] = domain.AssetCurve{Kind: domain.KindForwards, Table: [][]float64{{0, 200}}}
			ds.BS2 = &domain.BS2Params{Asset1: "SPX", Asset2: "NDX", Vol1: 0.2, Vol2: 0.2, Corr: -1.01}
		}, "BS2.CORR"},
		{"heston kappa", func(ds *domain.Dataset) {
			ds.Model = domain.ModelHeston
			ds.Heston = &domain.HestonParams{Asset: "SPX", InitialVariance: 0.04, LongVariance: 0.04, MeanReversion: -1}
		}, "HESTON.MEAN_REVERSION"},
		{"heston rho", func(ds *domain.Dataset) {
			ds.Model = domain.ModelHeston
			ds.Heston = &domain.HestonParams{Asset: "SPX", InitialVariance: 0.04, LongVariance: 0.04, MeanReversion: 1, Correlation: 2}
		}, "HESTON.CORRELATION"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := parser.Parse([]byte(minimalBS))
			require.NoError(t, err)
			tt.mutate(ds)
			err = parser.ValidateDataset(ds)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDataset)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateDataset_ExplicitModelPicksSection(t *testing.T) {
	parser := NewInputParser()
	ds := parser.CreateExampleDataset()
	require.NoError(t, parser.ValidateDataset(ds))

	for _, m := range []string{domain.ModelBS, domain.ModelBS2, domain.ModelHeston} {
		ds.Model = m
		assert.NoError(t, parser.ValidateDataset(ds), m)
	}

	ds.Model = ""
	err := parser.ValidateDataset(ds)
	assert.ErrorIs(t, err, domain.ErrInvalidDataset, "several sections need MODEL")
}

func TestFellerSatisfied(t *testing.T) {
	assert.True(t, FellerSatisfied(&domain.HestonParams{LongVariance: 0.04, MeanReversion: 1.5, VolOfVariance: 0.3}))
	assert.False(t, FellerSatisfied(&domain.HestonParams{LongVariance: 0.04, MeanReversion: 1.0, VolOfVariance: 5.0}))
}

func TestSaveDatasetRoundTrip(t *testing.T) {
	parser := NewInputParser()
	original := parser.CreateExampleDataset()

	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, SaveDataset(original, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ZERO_RATES")

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, original.Model, loaded.Model)
	assert.Equal(t, *original.MC, *loaded.MC)
	assert.Equal(t, *original.BS, *loaded.BS)
	assert.Equal(t, *original.BS2, *loaded.BS2)
	assert.Equal(t, *original.Heston, *loaded.Heston)
	assert.Equal(t, original.Assets, loaded.Assets)
	assert.Equal(t, original.Base, loaded.Base)
	assert.True(t, original.PricingTS.Equal(loaded.PricingTS))
}
