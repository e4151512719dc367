package calculation

import "time"

// nowFunc times pricing runs (override in tests for a fixed Elapsed).
var nowFunc = time.Now

// SetNowFunc overrides the clock used to time pricing runs (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc supplies the seed for datasets with MC.SEED 0.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the fresh-seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }
