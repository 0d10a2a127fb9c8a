package pipeline

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// DefaultCompileThreshold is the chain length above which StrategyAuto compiles.
const DefaultCompileThreshold = 3

// Defaults are the process-wide settings every new pipeline starts from.
type Defaults struct {
	Strategy         model.Strategy
	CompileThreshold int
}

// Validate checks the defaults can be applied.
func (d Defaults) Validate() error {
	if !d.Strategy.Valid() {
		return errors.Wrapf(ErrUnknownStrategy, "%q", d.Strategy)
	}
	if d.CompileThreshold < 0 {
		return errors.Wrapf(ErrNegativeSize, "%d", d.CompileThreshold)
	}

	return nil
}

var defaults atomic.Pointer[Defaults]

func init() {
	defaults.Store(&Defaults{
		Strategy:         model.StrategyAuto,
		CompileThreshold: DefaultCompileThreshold,
	})
}

// DefaultConfig returns the current process-wide defaults.
func DefaultConfig() Defaults {
	return *defaults.Load()
}

// SetDefaults replaces the process-wide defaults. Pipelines already created keep the
// settings they were created with.
func SetDefaults(d Defaults) error {
	if err := d.Validate(); err != nil {
		return err
	}
	defaults.Store(&d)

	return nil
}
