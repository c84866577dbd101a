/*
Package otconf holds the engine-wide settings every other otshape package
is indifferent to: default trace level, whether GPOS runs at all, and
the zero-width-marks default, grounded in the teacher's otcli/main.go
tracing setup (schuko/schukonf/testconfig + schuko/tracing).
*/
package otconf

import (
	"fmt"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// namespaces lists every tracer key the otshape module registers
// (mirrors the tracer() helper in each package).
var namespaces = []string{
	"otshape.ot",
	"otshape.album",
	"otshape.layout",
	"otshape.shape",
}

// Config is the engine's tunable defaults.
type Config struct {
	// TraceLevel is applied to every otshape.* namespace: "Debug",
	// "Info", or "Error".
	TraceLevel string

	// ApplyGPOS toggles positioning entirely; false yields a
	// substitution-only pipeline (otshape.ShapeOptions.SkipGPOS).
	ApplyGPOS bool

	// ZeroWidthMarks is the default for
	// otshape.ShapeOptions.ZeroWidthMarks when a caller doesn't
	// override it per call.
	ZeroWidthMarks bool
}

// Default returns the engine's out-of-the-box configuration: tracing at
// Info, GPOS applied, mark advances left alone.
func Default() Config {
	return Config{
		TraceLevel:     "Info",
		ApplyGPOS:      true,
		ZeroWidthMarks: false,
	}
}

// Configure wires schuko's tracing subsystem for every otshape.*
// namespace at cfg.TraceLevel, exactly as the teacher's CLI configures
// "tyse.fonts" in otcli/main.go.
func Configure(cfg Config) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, ns := range namespaces {
		conf["trace."+ns] = cfg.TraceLevel
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("otconf: configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// ShapeOptionDefaults reports the ShapeOptions fields this Config
// governs, as plain values a caller folds into its own
// otshape.ShapeOptions (otconf intentionally has no otshape import, to
// keep configuration independent of the shaping pipeline it configures).
func (c Config) ShapeOptionDefaults() (skipGPOS, zeroWidthMarks bool) {
	return !c.ApplyGPOS, c.ZeroWidthMarks
}
