package telemetry

import (
	"context"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. Values must stay low cardinality.
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTenantID = "tenant_id"
)

// WithProfilingLabels runs fn with pprof labels that Pyroscope attaches to
// every sample taken inside it. Empty values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		if v == "" {
			continue
		}
		pairs = append(pairs, k, v)
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
