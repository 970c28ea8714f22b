package timer

import (
	"time"

	"go.uber.org/zap"
)

// Track returns a function that, when executed, logs the duration.
// Used around deliberately slow operations (bcrypt verification) to keep an
// eye on their latency without a metrics stack.
// Usage: defer timer.Track("FunctionName")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		zap.L().Debug("timed section",
			zap.String("name", name),
			zap.Duration("took", time.Since(start)))
	}
}
