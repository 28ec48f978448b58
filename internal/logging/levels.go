// internal/logging/levels.go
package logging

import "go.uber.org/zap/zapcore"

// TraceLevel sits one step below Debug (zap assigns Debug -1, so Trace is
// -2). It carries per-frame and per-feature detail: keypoint counts,
// spectral bins, stride events. Production configs filter it out.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name, accepting "trace" on top of the
// names zap recognizes. Unknown names return Info and an error.
func LevelFromString(name string) (zapcore.Level, error) {
	if name == "trace" {
		return TraceLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel, err
	}
	return lvl, nil
}
