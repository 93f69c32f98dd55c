// Package bridge is the boundary between the pipeline and foreign callers.
// Every failure collapses to a nil bundle; the cause is only logged.
package bridge

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wadmesh/internal/level"
	"github.com/Faultbox/wadmesh/internal/logger"
)

// Load builds the bundle for levelName with default options, or returns nil.
func Load(path, levelName string) *level.Bundle {
	return LoadWithOptions(path, levelName, level.DefaultOptions())
}

// LoadWithOptions is Load with explicit pipeline options.
func LoadWithOptions(path, levelName string, opts level.Options) *level.Bundle {
	b, err := level.Load(path, levelName, opts)
	if err != nil {
		logger.Warn("level load failed",
			zap.String("path", path),
			zap.String("level", levelName),
			zap.Error(err))
		return nil
	}
	return b
}

// Free releases a bundle returned by Load. Calling it twice on the same
// bundle is undefined for foreign callers.
func Free(b *level.Bundle) {
	if b == nil {
		return
	}
	b.Release()
}
