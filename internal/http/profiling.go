package http

import (
	stdhttp "net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const bytesPerMB = 1024 * 1024

// MemoryStats is a snapshot of the Go runtime's memory use
type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	HeapObjects  uint64  `json:"heap_objects"`
	HeapInUseMB  float64 `json:"heap_in_use_mb"`
	StackInUseMB float64 `json:"stack_in_use_mb"`
	Timestamp    string  `json:"timestamp"`
}

func readMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      float64(m.Alloc) / bytesPerMB,
		TotalAllocMB: float64(m.TotalAlloc) / bytesPerMB,
		SysMB:        float64(m.Sys) / bytesPerMB,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		HeapObjects:  m.HeapObjects,
		HeapInUseMB:  float64(m.HeapInuse) / bytesPerMB,
		StackInUseMB: float64(m.StackInuse) / bytesPerMB,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

// registerProfiling mounts pprof under /debug/pprof and a runtime memory
// snapshot at /metrics/memory. Only enabled by ENABLE_PROFILING.
func registerProfiling(e *echo.Echo) {
	g := e.Group("/debug/pprof")
	g.GET("/", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(stdhttp.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}

	e.GET("/metrics/memory", func(c echo.Context) error {
		return c.JSON(stdhttp.StatusOK, readMemoryStats())
	})
}
