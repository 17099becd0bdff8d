// Package observability collects a point-in-time picture of the running
// process and its storage footprint, for the stats CLI command.
package observability

import (
	"log/slog"
	"os"
	"runtime"

	badger "github.com/dgraph-io/badger/v4"
	_ "github.com/shirou/gopsutil"
	"github.com/shirou/gopsutil/process"
)

type Snapshot struct {
	Goroutines   int
	HeapAllocMB  float64
	GCCycles     uint32
	LSMSizeMB    float64
	VlogSizeMB   float64
	CPUPercent   float64
	RAMPercent   float32
	ProcessState string
}

type Monitor struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMonitor(db *badger.DB, log *slog.Logger) *Monitor {
	return &Monitor{db: db, log: log}
}

// Collect never fails outright: process-level metrics that cannot be read
// on this platform are logged and left at their zero value.
func (m *Monitor) Collect() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	lsm, vlog := m.db.Size()
	snap := Snapshot{
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: toMB(mem.HeapAlloc),
		GCCycles:    mem.NumGC,
		LSMSizeMB:   toMB(uint64(lsm)),
		VlogSizeMB:  toMB(uint64(vlog)),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.log.Debug("Error while retrieving process", "pid", os.Getpid(), "err", err)
		return snap
	}
	if cpu, err := p.CPUPercent(); err != nil {
		m.log.Debug("Error while finding process cpu usage", "err", err)
	} else {
		snap.CPUPercent = cpu
	}
	if ram, err := p.MemoryPercent(); err != nil {
		m.log.Debug("Error while finding process ram usage", "err", err)
	} else {
		snap.RAMPercent = ram
	}
	if status, err := p.Status(); err != nil {
		m.log.Debug("Error while finding process status", "err", err)
	} else {
		snap.ProcessState = status
	}
	return snap
}

func toMB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
