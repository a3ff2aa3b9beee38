package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/abhee15/navarch-studio-sub003/internal/database"
	"github.com/abhee15/navarch-studio-sub003/internal/modules/resultcache"
)

// SystemHandlers serves the monitoring endpoints.
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	fleetDB     *database.DB
	referenceDB *database.DB
	cacheDB     *database.DB
	cache       *resultcache.Cache
}

// NewSystemHandlers creates system handlers.
func NewSystemHandlers(log zerolog.Logger, dataDir string, fleetDB, referenceDB, cacheDB *database.DB, cache *resultcache.Cache) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		dataDir:     dataDir,
		fleetDB:     fleetDB,
		referenceDB: referenceDB,
		cacheDB:     cacheDB,
		cache:       cache,
	}
}

type systemStatus struct {
	Status       string  `json:"status"`
	CPUPercent   float64 `json:"cpu_percent"`
	MemPercent   float64 `json:"mem_percent"`
	DataDirMB    float64 `json:"data_dir_mb"`
	CacheEntries int64   `json:"cache_entries"`
	Timestamp    string  `json:"timestamp"`
}

// HandleSystemStatus returns process and host health.
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, memUsed := h.systemStats()

	entries, err := h.cache.Len()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to count cache entries")
	}

	resp := systemStatus{
		Status:       "ok",
		CPUPercent:   cpuAvg,
		MemPercent:   memUsed,
		DataDirMB:    h.dirSize(h.dataDir),
		CacheEntries: entries,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// HandleDatabaseStats returns per-database connection stats.
// GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{}, 3)
	for name, db := range map[string]*database.DB{
		"fleet": h.fleetDB, "reference": h.referenceDB, "cache": h.cacheDB,
	} {
		st, err := db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Str("database", name).Msg("Failed to collect database stats")
			continue
		}
		stats[name] = st
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode database stats")
	}
}

// systemStats samples CPU and RAM usage. The 100ms CPU window keeps the
// endpoint responsive for pollers.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

// dirSize reports the total size of a directory in MB.
func (h *SystemHandlers) dirSize(dirPath string) float64 {
	var totalSize int64
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}
	return float64(totalSize) / 1024 / 1024
}
