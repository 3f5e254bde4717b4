// Package safety loads the danger map and safety zones and scores
// walking routes with them.
package safety

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// DangerMap grades roads from 1 (safest) to 10 (most dangerous), by
// exact name, by inferred road type, or by the default grade.
type DangerMap struct {
	Roads   map[string]int `json:"roads"`
	Types   map[string]int `json:"types"`
	Default int            `json:"default"`
}

// Zone is a circular area with its own safety score in [0, 1].
type Zone struct {
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM float64 `json:"radius_m"`
	Score   float64 `json:"score"`
	Label   string  `json:"label,omitempty"`
}

type zonesFile struct {
	Zones []Zone `json:"zones"`
}

// Overlay holds the two safety data sources and swaps them atomically
// on reload.
type Overlay struct {
	dangerPath string
	zonesPath  string
	logger     *slog.Logger

	mu     sync.RWMutex
	danger DangerMap
	zones  []Zone
}

// NewOverlay loads both files. A missing or unreadable file is logged
// and treated as empty; queries keep working without that signal.
func NewOverlay(dangerPath, zonesPath string, logger *slog.Logger) *Overlay {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Overlay{
		dangerPath: dangerPath,
		zonesPath:  zonesPath,
		logger:     logger.With(slog.String("component", "safety_overlay")),
	}
	o.danger, o.zones = o.loadAll()
	return o
}

// Reload re-reads both files and swaps them in as a pair.
func (o *Overlay) Reload() {
	danger, zones := o.loadAll()
	o.mu.Lock()
	o.danger = danger
	o.zones = zones
	o.mu.Unlock()
}

func (o *Overlay) loadAll() (DangerMap, []Zone) {
	danger, err := loadDangerMap(o.dangerPath)
	if err != nil {
		o.logger.Warn("danger map unavailable, using defaults",
			slog.String("path", o.dangerPath), slog.String("error", err.Error()))
		danger = emptyDangerMap()
	}
	zones, err := loadZones(o.zonesPath)
	if err != nil {
		o.logger.Warn("safety zones unavailable, using none",
			slog.String("path", o.zonesPath), slog.String("error", err.Error()))
		zones = nil
	}
	return danger, zones
}

func (o *Overlay) snapshot() (DangerMap, []Zone) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.danger, o.zones
}

func emptyDangerMap() DangerMap {
	return DangerMap{Roads: map[string]int{}, Types: map[string]int{}, Default: 1}
}

func loadDangerMap(path string) (DangerMap, error) {
	if path == "" {
		return emptyDangerMap(), nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return DangerMap{}, err
	}

	var raw DangerMap
	if err := json.Unmarshal(body, &raw); err != nil {
		return DangerMap{}, fmt.Errorf("parsing danger map: %w", err)
	}

	out := emptyDangerMap()
	for name, grade := range raw.Roads {
		out.Roads[strings.ToLower(strings.TrimSpace(name))] = clampDanger(grade)
	}
	for tag, grade := range raw.Types {
		out.Types[strings.ToLower(strings.TrimSpace(tag))] = clampDanger(grade)
	}
	if raw.Default != 0 {
		out.Default = clampDanger(raw.Default)
	}
	return out, nil
}

func loadZones(path string) ([]Zone, error) {
	if path == "" {
		return nil, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw zonesFile
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing safety zones: %w", err)
	}

	var out []Zone
	for _, z := range raw.Zones {
		if z.Type != "circle" || z.RadiusM <= 0 {
			continue
		}
		if z.Score < 0 {
			z.Score = 0
		}
		if z.Score > 1 {
			z.Score = 1
		}
		out = append(out, z)
	}
	return out, nil
}

func clampDanger(grade int) int {
	if grade < 1 {
		return 1
	}
	if grade > 10 {
		return 10
	}
	return grade
}
