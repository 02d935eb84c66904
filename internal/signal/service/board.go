package service

import (
	"errors"
	"sort"
	"sync"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

var ErrZoneNotFound = errors.New("zone not found")

type ZoneCount struct {
	Zone         string `json:"zone"`
	VehicleCount int    `json:"vehicle_count"`
}

type SignalStatus struct {
	Zone     string `json:"zone"`
	Signal   string `json:"signal"`
	Duration int    `json:"duration"`
}

// Board holds live per-zone vehicle counts in memory. Counts are seeded at
// startup and survive only as long as the process.
type Board struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewBoard(seed map[string]int) *Board {
	counts := make(map[string]int, len(seed))
	for zone, count := range seed {
		counts[zone] = count
	}
	return &Board{counts: counts}
}

// DefaultSeed matches the counts the service has always started with.
func DefaultSeed() map[string]int {
	return map[string]int{"A": 75, "B": 60, "C": 80}
}

func (b *Board) All() []ZoneCount {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]ZoneCount, 0, len(b.counts))
	for zone, count := range b.counts {
		result = append(result, ZoneCount{Zone: zone, VehicleCount: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Zone < result[j].Zone })
	return result
}

func (b *Board) Get(zone string) (ZoneCount, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count, ok := b.counts[zone]
	if !ok {
		return ZoneCount{}, ErrZoneNotFound
	}
	return ZoneCount{Zone: zone, VehicleCount: count}, nil
}

// Update sets the count for an existing zone. Unknown zones are rejected;
// zone registration belongs to the traffic service, not the live board.
func (b *Board) Update(zone string, vehicleCount int) (ZoneCount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.counts[zone]; !ok {
		return ZoneCount{}, ErrZoneNotFound
	}
	b.counts[zone] = vehicleCount
	return ZoneCount{Zone: zone, VehicleCount: vehicleCount}, nil
}

// Signal derives the signal phase for a zone from its current count.
func (b *Board) Signal(zone string) (SignalStatus, error) {
	current, err := b.Get(zone)
	if err != nil {
		return SignalStatus{}, err
	}

	status := SignalStatus{Zone: zone, Signal: "Green", Duration: constants.SignalGreenDurationSec}
	if current.VehicleCount > constants.SignalRedThreshold {
		status.Signal = "Red"
		status.Duration = constants.SignalRedDurationSec
	}

	metrics.SignalLookupsTotal.WithLabelValues(status.Signal).Inc()
	return status, nil
}
