package domain

// TrafficZone is a monitored area with a current vehicle count. Names are
// unique across zones.
type TrafficZone struct {
	ID           int64
	Name         string
	VehicleCount int
}

// ZoneUpdate carries a partial update; nil fields are left unchanged.
type ZoneUpdate struct {
	Name         *string
	VehicleCount *int
}
