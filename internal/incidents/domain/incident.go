package domain

import "time"

type Incident struct {
	ID        int64
	Type      string
	Location  string
	Timestamp time.Time
}

type IncidentUpdate struct {
	Type     *string
	Location *string
}
