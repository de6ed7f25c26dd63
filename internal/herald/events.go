package herald

import "time"

type ApartmentCreatedEvent struct {
	ApartmentID string `json:"apartment_id"`
	Name        string `json:"name"`
	Rent        int    `json:"rent"`
	Overall     int    `json:"overall"`
	Tier        string `json:"tier"`
	Source      string `json:"source,omitempty"`
}

type ApartmentUpdatedEvent struct {
	ApartmentID string `json:"apartment_id"`
	Rent        int    `json:"rent"`
	Overall     int    `json:"overall"`
	Tier        string `json:"tier"`
}

type ApartmentDeletedEvent struct {
	ApartmentID string `json:"apartment_id"`
}

type StoreSortedEvent struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type EnrichmentFailedEvent struct {
	URL         string `json:"url"`
	Error       string `json:"error"`
	NeedsManual bool   `json:"needs_manual"`
}
