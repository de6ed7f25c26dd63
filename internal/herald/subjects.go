package herald

const (
	SubjectStoreSorted = "roost.store.sorted"

	StreamName   = "ROOST_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// Apartment lifecycle subjects
func SubjectApartmentCreated(apartmentID string) string { return "roost.apartment." + apartmentID + ".created" }
func SubjectApartmentUpdated(apartmentID string) string { return "roost.apartment." + apartmentID + ".updated" }
func SubjectApartmentDeleted(apartmentID string) string { return "roost.apartment." + apartmentID + ".deleted" }

// Enrichment subjects. The ref is a fresh id minted per attempt; failed
// scrapes have no apartment id to key on.
func SubjectEnrichmentFailed(ref string) string { return "roost.enrichment." + ref + ".failed" }
