package domain

// CatalogEntry is one reference-data item (code plus display name).
type CatalogEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalogs is the reference data fetched once per session, used by the flow's
// identification-type selector and client data screens.
type Catalogs struct {
	IdentificationTypes []CatalogEntry `json:"identification_types"`
	Countries           []CatalogEntry `json:"countries"`
	MaritalStatuses     []CatalogEntry `json:"marital_statuses"`
	AlertTypes          []CatalogEntry `json:"alert_types"`
}
