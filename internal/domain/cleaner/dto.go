package cleaner

// Criteria narrows a cleaner list. Zero values impose no restriction.
type Criteria struct {
	Regions []string `json:"regions,omitempty"`
	Search  string   `json:"search,omitempty"`
	Status  string   `json:"status,omitempty"`
}
