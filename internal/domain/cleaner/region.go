package cleaner

import "sync"

// Region is a display entry for a service area.
type Region struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

var (
	regionColors = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899", "#14B8A6", "#F97316"}
	regionEmojis = []string{"🏙️", "🌲", "🌳", "🏖️", "⛰️", "🌆", "🏡", "🌉"}
)

// NoRegion is returned for cleaners without a region. It is never stored.
var NoRegion = Region{Key: "", Label: "No region", Color: "#9CA3AF", Emoji: "❔"}

// DefaultRegions are the service areas known before any data arrives.
func DefaultRegions() []Region {
	return []Region{
		{Key: "Charlotte", Label: "Charlotte", Color: regionColors[0], Emoji: regionEmojis[0]},
		{Key: "Triad", Label: "Triad", Color: regionColors[1], Emoji: regionEmojis[1]},
		{Key: "Raleigh", Label: "Raleigh", Color: regionColors[2], Emoji: regionEmojis[2]},
	}
}

// RegionDirectory is an append-only set of regions. Unknown keys are
// provisioned on first lookup with a palette entry chosen by the current
// directory size. The directory lives as long as its owner; drop the
// reference to tear it down.
type RegionDirectory struct {
	mu      sync.RWMutex
	entries map[string]Region
	order   []string
}

func NewRegionDirectory(seed ...Region) *RegionDirectory {
	d := &RegionDirectory{entries: make(map[string]Region, len(seed))}
	for _, r := range seed {
		if r.Key == "" {
			continue
		}
		if _, ok := d.entries[r.Key]; ok {
			continue
		}
		d.entries[r.Key] = r
		d.order = append(d.order, r.Key)
	}
	return d
}

// Get returns a region without provisioning it.
func (d *RegionDirectory) Get(key string) (Region, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.entries[key]
	return r, ok
}

// Lookup returns the region for key, provisioning it when unseen. Repeated
// lookups of one key always return the same entry.
func (d *RegionDirectory) Lookup(key string) Region {
	if key == "" {
		return NoRegion
	}
	if r, ok := d.Get(key); ok {
		return r
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.entries[key]; ok {
		return r
	}
	n := len(d.order)
	r := Region{
		Key:   key,
		Label: key,
		Color: regionColors[n%len(regionColors)],
		Emoji: regionEmojis[n%len(regionEmojis)],
	}
	d.entries[key] = r
	d.order = append(d.order, key)
	return r
}

// Observe provisions the region of every cleaner.
func (d *RegionDirectory) Observe(cleaners []Cleaner) {
	for _, c := range cleaners {
		d.Lookup(c.Region)
	}
}

// List returns regions in the order they were added.
func (d *RegionDirectory) List() []Region {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Region, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.entries[k])
	}
	return out
}

func (d *RegionDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}
