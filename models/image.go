package models

// Location identifies which lifecycle directory currently holds an image.
// It is always derived from the filesystem, never stored.
type Location string

const (
	LocationBase  Location = "base"
	LocationTrash Location = "trash"
	LocationPicks Location = "picks"
)

// ParseLocation maps the string form used in URLs and JSON to a Location.
func ParseLocation(s string) (Location, bool) {
	switch Location(s) {
	case LocationBase, LocationTrash, LocationPicks:
		return Location(s), true
	default:
		return "", false
	}
}

func (l Location) String() string { return string(l) }

// ImageRecord is the assembled view of one image: its physical location plus
// the sidecar metadata joined by filename stem. Rating is nil when unrated.
type ImageRecord struct {
	Filename string   `json:"filename"`
	Location Location `json:"location"`
	Rating   *int     `json:"rating"`
	Notes    string   `json:"notes"`
	Prompt   string   `json:"prompt"`
	Size     int64    `json:"size"`
	ModTime  int64    `json:"mod_time"`
}
