package catalog

// Version tags a fixed alternative listing
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"

	// DefaultVersion is used when no version is requested
	DefaultVersion = V1
)

var versionedSets = map[Version][]Record{
	V1: {
		{ID: 1, Name: "tshirt", Price: 1000},
		{ID: 2, Name: "shirt", Price: 20},
		{ID: 3, Name: "helmet", Price: 50},
		{ID: 4, Name: "gloves", Price: 200},
	},
	V2: {
		{ID: 1, Name: "Mangoes", Price: 10},
		{ID: 2, Name: "Papaya", Price: 20},
		{ID: 3, Name: "Apple", Price: 50},
		{ID: 4, Name: "Dragon", Price: 200},
	},
}

// Versions lists the known version tags in order
func Versions() []Version {
	return []Version{V1, V2}
}

// IsKnown reports whether v selects a fixed set
func (v Version) IsKnown() bool {
	_, ok := versionedSets[v]
	return ok
}

// ResolveVersion applies the default to an absent header value
func ResolveVersion(header string) Version {
	if header == "" {
		return DefaultVersion
	}
	return Version(header)
}

// ListByPathVersion returns the fixed set for a routed path segment.
// ok is false for segments that are not routed.
func ListByPathVersion(v Version) (records []Record, ok bool) {
	set, ok := versionedSets[v]
	if !ok {
		return nil, false
	}
	return cloneRecords(set), true
}

// ListByHeaderVersion resolves a header value and returns the matching set.
// Unknown versions are echoed back with an empty, non-nil set.
func ListByHeaderVersion(header string) (Version, []Record) {
	v := ResolveVersion(header)
	if set, ok := versionedSets[v]; ok {
		return v, cloneRecords(set)
	}
	return v, []Record{}
}
