package hardref

import "github.com/matzehuels/hardref/pkg/asset"

// Category names the part of a Blueprint a reference was found in.
type Category string

const (
	CategoryFunctionCall   Category = "function-call"
	CategoryCast           Category = "cast"
	CategoryPinDefault     Category = "pin-default"
	CategoryMemberVariable Category = "member-variable"
	CategoryProperty       Category = "property"
	CategoryComponent      Category = "component"
	CategoryFunctionLocal  Category = "function-local"
	CategoryUnidentified   Category = "unidentified"
)

// Site is one place in a Blueprint that holds a hard reference into a
// dependency package.
//
// NodeID and Variable are lookup keys for locating the site in an editor;
// they never own the graph node or property they name.
type Site struct {
	Label    string   `json:"label"`
	Tooltip  string   `json:"tooltip,omitempty"`
	NodeID   string   `json:"node_id,omitempty"`
	Variable string   `json:"variable,omitempty"`
	Category Category `json:"category"`
	Icon     string   `json:"icon,omitempty"`
	// Object is the referenced object (empty for the placeholder).
	Object asset.ObjectRef `json:"object,omitempty"`
}

// Placeholder text for dependencies the scan could not attribute.
const (
	UnidentifiedLabel   = "Unidentified source"
	UnidentifiedTooltip = "This package is being referenced but its source could not be identified."
)

// VariableTooltip is the tooltip on member-variable sites.
const VariableTooltip = "Blueprint member variable"

// Placeholder returns the site injected into groups with no discovered sites.
func Placeholder() Site {
	return Site{
		Label:    UnidentifiedLabel,
		Tooltip:  UnidentifiedTooltip,
		Category: CategoryUnidentified,
	}
}

// IsPlaceholder reports whether s is the unidentified-source placeholder.
func (s Site) IsPlaceholder() bool { return s.Category == CategoryUnidentified }

// Sites holds discovered sites by target package, each in discovery order.
type Sites map[asset.PackageID][]Site

// Count returns the total number of sites.
func (s Sites) Count() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}
