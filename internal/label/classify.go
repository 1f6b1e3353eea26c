package label

// Facets is the partition of an issue's canonical labels. Slices keep the
// incoming tag order and preserve duplicates; an absent facet is an empty
// (or nil) slice, never an error.
type Facets struct {
	Nature       []string
	Phase        []string
	Platform     []string
	WorkingGroup []string
	Status       []string
	Product      []string
}

// Classify normalizes each tag and appends its canonical label to the
// facet its rule belongs to. Anything unmatched lands in Product.
func (v *Vocabulary) Classify(tags []string) Facets {
	var f Facets
	for _, tag := range tags {
		canonical, facet := v.lookup(tag)
		switch facet {
		case FacetStatus:
			f.Status = append(f.Status, canonical)
		case FacetNature:
			f.Nature = append(f.Nature, canonical)
		case FacetPlatform:
			f.Platform = append(f.Platform, canonical)
		case FacetWorkingGroup:
			f.WorkingGroup = append(f.WorkingGroup, canonical)
		case FacetPhase:
			f.Phase = append(f.Phase, canonical)
		default:
			f.Product = append(f.Product, canonical)
		}
	}
	return f
}

// Classify partitions tags with the built-in vocabulary.
func Classify(tags []string) Facets {
	return Default().Classify(tags)
}

// ByFacet returns the facet's canonical labels, Product for anything
// unknown. Handy for building filter pools without switching everywhere.
func (f Facets) ByFacet(facet Facet) []string {
	switch facet {
	case FacetNature:
		return f.Nature
	case FacetPhase:
		return f.Phase
	case FacetPlatform:
		return f.Platform
	case FacetWorkingGroup:
		return f.WorkingGroup
	case FacetStatus:
		return f.Status
	default:
		return f.Product
	}
}

func contains(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

// HasStatus reports whether the Status facet contains the canonical label.
func (f Facets) HasStatus(name string) bool {
	return contains(f.Status, name)
}

// HasNature reports whether the Nature facet contains the canonical label.
func (f Facets) HasNature(name string) bool {
	return contains(f.Nature, name)
}
