package domain

// ScopeLevel names the identifier that anchors an image scope.
type ScopeLevel string

const (
	ScopeNone                 ScopeLevel = ""
	ScopeProperty             ScopeLevel = "property"
	ScopeRoom                 ScopeLevel = "room"
	ScopeProduct              ScopeLevel = "product"
	ScopeProductSpecification ScopeLevel = "product_specification"
	ScopeDrawing              ScopeLevel = "drawing"
)

// ImageScope is the set of owning-entity ids an upload targets. Scope identity
// is decided by the single most specific non-empty id.
type ImageScope struct {
	PropertyID             string
	RoomID                 string
	ProductID              string
	ProductSpecificationID string
	DrawingID              string
}

// MostSpecific returns the level and id that identify this scope:
// drawing, else product specification, else product, else room, else property.
func (s ImageScope) MostSpecific() (ScopeLevel, string) {
	switch {
	case s.DrawingID != "":
		return ScopeDrawing, s.DrawingID
	case s.ProductSpecificationID != "":
		return ScopeProductSpecification, s.ProductSpecificationID
	case s.ProductID != "":
		return ScopeProduct, s.ProductID
	case s.RoomID != "":
		return ScopeRoom, s.RoomID
	case s.PropertyID != "":
		return ScopeProperty, s.PropertyID
	default:
		return ScopeNone, ""
	}
}

func (s ImageScope) IsZero() bool {
	level, _ := s.MostSpecific()
	return level == ScopeNone
}

// Same reports whether two scopes share the same most specific identifier.
func (s ImageScope) Same(other ImageScope) bool {
	level, id := s.MostSpecific()
	otherLevel, otherID := other.MostSpecific()
	return level != ScopeNone && level == otherLevel && id == otherID
}
