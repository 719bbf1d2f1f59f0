package render

// FavoriteToggle is the per-card favorite control. It holds no state of
// its own; persistence belongs to whoever supplies OnToggle.
type FavoriteToggle struct {
	RecipeID   string
	IsFavorite bool
	OnToggle   func(id string)
}

// Activate reports one activation to OnToggle.
func (f FavoriteToggle) Activate() {
	if f.OnToggle != nil {
		f.OnToggle(f.RecipeID)
	}
}

// Label is the accessible name of the control.
func (f FavoriteToggle) Label() string {
	if f.IsFavorite {
		return "Remove from favorites"
	}
	return "Add to favorites"
}

// Icon is the glyph shown on the control.
func (f FavoriteToggle) Icon() string {
	if f.IsFavorite {
		return "★"
	}
	return "☆"
}

// Caption is the visible text of the control.
func (f FavoriteToggle) Caption() string {
	if f.IsFavorite {
		return "Favorited"
	}
	return "Favorite"
}
