package catalog

// WithQuery returns v with the search text replaced.
func (v ViewState) WithQuery(q string) ViewState {
	v.Query = q
	return v
}

// WithCategory returns v with the category selection replaced.
// The page is left alone; a stale page is clamped by Run.
func (v ViewState) WithCategory(c string) ViewState {
	v.Category = c
	return v
}

// WithSort returns v with the sort strategy replaced.
func (v ViewState) WithSort(s SortStrategy) ViewState {
	v.Sort = s
	return v
}

// WithPerPage returns v with the page size replaced.
func (v ViewState) WithPerPage(n int) ViewState {
	v.PerPage = n
	return v
}

// WithFavoritesOnly returns v with the favorites-only flag set to on.
func (v ViewState) WithFavoritesOnly(on bool) ViewState {
	v.FavoritesOnly = on
	return v
}

// ToggleFavoritesOnly flips the favorites-only flag.
func (v ViewState) ToggleFavoritesOnly() ViewState {
	v.FavoritesOnly = !v.FavoritesOnly
	return v
}

// WithPage returns v pointed at page p, unclamped.
func (v ViewState) WithPage(p int) ViewState {
	v.Page = p
	return v
}

// PrevPage moves one page back, first pulling a stale page into range.
func (v ViewState) PrevPage(pageCount int) ViewState {
	v.Page = max(1, clampPage(v.Page, pageCount)-1)
	return v
}

// NextPage moves one page forward, never past pageCount.
func (v ViewState) NextPage(pageCount int) ViewState {
	v.Page = min(max(1, pageCount), clampPage(v.Page, pageCount)+1)
	return v
}

func clampPage(page, pageCount int) int {
	return min(max(1, page), max(1, pageCount))
}
