package mcpserver

const guideURI = "recipebook://catalog-guide"

// CatalogGuide describes how browse_recipes turns its arguments into a
// page of recipes.
const CatalogGuide = `# Recipebook Catalog Guide

browse_recipes runs four steps in a fixed order.

1. **Favorites.** With ` + "`" + `favorites_only` + "`" + `, only favorited recipes remain.
2. **Category.** Unless ` + "`" + `category` + "`" + ` is ` + "`" + `All` + "`" + ` (the default), only recipes whose
   category matches exactly (case-sensitive) remain. Use list_categories for
   the valid names.
3. **Search.** A non-blank ` + "`" + `query` + "`" + ` is trimmed and matched case-insensitively
   as a substring of the title or the description.
4. **Sort.** Stable; ties keep catalog order.
   - ` + "`" + `popular` + "`" + ` (default) and ` + "`" + `rating` + "`" + `: highest rating first.
   - ` + "`" + `time` + "`" + `: shortest first, by the leading number of the time text
     ("1 hr" sorts as 1, text without a number as 0).
   - ` + "`" + `new` + "`" + `: ascending by id.

## Pagination

- ` + "`" + `per_page` + "`" + ` is 6, 12 (default) or 24.
- ` + "`" + `page` + "`" + ` is 1-based. Pages past the end (or below 1) are clamped;
  the returned ` + "`" + `view.page` + "`" + ` is the page actually shown.
- ` + "`" + `page_count` + "`" + ` is never below 1, even when nothing matches.

## Favorites

toggle_favorite flips membership and persists immediately. Favorites are
shared by every MCP client of this server process.
`
