package viewmodel

// User represents the authenticated user context exposed to page models.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title       string       `json:"title"`
	CurrentPage string       `json:"currentPage"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	User        *User        `json:"user,omitempty"`
	Errors      ErrorSummary `json:"errors"`
}

// LayoutProvider exposes layout metadata for response helpers.
type LayoutProvider interface {
	LayoutData() *Layout
}

// LayoutData implements LayoutProvider.
func (l *Layout) LayoutData() *Layout { return l }

// NewLayout builds the chrome for page with its breadcrumb trail.
func NewLayout(page Page, user *User) Layout {
	return Layout{
		Title:       page.Title(),
		CurrentPage: string(page),
		Breadcrumbs: Trail(page),
		User:        user,
		Errors:      ErrorSummary{Entries: []ErrorEntry{}},
	}
}
