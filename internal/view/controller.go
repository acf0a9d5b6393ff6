package view

// Controller applies navigation intents to a State. A Controller is not safe for concurrent use; the owning session serialises
// access to it.
type Controller struct {
	state State
}

// NewController starts at the default view with no selection.
func NewController() *Controller {
	return &Controller{state: NewState()}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Navigate abandons any detail view and switches to v. Unknown views fall
// back to the default view, so it always succeeds.
func (c *Controller) Navigate(v View) {
	v, ok := ParseView(string(v))
	if !ok {
		v = DefaultView
	}
	c.state.SelectedProjectID = ""
	c.state.SelectedStoryID = ""
	c.state.CurrentView = v
}

// OpenProject selects a project. The current view is kept underneath and is
// shown again once the selection is cleared.
func (c *Controller) OpenProject(id string) {
	c.state.SelectedProjectID = id
}

// OpenStory selects an announcement.
func (c *Controller) OpenStory(id string) {
	c.state.SelectedStoryID = id
}

// GoBack is a single-level undo: it drops the selection if there is one,
// otherwise returns to the default view. It never replays history.
func (c *Controller) GoBack() {
	switch {
	case c.state.HasSelection():
		c.state.SelectedProjectID = ""
		c.state.SelectedStoryID = ""
	case c.state.CurrentView != DefaultView:
		c.state.CurrentView = DefaultView
	}
}

// SetSearch updates the catalog search term.
func (c *Controller) SetSearch(term string) {
	c.state.SearchTerm = term
}

// SelectCategory updates the catalog category filter. It reports false and
// leaves the filter alone for an unknown category.
func (c *Controller) SelectCategory(category string) bool {
	norm, ok := normalizeCategory(category)
	if !ok {
		return false
	}
	c.state.SelectedCategory = norm
	return true
}
