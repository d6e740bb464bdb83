package domain

import "strings"

// SortField enumerates the orderable record fields.
type SortField string

const (
	SortFieldName       SortField = "name"
	SortFieldDepartment SortField = "department"
)

// Valid reports whether the field is orderable.
func (f SortField) Valid() bool {
	return f == SortFieldName || f == SortFieldDepartment
}

// ParseSortField normalizes user input into a SortField.
func ParseSortField(raw string) (SortField, bool) {
	field := SortField(strings.ToLower(strings.TrimSpace(raw)))
	return field, field.Valid()
}

// SortDirection enumerates ordering directions.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// ParseSortDirection normalizes user input into a SortDirection.
func ParseSortDirection(raw string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc", "ascending":
		return SortAscending, true
	case "desc", "descending":
		return SortDescending, true
	}
	return "", false
}

// ViewQuery holds the inputs the displayed set is derived from.
type ViewQuery struct {
	SearchTerm       string        `json:"searchTerm"`
	SortField        SortField     `json:"sortField"`
	SortDirection    SortDirection `json:"sortDirection"`
	DepartmentFilter string        `json:"departmentFilter"`
}

// DefaultViewQuery is the state restored by a reset.
func DefaultViewQuery() ViewQuery {
	return ViewQuery{
		SortField:     SortFieldName,
		SortDirection: SortAscending,
	}
}

// ViewState is the UI-facing state of the directory.
type ViewState struct {
	ViewQuery
	SelectedID *string `json:"selectedId,omitempty"`
}

// DefaultViewState returns the view with no search, filter or selection.
func DefaultViewState() ViewState {
	return ViewState{ViewQuery: DefaultViewQuery()}
}
