package dto

import "time"

// StaffRecordResponse is the API shape of a staff record.
type StaffRecordResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	PhotoURL    string `json:"photoUrl"`
	Bio         string `json:"bio"`
	OfficeHours string `json:"officeHours"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
}

// DepartmentResponse summarizes one department.
type DepartmentResponse struct {
	Name       string `json:"name"`
	StaffCount int    `json:"staffCount"`
}

// ViewStateResponse mirrors the presentation view state.
type ViewStateResponse struct {
	SearchTerm       string  `json:"searchTerm"`
	SortField        string  `json:"sortField"`
	SortDirection    string  `json:"sortDirection"`
	DepartmentFilter string  `json:"departmentFilter"`
	SelectedID       *string `json:"selectedId"`
}

// StatusResponse reports loading and error state.
type StatusResponse struct {
	IsLoading    bool       `json:"isLoading"`
	ErrorMessage *string    `json:"errorMessage"`
	LastLoadedAt *time.Time `json:"lastLoadedAt,omitempty"`
	LastOrigin   string     `json:"lastOrigin,omitempty"`
	RecordCount  int        `json:"recordCount"`
}

// SearchRequest payload.
type SearchRequest struct {
	Value string `json:"value"`
}

// SortRequest payload.
type SortRequest struct {
	Field string `json:"field"`
}

// DepartmentFilterRequest payload.
type DepartmentFilterRequest struct {
	Value string `json:"value"`
}

// SelectionRequest payload.
type SelectionRequest struct {
	ID string `json:"id"`
}
