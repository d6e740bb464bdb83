package domain

// StaffRecord models one personnel entry of the directory.
type StaffRecord struct {
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

// WithPhotoURL returns a copy of the record pointing at url.
func (r StaffRecord) WithPhotoURL(url string) StaffRecord {
	r.PhotoURL = url
	return r
}

// SearchableFields lists every text field of the record in declaration order.
func (r StaffRecord) SearchableFields() []string {
	return []string{
		r.ID,
		r.Name,
		r.Position,
		r.Department,
		r.PhotoURL,
		r.Bio,
		r.OfficeHours,
		r.Email,
		r.Phone,
		r.Location,
	}
}

// SortKey returns the text the record is ordered by for field.
func (r StaffRecord) SortKey(field SortField) string {
	if field == SortFieldDepartment {
		return r.Department
	}
	return r.Name
}

// CloneRecords copies a record slice so callers never share backing arrays.
func CloneRecords(records []StaffRecord) []StaffRecord {
	if records == nil {
		return nil
	}
	out := make([]StaffRecord, len(records))
	copy(out, records)
	return out
}
