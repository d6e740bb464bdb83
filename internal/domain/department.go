package domain

// Department summarizes one organizational unit present in the loaded set.
type Department struct {
	Name       string
	StaffCount int
}
