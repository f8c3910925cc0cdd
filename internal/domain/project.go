package domain

// MaxProjectNameLength bounds project names, matching the column width.
const MaxProjectNameLength = 100

// Project represents a charitable funding target.
type Project struct {
	Fundable
	Name        string
	Description string
}
