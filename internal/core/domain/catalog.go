package domain

import "fmt"

// Types mirrored from the remote catalog API's JSON contract. The admin
// service never owns these records; it only relays them.

// GeneralStats is the dashboard summary returned by GET /stats.
type GeneralStats struct {
	TotalTheses          int `json:"total_theses"`
	MasterTheses         int `json:"master_theses"`
	PhdTheses            int `json:"phd_theses"`
	TotalAuthors         int `json:"total_authors"`
	TotalUniversities    int `json:"total_universities"`
	TotalSpecializations int `json:"total_specializations"`
}

type University struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Specialization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Degree struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Thesis struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Year           string         `json:"year"`
	PDFPath        string         `json:"pdf_path"`
	University     University     `json:"university"`
	Specialization Specialization `json:"specialization"`
	Degree         Degree         `json:"degree"`
	Author         Author         `json:"author"`
}

// ArchivedThesis shares the thesis shape; archived records only differ in
// which collection the remote API serves them from.
type ArchivedThesis = Thesis

// UniversityWithSpecializations is the admin view of a university and its
// attached specializations.
type UniversityWithSpecializations struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Specializations []Specialization `json:"specializations"`
}

type ReservedTitle struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	PersonName     string `json:"person_name"`
	University     string `json:"university"`
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Date           string `json:"date"`
}

// APIError is the remote catalog API's error envelope. Any non-2xx response
// decodes into this shape; when the body is not parseable a synthetic
// message carrying the HTTP status is substituted.
type APIError struct {
	StatusCode int                 `json:"-"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewStatusError builds the fallback APIError for an unparseable body.
func NewStatusError(status int) *APIError {
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP error! status: %d", status),
	}
}
