package ports

import (
	"context"
	"io"

	"github.com/c-library/catalog-admin/internal/core/domain"
)

// ThesisSearchParams are the query parameters for the thesis search endpoint.
// Only non-empty fields are sent.
type ThesisSearchParams struct {
	Title            string
	Author           string
	DegreeID         string
	SpecializationID string
	UniversityID     string
	Year             string
}

// ThesisUpload carries the multipart fields for creating or updating a
// thesis. PDF may be nil on update when the file is unchanged.
type ThesisUpload struct {
	Title            string
	Year             string
	AuthorName       string
	UniversityID     int64
	SpecializationID int64
	DegreeID         int64
	PDFFileName      string
	PDF              io.Reader
}

// ReservedTitleInput carries the form fields for reserved-title writes.
type ReservedTitleInput struct {
	Title          string
	PersonName     string
	University     string
	Specialization string
	Degree         string
	Date           string
}

// CatalogClient is the boundary to the remote thesis-catalog HTTP API. All
// persistence and catalog business rules live on the remote side; methods
// here relay requests and translate the remote error envelope.
type CatalogClient interface {
	Stats(ctx context.Context) (*domain.GeneralStats, error)

	LatestTheses(ctx context.Context) ([]domain.Thesis, error)
	SearchTheses(ctx context.Context, params ThesisSearchParams) ([]domain.Thesis, error)
	ThesisYears(ctx context.Context) ([]string, error)
	AddThesis(ctx context.Context, upload ThesisUpload) (*domain.Thesis, error)
	UpdateThesis(ctx context.Context, id int64, upload ThesisUpload) (*domain.Thesis, error)
	ArchiveThesis(ctx context.Context, id int64) error

	ArchivedTheses(ctx context.Context) ([]domain.ArchivedThesis, error)
	RestoreArchivedThesis(ctx context.Context, id int64) error
	PermanentlyDeleteThesis(ctx context.Context, id int64) error

	Universities(ctx context.Context) ([]domain.University, error)
	Specializations(ctx context.Context) ([]domain.Specialization, error)
	Degrees(ctx context.Context) ([]domain.Degree, error)
	UniversitiesWithSpecializations(ctx context.Context) ([]domain.UniversityWithSpecializations, error)
	AddSpecializationToUniversity(ctx context.Context, universityID int64, name string) error

	LatestReservedTitles(ctx context.Context) ([]domain.ReservedTitle, error)
	SearchReservedTitles(ctx context.Context, query string) ([]domain.ReservedTitle, error)
	AddReservedTitle(ctx context.Context, input ReservedTitleInput) (*domain.ReservedTitle, error)
	UpdateReservedTitle(ctx context.Context, id int64, input ReservedTitleInput) (*domain.ReservedTitle, error)
	DeleteReservedTitle(ctx context.Context, id int64) error
}
