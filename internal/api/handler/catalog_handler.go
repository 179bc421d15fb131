package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c-library/catalog-admin/internal/api/metrics"
	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// StatsCache abstracts the Redis-backed dashboard cache so the handler works
// without Redis (nil disables caching) and tests can stub it.
type StatsCache interface {
	Get(ctx context.Context) (*domain.GeneralStats, error)
	Set(ctx context.Context, stats *domain.GeneralStats) error
}

// CatalogHandler relays catalog operations to the remote thesis-catalog API.
// Authorization happens in route middleware; this handler only maps HTTP
// shapes to client calls and records relay metrics.
type CatalogHandler struct {
	client ports.CatalogClient
	cache  StatsCache
	logger zerolog.Logger
}

func NewCatalogHandler(client ports.CatalogClient, cache StatsCache, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{client: client, cache: cache, logger: logger}
}

// observe wraps a relay call with the shared metrics.
func observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CatalogRequestsTotal.WithLabelValues(operation, outcome).Inc()
	return err
}

// --- Statistics ---

// Stats returns the dashboard statistics, served from the short-TTL cache
// when warm.
//
// @Summary      Dashboard statistics
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.GeneralStats
// @Router       /v1/stats [get]
func (h *CatalogHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cache != nil {
		cached, err := h.cache.Get(ctx)
		if err != nil {
			h.logger.Warn().Err(err).Msg("stats cache read failed")
		}
		if cached != nil {
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return c.JSON(http.StatusOK, cached)
		}
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	var stats *domain.GeneralStats
	err := observe("stats", func() error {
		var err error
		stats, err = h.client.Stats(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, stats); err != nil {
			h.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return c.JSON(http.StatusOK, stats)
}

// --- Theses ---

// LatestTheses lists the most recent theses.
//
// @Summary      Latest theses
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Thesis
// @Router       /v1/theses/latest [get]
func (h *CatalogHandler) LatestTheses(c echo.Context) error {
	var theses []domain.Thesis
	err := observe("latest_theses", func() error {
		var err error
		theses, err = h.client.LatestTheses(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, theses)
}

// SearchTheses searches theses by title plus optional filters.
//
// @Summary      Search theses
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        title              query  string  true   "Title substring"
// @Param        author             query  string  false  "Author name"
// @Param        degree_id          query  string  false  "Degree filter"
// @Param        specialization_id  query  string  false  "Specialization filter"
// @Param        university_id      query  string  false  "University filter"
// @Param        year               query  string  false  "Year filter"
// @Success      200  {array}  domain.Thesis
// @Router       /v1/theses/search [get]
func (h *CatalogHandler) SearchTheses(c echo.Context) error {
	params := ports.ThesisSearchParams{
		Title:            c.QueryParam("title"),
		Author:           c.QueryParam("author"),
		DegreeID:         c.QueryParam("degree_id"),
		SpecializationID: c.QueryParam("specialization_id"),
		UniversityID:     c.QueryParam("university_id"),
		Year:             c.QueryParam("year"),
	}

	var theses []domain.Thesis
	err := observe("search_theses", func() error {
		var err error
		theses, err = h.client.SearchTheses(c.Request().Context(), params)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, theses)
}

// ThesisYears lists the distinct publication years.
//
// @Summary      Thesis years
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Router       /v1/theses/years [get]
func (h *CatalogHandler) ThesisYears(c echo.Context) error {
	var years []string
	err := observe("thesis_years", func() error {
		var err error
		years, err = h.client.ThesisYears(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, years)
}

// AddThesis relays a multipart thesis upload.
//
// @Summary      Create a thesis
// @Tags         catalog
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Thesis
// @Router       /v1/theses [post]
func (h *CatalogHandler) AddThesis(c echo.Context) error {
	upload, closeFn, err := thesisUploadFromForm(c, true)
	if err != nil {
		return err
	}
	defer closeFn()

	var thesis *domain.Thesis
	err = observe("add_thesis", func() error {
		var err error
		thesis, err = h.client.AddThesis(c.Request().Context(), upload)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, thesis)
}

// UpdateThesis relays a multipart thesis update; the PDF is optional.
//
// @Summary      Update a thesis
// @Tags         catalog
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Thesis id"
// @Success      200  {object}  domain.Thesis
// @Router       /v1/theses/{id} [put]
func (h *CatalogHandler) UpdateThesis(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	upload, closeFn, err := thesisUploadFromForm(c, false)
	if err != nil {
		return err
	}
	defer closeFn()

	var thesis *domain.Thesis
	err = observe("update_thesis", func() error {
		var err error
		thesis, err = h.client.UpdateThesis(c.Request().Context(), id, upload)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, thesis)
}

// ArchiveThesis moves a thesis to the archive.
//
// @Summary      Archive a thesis
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Thesis id"
// @Success      200  {object}  messageResponse
// @Router       /v1/theses/{id} [delete]
func (h *CatalogHandler) ArchiveThesis(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := observe("archive_thesis", func() error {
		return h.client.ArchiveThesis(c.Request().Context(), id)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "thesis archived"})
}

// --- Archive ---

// ArchivedTheses lists the archived theses.
//
// @Summary      List archived theses
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Thesis
// @Router       /v1/archive [get]
func (h *CatalogHandler) ArchivedTheses(c echo.Context) error {
	var theses []domain.ArchivedThesis
	err := observe("archived_theses", func() error {
		var err error
		theses, err = h.client.ArchivedTheses(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, theses)
}

// RestoreArchivedThesis restores an archived thesis to the live catalog.
//
// @Summary      Restore an archived thesis
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Thesis id"
// @Success      200  {object}  messageResponse
// @Router       /v1/archive/{id}/restore [post]
func (h *CatalogHandler) RestoreArchivedThesis(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := observe("restore_archived_thesis", func() error {
		return h.client.RestoreArchivedThesis(c.Request().Context(), id)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "thesis restored"})
}

// PermanentlyDeleteThesis removes an archived thesis for good.
//
// @Summary      Permanently delete a thesis
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Thesis id"
// @Success      200  {object}  messageResponse
// @Router       /v1/archive/{id} [delete]
func (h *CatalogHandler) PermanentlyDeleteThesis(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := observe("permanently_delete_thesis", func() error {
		return h.client.PermanentlyDeleteThesis(c.Request().Context(), id)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "thesis permanently deleted"})
}

// --- Universities and specializations ---

// Universities lists all universities.
//
// @Summary      List universities
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.University
// @Router       /v1/universities [get]
func (h *CatalogHandler) Universities(c echo.Context) error {
	var unis []domain.University
	err := observe("universities", func() error {
		var err error
		unis, err = h.client.Universities(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unis)
}

// Specializations lists all specializations.
//
// @Summary      List specializations
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Specialization
// @Router       /v1/specializations [get]
func (h *CatalogHandler) Specializations(c echo.Context) error {
	var specs []domain.Specialization
	err := observe("specializations", func() error {
		var err error
		specs, err = h.client.Specializations(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, specs)
}

// Degrees lists all degrees.
//
// @Summary      List degrees
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Degree
// @Router       /v1/degrees [get]
func (h *CatalogHandler) Degrees(c echo.Context) error {
	var degrees []domain.Degree
	err := observe("degrees", func() error {
		var err error
		degrees, err = h.client.Degrees(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, degrees)
}

// UniversitiesWithSpecializations returns the admin view of universities and
// their attached specializations.
//
// @Summary      Universities with specializations
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.UniversityWithSpecializations
// @Router       /v1/universities-with-specializations [get]
func (h *CatalogHandler) UniversitiesWithSpecializations(c echo.Context) error {
	var unis []domain.UniversityWithSpecializations
	err := observe("universities_with_specializations", func() error {
		var err error
		unis, err = h.client.UniversitiesWithSpecializations(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unis)
}

type addSpecializationRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddSpecialization attaches a new specialization to a university.
//
// @Summary      Add a specialization to a university
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                       true  "University id"
// @Param        body  body  addSpecializationRequest  true  "Specialization name"
// @Success      200  {object}  messageResponse
// @Router       /v1/universities/{id}/specializations [post]
func (h *CatalogHandler) AddSpecialization(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req addSpecializationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := observe("add_specialization", func() error {
		return h.client.AddSpecializationToUniversity(c.Request().Context(), id, req.Name)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "specialization added"})
}

// --- Reserved titles ---

// LatestReservedTitles lists the most recent reserved titles.
//
// @Summary      Latest reserved titles
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.ReservedTitle
// @Router       /v1/reserved-titles [get]
func (h *CatalogHandler) LatestReservedTitles(c echo.Context) error {
	var titles []domain.ReservedTitle
	err := observe("latest_reserved_titles", func() error {
		var err error
		titles, err = h.client.LatestReservedTitles(c.Request().Context())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, titles)
}

// SearchReservedTitles searches reserved titles.
//
// @Summary      Search reserved titles
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Search query"
// @Success      200  {array}  domain.ReservedTitle
// @Router       /v1/reserved-titles/search [get]
func (h *CatalogHandler) SearchReservedTitles(c echo.Context) error {
	var titles []domain.ReservedTitle
	err := observe("search_reserved_titles", func() error {
		var err error
		titles, err = h.client.SearchReservedTitles(c.Request().Context(), c.QueryParam("q"))
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, titles)
}

type reservedTitleRequest struct {
	Title          string `json:"title"          validate:"required"`
	PersonName     string `json:"person_name"    validate:"required"`
	University     string `json:"university"     validate:"required"`
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Date           string `json:"date"`
}

func (r reservedTitleRequest) toInput() ports.ReservedTitleInput {
	return ports.ReservedTitleInput{
		Title:          r.Title,
		PersonName:     r.PersonName,
		University:     r.University,
		Specialization: r.Specialization,
		Degree:         r.Degree,
		Date:           r.Date,
	}
}

// AddReservedTitle reserves a new thesis title.
//
// @Summary      Reserve a title
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reservedTitleRequest  true  "Reservation"
// @Success      201   {object}  domain.ReservedTitle
// @Router       /v1/reserved-titles [post]
func (h *CatalogHandler) AddReservedTitle(c echo.Context) error {
	var req reservedTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var title *domain.ReservedTitle
	err := observe("add_reserved_title", func() error {
		var err error
		title, err = h.client.AddReservedTitle(c.Request().Context(), req.toInput())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, title)
}

// UpdateReservedTitle updates an existing reservation.
//
// @Summary      Update a reserved title
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Reservation id"
// @Param        body  body      reservedTitleRequest  true  "Reservation"
// @Success      200   {object}  domain.ReservedTitle
// @Router       /v1/reserved-titles/{id} [put]
func (h *CatalogHandler) UpdateReservedTitle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req reservedTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var title *domain.ReservedTitle
	err = observe("update_reserved_title", func() error {
		var err error
		title, err = h.client.UpdateReservedTitle(c.Request().Context(), id, req.toInput())
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, title)
}

// DeleteReservedTitle removes a reservation.
//
// @Summary      Delete a reserved title
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Reservation id"
// @Success      200  {object}  messageResponse
// @Router       /v1/reserved-titles/{id} [delete]
func (h *CatalogHandler) DeleteReservedTitle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := observe("delete_reserved_title", func() error {
		return h.client.DeleteReservedTitle(c.Request().Context(), id)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "reserved title deleted"})
}

// thesisUploadFromForm extracts the multipart fields shared by thesis create
// and update. The PDF is required on create, optional on update; the caller
// must invoke the returned func to release the file handle.
func thesisUploadFromForm(c echo.Context, pdfRequired bool) (ports.ThesisUpload, func(), error) {
	closeFn := func() {}

	universityID, _ := strconv.ParseInt(c.FormValue("university_id"), 10, 64)
	specializationID, _ := strconv.ParseInt(c.FormValue("specialization_id"), 10, 64)
	degreeID, _ := strconv.ParseInt(c.FormValue("degree_id"), 10, 64)

	upload := ports.ThesisUpload{
		Title:            c.FormValue("title"),
		Year:             c.FormValue("year"),
		AuthorName:       c.FormValue("author_name"),
		UniversityID:     universityID,
		SpecializationID: specializationID,
		DegreeID:         degreeID,
	}
	if upload.Title == "" {
		return upload, closeFn, echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		if pdfRequired {
			return upload, closeFn, echo.NewHTTPError(http.StatusBadRequest, "pdf file is required")
		}
		return upload, closeFn, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return upload, closeFn, echo.NewHTTPError(http.StatusBadRequest, "unreadable pdf upload")
	}
	upload.PDFFileName = fileHeader.Filename
	upload.PDF = file
	return upload, func() { _ = file.Close() }, nil
}
