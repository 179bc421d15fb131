package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client talks to the remote thesis-catalog HTTP API. It is stateless: each
// method issues one request and translates the remote error envelope into a
// *domain.APIError.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Config captures the settings for the remote catalog API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a Client. A non-positive timeout falls back to
// defaultTimeout; the base URL is used as-is apart from a trailing slash.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// do issues the request and decodes a successful JSON body into out. A
// non-2xx response is decoded as the {message, errors?} envelope; when the
// body is not parseable a synthetic message with the status code is used.
// A 204 (and any response when out is nil) yields no body.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr = domain.NewStatusError(resp.StatusCode)
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("catalog API error")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) delete(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postForm sends application/x-www-form-urlencoded data.
func (c *Client) postForm(ctx context.Context, method, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

// --- Statistics ---

func (c *Client) Stats(ctx context.Context) (*domain.GeneralStats, error) {
	var stats domain.GeneralStats
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Theses ---

func (c *Client) LatestTheses(ctx context.Context) ([]domain.Thesis, error) {
	var theses []domain.Thesis
	if err := c.get(ctx, "/theses/latest", &theses); err != nil {
		return nil, err
	}
	return theses, nil
}

func (c *Client) SearchTheses(ctx context.Context, params ports.ThesisSearchParams) ([]domain.Thesis, error) {
	q := url.Values{}
	q.Set("title", params.Title)
	setIfPresent(q, "author", params.Author)
	setIfPresent(q, "degree_id", params.DegreeID)
	setIfPresent(q, "specialization_id", params.SpecializationID)
	setIfPresent(q, "university_id", params.UniversityID)
	setIfPresent(q, "year", params.Year)

	var theses []domain.Thesis
	if err := c.get(ctx, "/theses/search?"+q.Encode(), &theses); err != nil {
		return nil, err
	}
	return theses, nil
}

func (c *Client) ThesisYears(ctx context.Context) ([]string, error) {
	var years []string
	if err := c.get(ctx, "/theses/years", &years); err != nil {
		return nil, err
	}
	return years, nil
}

type thesisResponse struct {
	Message string        `json:"message"`
	Thesis  domain.Thesis `json:"thesis"`
}

func (c *Client) AddThesis(ctx context.Context, upload ports.ThesisUpload) (*domain.Thesis, error) {
	body, contentType, err := thesisForm(upload, "")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/theses/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var resp thesisResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Thesis, nil
}

// UpdateThesis posts multipart data with a _method=PUT override, the
// tunnelling convention the remote API uses for file uploads on update.
func (c *Client) UpdateThesis(ctx context.Context, id int64, upload ports.ThesisUpload) (*domain.Thesis, error) {
	body, contentType, err := thesisForm(upload, "PUT")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/theses/%d", c.baseURL, id), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var resp thesisResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Thesis, nil
}

func (c *Client) ArchiveThesis(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/theses/%d", id), nil)
}

// --- Archive ---

func (c *Client) ArchivedTheses(ctx context.Context) ([]domain.ArchivedThesis, error) {
	var theses []domain.ArchivedThesis
	if err := c.get(ctx, "/archived-theses", &theses); err != nil {
		return nil, err
	}
	return theses, nil
}

func (c *Client) RestoreArchivedThesis(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/archived-theses/%d/restore", c.baseURL, id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) PermanentlyDeleteThesis(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/theses/%d", id), nil)
}

// --- Universities, specializations, degrees ---

func (c *Client) Universities(ctx context.Context) ([]domain.University, error) {
	var unis []domain.University
	if err := c.get(ctx, "/universities", &unis); err != nil {
		return nil, err
	}
	return unis, nil
}

func (c *Client) Specializations(ctx context.Context) ([]domain.Specialization, error) {
	var specs []domain.Specialization
	if err := c.get(ctx, "/specializations", &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (c *Client) Degrees(ctx context.Context) ([]domain.Degree, error) {
	var degrees []domain.Degree
	if err := c.get(ctx, "/degrees", &degrees); err != nil {
		return nil, err
	}
	return degrees, nil
}

func (c *Client) UniversitiesWithSpecializations(ctx context.Context) ([]domain.UniversityWithSpecializations, error) {
	var unis []domain.UniversityWithSpecializations
	if err := c.get(ctx, "/universities-with-specializations", &unis); err != nil {
		return nil, err
	}
	return unis, nil
}

func (c *Client) AddSpecializationToUniversity(ctx context.Context, universityID int64, name string) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("specialization_name", name); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/universities/%d/add-specialization", c.baseURL, universityID), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, nil)
}

// --- Reserved titles ---

func (c *Client) LatestReservedTitles(ctx context.Context) ([]domain.ReservedTitle, error) {
	var titles []domain.ReservedTitle
	if err := c.get(ctx, "/reserved-thesis-titles-latest", &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (c *Client) SearchReservedTitles(ctx context.Context, query string) ([]domain.ReservedTitle, error) {
	var titles []domain.ReservedTitle
	if err := c.get(ctx, "/reserved-thesis-titles-search?q="+url.QueryEscape(query), &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (c *Client) AddReservedTitle(ctx context.Context, input ports.ReservedTitleInput) (*domain.ReservedTitle, error) {
	var title domain.ReservedTitle
	if err := c.postForm(ctx, http.MethodPost, "/reserved-thesis-titles", reservedTitleForm(input), &title); err != nil {
		return nil, err
	}
	return &title, nil
}

func (c *Client) UpdateReservedTitle(ctx context.Context, id int64, input ports.ReservedTitleInput) (*domain.ReservedTitle, error) {
	var title domain.ReservedTitle
	if err := c.postForm(ctx, http.MethodPut, fmt.Sprintf("/reserved-thesis-titles/%d", id), reservedTitleForm(input), &title); err != nil {
		return nil, err
	}
	return &title, nil
}

func (c *Client) DeleteReservedTitle(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/reserved-thesis-titles/%d", id), nil)
}

// --- helpers ---

func setIfPresent(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func reservedTitleForm(input ports.ReservedTitleInput) url.Values {
	form := url.Values{}
	form.Set("title", input.Title)
	form.Set("person_name", input.PersonName)
	form.Set("university", input.University)
	form.Set("specialization", input.Specialization)
	form.Set("degree", input.Degree)
	form.Set("date", input.Date)
	return form
}

// thesisForm assembles the multipart body shared by thesis create and
// update. methodOverride, when non-empty, is tunnelled as _method.
func thesisForm(upload ports.ThesisUpload, methodOverride string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"title":             upload.Title,
		"year":              upload.Year,
		"author_name":       upload.AuthorName,
		"university_id":     strconv.FormatInt(upload.UniversityID, 10),
		"specialization_id": strconv.FormatInt(upload.SpecializationID, 10),
		"degree_id":         strconv.FormatInt(upload.DegreeID, 10),
	}
	if methodOverride != "" {
		fields["_method"] = methodOverride
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	if upload.PDF != nil {
		part, err := w.CreateFormFile("pdf", upload.PDFFileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, upload.PDF); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
