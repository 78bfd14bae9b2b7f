package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ranktracker/internal/config"
	"ranktracker/internal/db"
	"ranktracker/internal/middleware"
	"ranktracker/internal/models"
	"ranktracker/internal/validation"
)

// ProjectHandler registers projects and triggers keyword submissions.
type ProjectHandler struct {
	store     ProjectStore
	submitter ProjectSubmitter
	runner    BackgroundRunner
	defaults  config.DefaultsConfig
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(store ProjectStore, submitter ProjectSubmitter, runner BackgroundRunner, defaults config.DefaultsConfig) *ProjectHandler {
	return &ProjectHandler{store: store, submitter: submitter, runner: runner, defaults: defaults}
}

type createProjectRequest struct {
	ID                string               `json:"project_id"`
	Name              string               `json:"nombre_proyecto"`
	MainDomain        string               `json:"dominio_principal"`
	Competitors       []string             `json:"competidores"`
	SubdomainsEnabled bool                 `json:"subdomain_enabled"`
	PaidEnabled       bool                 `json:"paid_enabled"`
	Language          string               `json:"idioma"`
	Country           string               `json:"pais"`
	Coordinates       string               `json:"coordenadas"`
	Keywords          []models.KeywordMeta `json:"keywords"`
}

// Create stores a new project and submits its keywords in the background.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var body createProjectRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, msg := h.buildProject(&body)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if p := middleware.GetPrincipal(c); p != nil {
		project.Owner = p.Email
		if project.Owner == "" {
			project.Owner = p.Subject
		}
	}

	if err := h.store.CreateProject(c.Context(), project); err != nil {
		if errors.Is(err, db.ErrDuplicateProject) {
			return jsonError(c, fiber.StatusConflict, "project already exists")
		}
		zap.L().Error("failed to create project", zap.String("project_id", project.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "failed to create project")
	}

	h.submitInBackground(project)

	return jsonAccepted(c, models.SubmitResponse{
		ProjectID: project.ID,
		Keywords:  len(project.Keywords),
		Message:   "project created, keywords submitted",
	})
}

// Get returns a single project.
func (h *ProjectHandler) Get(c fiber.Ctx) error {
	project, err := h.store.GetProject(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch project")
	}
	return jsonSuccess(c, project)
}

// List returns all projects, or only active ones with ?active=true.
func (h *ProjectHandler) List(c fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"
	projects, err := h.store.ListProjects(c.Context(), activeOnly)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list projects")
	}
	return jsonSuccess(c, projects)
}

// Run submits every keyword of a stored project now.
func (h *ProjectHandler) Run(c fiber.Ctx) error {
	id := c.Query("project_id")
	if id == "" {
		return jsonError(c, fiber.StatusBadRequest, "project_id is required")
	}

	project, err := h.store.GetProject(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch project")
	}
	if !project.IsActive() {
		return jsonError(c, fiber.StatusConflict, "project is inactive")
	}

	h.submitInBackground(project)

	return jsonAccepted(c, models.SubmitResponse{
		ProjectID: project.ID,
		Keywords:  len(project.Keywords),
		Message:   "keywords submitted",
	})
}

// updateProjectRequest carries the settings to change. Omitted fields keep
// their stored value.
type updateProjectRequest struct {
	ID                string                `json:"project_id"`
	Name              *string               `json:"nombre_proyecto"`
	MainDomain        *string               `json:"dominio_principal"`
	Competitors       []string              `json:"competidores"`
	SubdomainsEnabled *bool                 `json:"subdomain_enabled"`
	PaidEnabled       *bool                 `json:"paid_enabled"`
	Language          *string               `json:"idioma"`
	Country           *string               `json:"pais"`
	Coordinates       *string               `json:"coordenadas"`
	Keywords          *[]models.KeywordMeta `json:"keywords"`
}

// Update changes the tracking settings of a stored project. The main domain
// cannot change because stored rank history and comparisons are keyed on it.
func (h *ProjectHandler) Update(c fiber.Ctx) error {
	var body updateProjectRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.ID == "" {
		return jsonError(c, fiber.StatusBadRequest, "project_id is required")
	}

	current, err := h.store.GetProject(c.Context(), body.ID)
	if err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch project")
	}
	if body.MainDomain != nil && validation.NormalizeDomain(*body.MainDomain) != current.MainDomain {
		return jsonError(c, fiber.StatusBadRequest, "dominio_principal cannot be changed")
	}

	merged := createProjectRequest{
		ID:                current.ID,
		Name:              valueOr(body.Name, current.Name),
		MainDomain:        current.MainDomain,
		Competitors:       current.Competitors,
		SubdomainsEnabled: valueOr(body.SubdomainsEnabled, current.SubdomainsEnabled),
		PaidEnabled:       valueOr(body.PaidEnabled, current.PaidEnabled),
		Language:          valueOr(body.Language, current.Language),
		Country:           valueOr(body.Country, current.Country),
		Coordinates:       valueOr(body.Coordinates, current.Coordinates),
		Keywords:          valueOr(body.Keywords, current.Keywords),
	}
	if body.Competitors != nil {
		merged.Competitors = body.Competitors
	}

	project, msg := h.buildProject(&merged)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	project.Status = current.Status
	project.Owner = current.Owner
	project.CreatedAt = current.CreatedAt

	if err := h.store.UpdateProject(c.Context(), project); err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		zap.L().Error("failed to update project", zap.String("project_id", project.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "failed to update project")
	}

	return jsonSuccess(c, project)
}

// UpdateStatus activates or deactivates a project. Inactive projects are not
// submitted by manual runs.
func (h *ProjectHandler) UpdateStatus(c fiber.Ctx) error {
	var body struct {
		ID     string `json:"project_id"`
		Status *int   `json:"estado"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.ID == "" {
		return jsonError(c, fiber.StatusBadRequest, "project_id is required")
	}
	if body.Status == nil || (*body.Status != models.ProjectActive && *body.Status != models.ProjectInactive) {
		return jsonError(c, fiber.StatusBadRequest, "estado must be 0 or 1")
	}

	if err := h.store.UpdateProjectStatus(c.Context(), body.ID, *body.Status); err != nil {
		if errors.Is(err, db.ErrProjectNotFound) {
			return jsonError(c, fiber.StatusNotFound, "project not found")
		}
		zap.L().Error("failed to update project status", zap.String("project_id", body.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "failed to update project status")
	}

	return jsonSuccess(c, fiber.Map{
		"project_id": body.ID,
		"estado":     *body.Status,
	})
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func (h *ProjectHandler) submitInBackground(project *models.Project) {
	h.runner.Go("submit "+project.ID, func(ctx context.Context) {
		summary := h.submitter.Submit(ctx, project)
		zap.L().Info("project submission finished",
			zap.String("project_id", summary.ProjectID),
			zap.Int("keywords", summary.Keywords),
			zap.Int64("submitted", summary.Submitted),
			zap.Int64("failed", summary.Failed),
		)
	})
}

// buildProject validates and normalizes a registration request. It returns a
// non-empty message when the request is rejected.
func (h *ProjectHandler) buildProject(body *createProjectRequest) (*models.Project, string) {
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return nil, "nombre_proyecto is required"
	}

	id := strings.TrimSpace(body.ID)
	if id == "" {
		id = uuid.NewString()
	} else if !validation.ValidateProjectID(id) {
		return nil, "invalid project_id"
	}

	mainDomain := validation.NormalizeDomain(body.MainDomain)
	if ok, msg := validation.ValidateDomain(mainDomain); !ok {
		return nil, "dominio_principal: " + msg
	}

	seenDomains := map[string]bool{mainDomain: true}
	competitors := make([]string, 0, len(body.Competitors))
	for _, raw := range body.Competitors {
		d := validation.NormalizeDomain(raw)
		if d == "" || seenDomains[d] {
			continue
		}
		if ok, msg := validation.ValidateDomain(d); !ok {
			return nil, "competidores: " + msg
		}
		seenDomains[d] = true
		competitors = append(competitors, d)
	}

	seenKeywords := make(map[string]bool, len(body.Keywords))
	keywords := make([]models.KeywordMeta, 0, len(body.Keywords))
	for _, kw := range body.Keywords {
		kw.Keyword = strings.TrimSpace(kw.Keyword)
		if ok, msg := validation.ValidateKeyword(kw.Keyword); !ok {
			return nil, "keywords: " + msg
		}
		key := strings.ToLower(kw.Keyword)
		if seenKeywords[key] {
			continue
		}
		seenKeywords[key] = true
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return nil, "at least one keyword is required"
	}

	coords := firstNonEmpty(strings.TrimSpace(body.Coordinates), h.defaults.Coordinates)
	if ok, msg := validation.ValidateCoordinates(coords); !ok {
		return nil, "coordenadas: " + msg
	}

	return &models.Project{
		ID:                id,
		Name:              name,
		MainDomain:        mainDomain,
		Competitors:       competitors,
		SubdomainsEnabled: body.SubdomainsEnabled,
		PaidEnabled:       body.PaidEnabled,
		Language:          firstNonEmpty(strings.TrimSpace(body.Language), h.defaults.Language, "Spanish"),
		Country:           firstNonEmpty(strings.TrimSpace(body.Country), h.defaults.Country),
		Coordinates:       coords,
		Keywords:          keywords,
		Status:            models.ProjectActive,
	}, ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
