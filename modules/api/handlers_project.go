package api

import (
	"encoding/json"
	"strings"

	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
	"github.com/taskflow/taskflow-api/modules/project"
)

// validateProjectBody applies the field-level rules for project create and
// update. Ownership and existence rules live in the project service.
func validateProjectBody(req *ProjectRequest) (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required and must not be blank", false
	}
	if len(req.Title) > maxTitleLength {
		return "Title must not exceed 255 characters", false
	}
	if len(req.Description) > maxDescriptionLength {
		return "Description must not exceed 5000 characters", false
	}
	return "", true
}

// CreateProject handles POST /api/projects.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}
	if msg, ok := validateProjectBody(&req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: msg,
		})
	}

	svcReq := project.CreateProjectRequest{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	var resp project.ProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "create",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListProjects handles GET /api/projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := project.ListProjectsRequest{UserID: userID}
	var resp project.ListProjectsResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "list",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Projects)
}

// GetProject handles GET /api/projects/:id.
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := project.GetProjectRequest{ID: c.Params("id"), UserID: userID}
	var resp project.ProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "get",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateProject handles PUT /api/projects/:id. Title and description are a
// full replacement of the stored values.
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}
	if msg, ok := validateProjectBody(&req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: msg,
		})
	}

	svcReq := project.UpdateProjectRequest{
		ID:          c.Params("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	var resp project.ProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "update",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteProject handles DELETE /api/projects/:id. Always 204 when the
// caller's project is gone afterwards, whether or not it existed.
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := project.DeleteProjectRequest{ID: c.Params("id"), UserID: userID}
	var resp project.DeleteProjectResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "delete",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetProjectProgress handles GET /api/projects/:id/progress.
func (h *Handlers) GetProjectProgress(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := project.GetProgressRequest{ID: c.Params("id"), UserID: userID}
	var resp project.ProgressResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.projectContainer, "progress",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
