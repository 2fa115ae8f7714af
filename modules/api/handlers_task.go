package api

import (
	"encoding/json"
	"strings"

	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
	taskdomain "github.com/taskflow/taskflow-api/domain/task"
	"github.com/taskflow/taskflow-api/modules/task"
)

// CreateTask handles POST /api/projects/:projectId/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Title is required and must not be blank",
		})
	}
	if len(req.Title) > maxTitleLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Title must not exceed 255 characters",
		})
	}
	if len(req.Description) > maxDescriptionLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Description must not exceed 5000 characters",
		})
	}

	// Due dates are plain calendar dates; past dates are allowed.
	var dueDate *taskdomain.Date
	if req.DueDate != "" {
		parsed, err := taskdomain.ParseDate(req.DueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "bad_request",
				Message: "Due date must be in YYYY-MM-DD format",
			})
		}
		dueDate = &parsed
	}

	svcReq := task.CreateTaskRequest{
		ProjectID:   c.Params("projectId"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "create",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTasks handles GET /api/projects/:projectId/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := task.ListTasksRequest{ProjectID: c.Params("projectId"), UserID: userID}
	var resp task.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "list-for-project",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp.Tasks)
}

// ToggleTask handles PATCH /api/tasks/:id/complete.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := task.ToggleTaskRequest{ID: c.Params("id"), UserID: userID}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "toggle",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask handles PATCH /api/tasks/:id. Only fields present in the body
// are applied.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var req TaskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Title != nil && len(*req.Title) > maxTitleLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Title must not exceed 255 characters",
		})
	}
	if req.Description != nil && len(*req.Description) > maxDescriptionLength {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Description must not exceed 5000 characters",
		})
	}

	svcReq := task.UpdateTaskRequest{
		ID:          c.Params("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "update",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask handles DELETE /api/tasks/:id. Idempotent: repeats return 204.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	svcReq := task.DeleteTaskRequest{ID: c.Params("id"), UserID: userID}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "delete",
		json.Marshal, json.Unmarshal, &svcReq, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
