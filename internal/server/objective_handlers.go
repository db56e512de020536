package server

import (
	"plusnine/internal/models"
	"plusnine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type objectiveRequest struct {
	ObjectiveName    string  `json:"objectiveName"`
	CurrentAmount    float64 `json:"currentAmount"`
	AmountToComplete float64 `json:"amountToComplete"`
}

func (r objectiveRequest) toInput() service.ObjectiveInput {
	return service.ObjectiveInput{
		ObjectiveName:    r.ObjectiveName,
		CurrentAmount:    r.CurrentAmount,
		AmountToComplete: r.AmountToComplete,
	}
}

// GetObjectives handles GET /Objective/GetObjectives
// @Summary List objectives
// @Description List the caller's savings objectives
// @Tags objectives
// @Produce json
// @Success 200 {array} models.Objective
// @Router /Objective/GetObjectives [get]
func (s *Server) GetObjectives(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	objectives, err := s.objectiveService.GetObjectives(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(objectives)
}

// CreateObjective handles POST /Objective/CreateObjective
// @Summary Create an objective
// @Description Create a savings objective for the caller
// @Tags objectives
// @Accept json
// @Produce json
// @Param request body objectiveRequest true "Objective"
// @Success 201 {object} models.Objective
// @Failure 400 {object} models.ErrorResponse
// @Router /Objective/CreateObjective [post]
func (s *Server) CreateObjective(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req objectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	objective, err := s.objectiveService.CreateObjective(c.Context(), userID, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(objective)
}

// UpdateObjective handles PUT /Objective/UpdateObjective/:objectiveId
// @Summary Update an objective
// @Description Update an objective the caller owns
// @Tags objectives
// @Accept json
// @Produce json
// @Param objectiveId path integer true "Objective ID"
// @Param request body objectiveRequest true "Objective"
// @Success 200 {object} models.Objective
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /Objective/UpdateObjective/{objectiveId} [put]
func (s *Server) UpdateObjective(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	objectiveID, err := s.parseID(c, "objectiveId")
	if err != nil {
		return nil
	}

	var req objectiveRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	objective, err := s.objectiveService.UpdateObjective(c.Context(), userID, objectiveID, req.toInput())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(objective)
}

// DeleteObjective handles DELETE /Objective/DeleteObjective/:objectiveId
// @Summary Delete an objective
// @Description Delete an objective the caller owns
// @Tags objectives
// @Produce json
// @Param objectiveId path integer true "Objective ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /Objective/DeleteObjective/{objectiveId} [delete]
func (s *Server) DeleteObjective(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	objectiveID, err := s.parseID(c, "objectiveId")
	if err != nil {
		return nil
	}

	if err := s.objectiveService.DeleteObjective(c.Context(), userID, objectiveID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFriendObjectives handles GET /Premium/GetFriendObjective?friendId=
// @Summary View a friend's objectives
// @Description List another user's objectives; requires premium and friendship
// @Tags premium
// @Produce json
// @Param friendId query integer true "Friend's user ID"
// @Success 200 {array} models.Objective
// @Failure 403 {object} models.ErrorResponse
// @Router /Premium/GetFriendObjective [get]
func (s *Server) GetFriendObjectives(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	friendID, err := s.parseQueryID(c, "friendId")
	if err != nil {
		return nil
	}

	objectives, err := s.objectiveService.GetFriendObjectives(c.Context(), userID, friendID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(objectives)
}
