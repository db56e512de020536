package server

import (
	"time"

	"plusnine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /Friend/Search?username=
// @Summary Search users
// @Description Find users by username fragment
// @Tags friends
// @Produce json
// @Param username query string true "Username fragment"
// @Success 200 {array} models.PublicUser
// @Failure 400 {object} models.ErrorResponse
// @Router /Friend/Search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	query := c.Query("username")

	results, err := s.friendService.SearchUsers(c.Context(), userID, query, maxSearchLimit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(results)
}

// GetIncomingRequests handles GET /Friend/IncomingRequests
// @Summary Incoming friend requests
// @Description List pending requests addressed to the caller
// @Tags friends
// @Produce json
// @Success 200 {array} models.FriendRequestView
// @Router /Friend/IncomingRequests [get]
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetIncomingRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(models.ViewRequests(requests))
}

// GetSentRequests handles GET /Friend/SentRequests
// @Summary Sent friend requests
// @Description List pending requests the caller has sent
// @Tags friends
// @Produce json
// @Success 200 {array} models.FriendRequestView
// @Router /Friend/SentRequests [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.GetSentRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(models.ViewRequests(requests))
}

// GetFriends handles GET /Friend/GetFriends
// @Summary List friends
// @Description List the caller's friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.PublicUser
// @Router /Friend/GetFriends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	friends, err := s.friendService.GetFriends(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	publics := make([]models.PublicUser, 0, len(friends))
	for _, f := range friends {
		publics = append(publics, f.Public())
	}
	return c.JSON(publics)
}

// SendFriendRequest handles POST /Friend/SendRequest
// @Summary Send a friend request
// @Description Create a pending friend request to another user
// @Tags friends
// @Accept json
// @Produce json
// @Param request body object{receiverId=integer} true "Receiver"
// @Success 200 {object} models.FriendRequestView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /Friend/SendRequest [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ReceiverID uint `json:"receiverId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Receiver ID is required"))
	}

	request, err := s.friendService.SendFriendRequest(c.Context(), userID, req.ReceiverID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Notify the receiver so their UI updates immediately.
	s.publishUserEvent(request.ReceiverID, EventFriendRequestReceived, map[string]interface{}{
		"request_id": request.ID,
		"from_user":  request.Sender.Public(),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(request.View())
}

// AcceptFriendRequest handles PUT /Friend/Accept/:requestId
// @Summary Accept a friend request
// @Description Accept a pending request addressed to the caller
// @Tags friends
// @Produce json
// @Param requestId path integer true "Request ID"
// @Success 200 {object} models.FriendRequestView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /Friend/Accept/{requestId} [put]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.AcceptFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(request.SenderID, EventFriendRequestAccepted, map[string]interface{}{
		"request_id":  request.ID,
		"friend_user": request.Receiver.Public(),
		"accepted_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(request.View())
}

// RejectFriendRequest handles PUT /Friend/Reject/:requestId
// @Summary Reject a friend request
// @Description Reject a pending request addressed to the caller
// @Tags friends
// @Produce json
// @Param requestId path integer true "Request ID"
// @Success 200 {object} models.FriendRequestView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /Friend/Reject/{requestId} [put]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.friendService.RejectFriendRequest(c.Context(), userID, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(request.SenderID, EventFriendRequestRejected, map[string]interface{}{
		"request_id":  request.ID,
		"by_user_id":  userID,
		"rejected_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(request.View())
}
