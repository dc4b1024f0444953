package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "fintra/internal/errors"
	"fintra/internal/middleware"
	"fintra/internal/push"
)

// WSHandler upgrades authenticated clients to the live notification feed.
type WSHandler struct {
	hub *push.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *push.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect handles the websocket upgrade for the live notification feed.
// Browsers cannot set headers on websocket requests, so the access token
// is also accepted as a query parameter.
// @Summary     Live notification feed
// @Description Upgrade to a websocket that receives budget alert pushes as they fire
// @Tags        notifications
// @Security    BearerAuth
// @Param       token query string false "Access token (alternative to Authorization header)"
// @Success     101 "Switching protocols"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			tokenString = ""
		}
	}
	if tokenString == "" {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	claims, err := middleware.ParseAccessToken(tokenString)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.hub.HandleRequest(c.Writer, c.Request, claims.UserID); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
}
