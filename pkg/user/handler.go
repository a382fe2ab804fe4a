package user

import (
	"context"
	"net/http"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(userService userService) Handler {
	return Handler{
		userService: userService,
	}
}

type Handler struct {
	userService userService
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, name, phone string) (*model.User, error)
}

// Me returns user details
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateMe updates the profile of the current user
func (h Handler) UpdateMe(c *gin.Context) {
	// swagger:route PUT /me updateMe
	//
	// Update profile
	//
	// Update the name and phone of the current user. Users invited by email need to complete their profile before they can become cohosts.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   400: Error
	//   401: Error
	//   415: Error
	var request UpdateProfileRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, request.Name, request.Phone)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// FindById user
func (h Handler) FindById(c *gin.Context) {
	// swagger:route GET /users/{id} findUserById
	//
	// Find user
	//
	// Find a user by its id
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200: User
	//	401: Error
	//	404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}
