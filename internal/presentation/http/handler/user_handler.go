package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user account and parent link HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles creating a user account
func (h *UserHandler) Create(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		Email    string  `json:"email" binding:"required,email"`
		Password string  `json:"password" binding:"required,min=8"`
		Role     string  `json:"role" binding:"required"`
		Standard *string `json:"standard"`
		Division *string `json:"division"`
		CustomID *string `json:"custom_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), principal, &service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     enum.Role(req.Role),
		Standard: req.Standard,
		Division: req.Division,
		CustomID: req.CustomID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User created successfully", user)
}

// Get handles retrieving a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), principal, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", user)
}

// ListStudents handles listing students of a class
func (h *UserHandler) ListStudents(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	standard := c.Query("standard")
	division := optionalString(c.Query("division"))

	students, err := h.userService.ListStudentsByClass(c.Request.Context(), principal, standard, division)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Students retrieved successfully", students)
}

// CreateParentLink handles linking a parent to a student
func (h *UserHandler) CreateParentLink(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		ParentID  uuid.UUID `json:"parent_id" binding:"required"`
		StudentID uuid.UUID `json:"student_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.userService.CreateParentLink(c.Request.Context(), principal, &service.CreateParentLinkInput{
		ParentID:  req.ParentID,
		StudentID: req.StudentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Parent linked successfully", link)
}

// DeleteParentLink handles unlinking a parent from a student
func (h *UserHandler) DeleteParentLink(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid parent link ID")
		return
	}

	if err := h.userService.DeleteParentLink(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
