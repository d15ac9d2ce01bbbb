package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/enum"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
	ContextUserRole = "user_role"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserName extracts the display name from the Gin context
func GetUserName(c *gin.Context) string {
	return c.GetString(ContextUserName)
}

// GetUserRole extracts the user role from the Gin context
func GetUserRole(c *gin.Context) enum.UserRole {
	return enum.UserRole(c.GetString(ContextUserRole))
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.UserRoleAdmin
}
