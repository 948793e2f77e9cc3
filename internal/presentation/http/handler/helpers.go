package handler

import (
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// GetPrincipal extracts the authenticated principal from the Gin context
func GetPrincipal(c *gin.Context) (entity.Principal, bool) {
	value, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		return entity.Principal{}, false
	}
	principal, ok := value.(entity.Principal)
	return principal, ok
}

// parseDate parses a YYYY-MM-DD date string; nil or empty yields nil
func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalString returns nil for empty query values
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
