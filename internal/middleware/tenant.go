package middleware

import (
	"net/http"
	"strings"

	"campushub/internal/model"
	"campushub/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const institutionContextKey = "institution"

// ResolveInstitution maps the :code path segment to a persisted Institution
// and attaches it to the request context. Unknown codes are rejected before
// any tenant-scoped handler runs.
func ResolveInstitution(institutions repository.IInstitutionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Param("code"))
		if code == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, model.NewErrorResponse("Invalid institution code. Please check and try again."))
			return
		}

		institution, err := institutions.FindByCode(c.Request.Context(), code)
		if err != nil {
			zap.L().Error("institution lookup failed", zap.String("code", code), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, model.NewErrorResponse("Server Error"))
			return
		}
		if institution == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, model.NewErrorResponse("Invalid institution code. Please check and try again."))
			return
		}

		c.Set(institutionContextKey, institution)
		c.Next()
	}
}

// GetInstitution extracts the resolved institution from the gin context.
func GetInstitution(c *gin.Context) (*model.Institution, bool) {
	value, ok := c.Get(institutionContextKey)
	if !ok {
		return nil, false
	}
	institution, ok := value.(*model.Institution)
	return institution, ok
}
