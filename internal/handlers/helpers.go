package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// bindJSON binds the body and writes a 422 naming the first bad field.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fe := validators.FirstError(err)
		c.AbortWithStatusJSON(httperr.StatusFor(httperr.CodeValidation), httperr.HTTPError{
			Status:  "error",
			Code:    httperr.CodeValidation,
			Message: fe.Message,
			Field:   fe.Field,
		})
		return false
	}
	return true
}

func parseID(v string) (uint, bool) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		httperr.Unprocessable(c, httperr.CodeValidation, "The "+name+" must be a positive integer.")
		return 0, false
	}
	return id, true
}

// pagination reads page and per_page. per_page must be positive when given.
func pagination(c *gin.Context) (page, perPage int, ok bool) {
	page, perPage = 1, defaultPerPage

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httperr.Unprocessable(c, httperr.CodeValidation, "The page must be a positive integer.")
			return 0, 0, false
		}
		page = n
	}
	if v := c.Query("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httperr.Unprocessable(c, httperr.CodeValidation, "The per_page value must be a positive integer.")
			return 0, 0, false
		}
		perPage = n
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, true
}

func paginate(page, perPage int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

func principal(c *gin.Context) auth.Principal {
	return middleware.Principal(c)
}

// respondError writes business errors with their own status and everything
// else as a 500.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if httperr.IsUniqueViolation(err) {
		err = httperr.ErrBusiness(httperr.CodeConflict)
	}
	if _, ok := httperr.AsBusiness(err); !ok {
		logging.From(c).Error("request failed", "err", err, "path", c.FullPath())
	}
	httperr.FromError(c, err, "internal_error", "Something went wrong.")
}
