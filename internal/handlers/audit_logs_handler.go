package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List pages through the audit trail of one business, newest first. from and
// to are inclusive local dates.
func (h *AuditLogsHandler) List(c *gin.Context) {
	b, ok := owned(c, h.db, true)
	if !ok {
		return
	}

	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("business_id = ?", b.ID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	for _, bound := range []string{"from", "to"} {
		v := c.Query(bound)
		if v == "" {
			continue
		}
		day, err := timezone.ParseDate(b.Timezone, v)
		if err != nil {
			respondError(c, httperr.Field(httperr.CodeValidation, bound, "The date must use the format YYYY-MM-DD."))
			return
		}
		if bound == "from" {
			q = q.Where("created_at >= ?", day)
		} else {
			q = q.Where("created_at < ?", day.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").
		Scopes(paginate(page, perPage)).
		Find(&logs).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.Paginated(c, logs, page, perPage, total)
}
