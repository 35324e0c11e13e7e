package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type AddressRequest struct {
	City             string  `json:"city" binding:"max=60"`
	State            string  `json:"state" binding:"max=60"`
	PostalCode       string  `json:"postal_code" binding:"max=10"`
	References       string  `json:"references"`
	Latitude         float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude        float64 `json:"longitude" binding:"min=-180,max=180"`
	FormattedAddress string  `json:"formatted_address"`
}

type BusinessRequest struct {
	Name        string          `json:"name" binding:"required,max=45"`
	PhoneNumber string          `json:"phone_number" binding:"required,phone"`
	Email       string          `json:"email" binding:"required,email,max=70"`
	Description string          `json:"description" binding:"max=255"`
	Timezone    string          `json:"timezone" binding:"omitempty,timezone"`
	Address     *AddressRequest `json:"address"`
}

func (r *AddressRequest) toModel() *models.Address {
	if r == nil {
		return nil
	}
	return &models.Address{
		City:             r.City,
		State:            r.State,
		PostalCode:       r.PostalCode,
		References:       r.References,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		FormattedAddress: r.FormattedAddress,
	}
}

// ------------------------------
// Public
// ------------------------------

func (h *BusinessHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Business{})
	if name := strings.TrimSpace(c.Query("q")); name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var businesses []models.Business
	if err := q.Preload("Address").
		Order("id ASC").
		Scopes(paginate(page, perPage)).
		Find(&businesses).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.Paginated(c, businesses, page, perPage, total)
}

func (h *BusinessHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var b models.Business
	if err := h.db.WithContext(c.Request.Context()).Preload("Address").First(&b, id).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, b)
}

// ------------------------------
// Owner
// ------------------------------

// owned loads a business of the calling owner. unscoped includes soft
// deleted rows.
func owned(c *gin.Context, db *gorm.DB, unscoped bool) (*models.Business, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	q := db.WithContext(c.Request.Context())
	if unscoped {
		q = q.Unscoped()
	}

	var b models.Business
	if err := q.Preload("Address").
		Where("id = ? AND business_owner_id = ?", id, principal(c).ID).
		First(&b).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &b, true
}

func (h *BusinessHandler) Mine(c *gin.Context) {
	h.listOwned(c, false)
}

func (h *BusinessHandler) Trashed(c *gin.Context) {
	h.listOwned(c, true)
}

func (h *BusinessHandler) listOwned(c *gin.Context, trashed bool) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Business{})
	if trashed {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}
	q = q.Where("business_owner_id = ?", principal(c).ID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var businesses []models.Business
	if err := q.Preload("Address").
		Order("id ASC").
		Scopes(paginate(page, perPage)).
		Find(&businesses).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.Paginated(c, businesses, page, perPage, total)
}

func (h *BusinessHandler) ShowMine(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	httpresp.OK(c, b)
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req BusinessRequest
	if !bindJSON(c, &req) {
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}

	b := models.Business{
		BusinessOwnerID: principal(c).ID,
		Name:            req.Name,
		PhoneNumber:     req.PhoneNumber,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Description:     req.Description,
		Timezone:        tz,
		Address:         req.Address.toModel(),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&b).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "business_already_exists", "A business with this email or phone number already exists.")
			return
		}
		respondError(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var req BusinessRequest
	if !bindJSON(c, &req) {
		return
	}

	b.Name = req.Name
	b.PhoneNumber = req.PhoneNumber
	b.Email = strings.ToLower(strings.TrimSpace(req.Email))
	b.Description = req.Description
	if req.Timezone != "" {
		b.Timezone = req.Timezone
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Address").Save(b).Error; err != nil {
			return err
		}
		if req.Address == nil {
			return nil
		}

		addr := req.Address.toModel()
		addr.BusinessID = &b.ID
		if b.Address != nil {
			addr.ID = b.Address.ID
			addr.CreatedAt = b.Address.CreatedAt
		}
		if err := tx.Save(addr).Error; err != nil {
			return err
		}
		b.Address = addr
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "business_already_exists", "A business with this email or phone number already exists.")
			return
		}
		respondError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BusinessHandler) Delete(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(b).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Business moved to trash.")
}

func (h *BusinessHandler) Restore(c *gin.Context) {
	b, ok := owned(c, h.db, true)
	if !ok {
		return
	}
	if !b.DeletedAt.Valid {
		httperr.BadRequest(c, httperr.CodeInvalidState, "The business is not in the trash.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Model(b).
		Update("deleted_at", nil).Error; err != nil {
		respondError(c, err)
		return
	}
	b.DeletedAt = gorm.DeletedAt{}
	httpresp.OK(c, b)
}

func (h *BusinessHandler) ForceDelete(c *gin.Context) {
	b, ok := owned(c, h.db, true)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Unscoped().Delete(b).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Business permanently deleted.")
}
