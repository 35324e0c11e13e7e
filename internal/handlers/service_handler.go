package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type ServiceHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db, now: time.Now}
}

// --------- Requests ---------

type ServiceRequest struct {
	Name                      string  `json:"name" binding:"required,max=45"`
	Description               string  `json:"description"`
	Price                     float64 `json:"price" binding:"gte=0"`
	Currency                  string  `json:"currency" binding:"required,currency"`
	Duration                  int     `json:"duration" binding:"required,gt=0"`
	MaxServicesSimultaneously int     `json:"max_services_simultaneously" binding:"required,gt=0"`
	Category                  string  `json:"category" binding:"max=50"`
}

type OfferRequest struct {
	DiscountPrice float64   `json:"discount_price" binding:"gte=0"`
	OfferStart    time.Time `json:"offer_start" binding:"required"`
	OfferEnd      time.Time `json:"offer_end" binding:"required"`
	Description   string    `json:"description"`
}

type serviceView struct {
	models.Service
	EffectivePrice float64 `json:"effective_price"`
}

func (h *ServiceHandler) view(s models.Service) serviceView {
	return serviceView{Service: s, EffectivePrice: s.EffectivePrice(h.now())}
}

// validateOffer checks an offer against the price it discounts.
func validateOffer(req OfferRequest, price float64) error {
	if !req.OfferStart.Before(req.OfferEnd) {
		return httperr.Field(httperr.CodeValidation, "offer_end", "The offer must end after it starts.")
	}
	if req.DiscountPrice >= price {
		return httperr.Field(httperr.CodeValidation, "discount_price", "The discount price must be lower than the service price.")
	}
	return nil
}

// --------- Public ---------

func (h *ServiceHandler) ListByBusiness(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Offer").
		Where("business_id = ?", businessID)

	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query := strings.TrimSpace(c.Query("query")); query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		respondError(c, err)
		return
	}

	out := make([]serviceView, 0, len(services))
	for _, s := range services {
		out = append(out, h.view(s))
	}
	httpresp.List(c, out)
}

func (h *ServiceHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var s models.Service
	if err := h.db.WithContext(c.Request.Context()).Preload("Offer").First(&s, id).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, h.view(s))
}

// --------- Owner ---------

func (h *ServiceHandler) ownedService(c *gin.Context) (*models.Service, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var s models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Offer").
		Joins("JOIN businesses ON businesses.id = services.business_id AND businesses.deleted_at IS NULL").
		Where("services.id = ? AND businesses.business_owner_id = ?", id, principal(c).ID).
		First(&s).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &s, true
}

func (h *ServiceHandler) Create(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}

	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s := models.Service{
		BusinessID:                b.ID,
		Name:                      req.Name,
		Description:               req.Description,
		Price:                     req.Price,
		Currency:                  strings.ToUpper(req.Currency),
		Duration:                  req.Duration,
		MaxServicesSimultaneously: req.MaxServicesSimultaneously,
		Category:                  req.Category,
	}
	if s.Category == "" {
		s.Category = "services"
	}

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&s).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, h.view(s))
}

func (h *ServiceHandler) Update(c *gin.Context) {
	s, ok := h.ownedService(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if s.Offer != nil && s.Offer.DiscountPrice >= req.Price {
		httperr.Unprocessable(c, httperr.CodeValidation, "The price must stay above the current offer price.")
		return
	}

	s.Name = req.Name
	s.Description = req.Description
	s.Price = req.Price
	s.Currency = strings.ToUpper(req.Currency)
	s.Duration = req.Duration
	s.MaxServicesSimultaneously = req.MaxServicesSimultaneously
	if req.Category != "" {
		s.Category = req.Category
	}

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Save(s).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, h.view(*s))
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	s, ok := h.ownedService(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(s).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Service deleted.")
}

// PutOffer creates or replaces the single offer of a service.
func (h *ServiceHandler) PutOffer(c *gin.Context) {
	s, ok := h.ownedService(c)
	if !ok {
		return
	}

	var req OfferRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validateOffer(req, s.Price); err != nil {
		respondError(c, err)
		return
	}

	offer := models.Offer{
		ServiceID:     s.ID,
		DiscountPrice: req.DiscountPrice,
		OfferStart:    req.OfferStart,
		OfferEnd:      req.OfferEnd,
		Description:   req.Description,
	}
	if s.Offer != nil {
		offer.ID = s.Offer.ID
		offer.CreatedAt = s.Offer.CreatedAt
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&offer).Error; err != nil {
		respondError(c, err)
		return
	}

	s.Offer = &offer
	httpresp.OK(c, h.view(*s))
}

func (h *ServiceHandler) DeleteOffer(c *gin.Context) {
	s, ok := h.ownedService(c)
	if !ok {
		return
	}
	if s.Offer == nil {
		httperr.NotFound(c, httperr.CodeNotFound, "The service has no offer.")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(s.Offer).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Offer deleted.")
}
