package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type PetHandler struct {
	db *gorm.DB
}

func NewPetHandler(db *gorm.DB) *PetHandler {
	return &PetHandler{db: db}
}

type PetRequest struct {
	Name      string `json:"name" binding:"required,max=60"`
	Species   string `json:"species" binding:"required,max=40"`
	Breed     string `json:"breed" binding:"max=60"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Color     string `json:"color" binding:"max=40"`
	Gender    string `json:"gender" binding:"omitempty,oneof=male female unknown"`
}

func (r *PetRequest) apply(p *models.Pet) {
	p.Name = r.Name
	p.Species = r.Species
	p.Breed = r.Breed
	p.Color = r.Color
	p.Gender = r.Gender
	p.BirthDate = nil
	if r.BirthDate != "" {
		// already validated by the binding tag
		d, _ := time.Parse("2006-01-02", r.BirthDate)
		p.BirthDate = &d
	}
}

// ownedPet loads one pet of the calling pet owner. unscoped includes soft
// deleted pets.
func ownedPet(c *gin.Context, db *gorm.DB, unscoped bool) (*models.Pet, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	q := db.WithContext(c.Request.Context())
	if unscoped {
		q = q.Unscoped()
	}

	var p models.Pet
	if err := q.Preload("Photo").
		Where("id = ? AND pet_owner_id = ?", id, principal(c).ID).
		First(&p).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &p, true
}

func (h *PetHandler) List(c *gin.Context) {
	h.list(c, false)
}

func (h *PetHandler) Trashed(c *gin.Context) {
	h.list(c, true)
}

func (h *PetHandler) list(c *gin.Context, trashed bool) {
	q := h.db.WithContext(c.Request.Context()).
		Preload("Photo").
		Where("pet_owner_id = ?", principal(c).ID)
	if trashed {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}

	var pets []models.Pet
	if err := q.Order("name ASC").Find(&pets).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, pets)
}

func (h *PetHandler) Show(c *gin.Context) {
	p, ok := ownedPet(c, h.db, false)
	if !ok {
		return
	}
	httpresp.OK(c, p)
}

func (h *PetHandler) Create(c *gin.Context) {
	var req PetRequest
	if !bindJSON(c, &req) {
		return
	}

	p := models.Pet{PetOwnerID: principal(c).ID}
	req.apply(&p)

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&p).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, p)
}

func (h *PetHandler) Update(c *gin.Context) {
	p, ok := ownedPet(c, h.db, false)
	if !ok {
		return
	}

	var req PetRequest
	if !bindJSON(c, &req) {
		return
	}
	req.apply(p)

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Save(p).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PetHandler) Delete(c *gin.Context) {
	p, ok := ownedPet(c, h.db, false)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(p).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Pet deleted.")
}

func (h *PetHandler) Restore(c *gin.Context) {
	p, ok := ownedPet(c, h.db, true)
	if !ok {
		return
	}
	if !p.DeletedAt.Valid {
		httperr.BadRequest(c, httperr.CodeInvalidState, "The pet is not deleted.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Model(p).
		Update("deleted_at", nil).Error; err != nil {
		respondError(c, err)
		return
	}
	p.DeletedAt = gorm.DeletedAt{}
	httpresp.OK(c, p)
}

// ForceDelete removes the pet row for good. Pets with appointment history
// cannot be purged.
func (h *PetHandler) ForceDelete(c *gin.Context) {
	p, ok := ownedPet(c, h.db, true)
	if !ok {
		return
	}

	var lines int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.AppointmentLine{}).
		Where("pet_id = ?", p.ID).
		Count(&lines).Error; err != nil {
		respondError(c, err)
		return
	}
	if lines > 0 {
		httperr.Conflict(c, httperr.CodeConflict, "The pet has appointments and cannot be permanently deleted.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Unscoped().Delete(p).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Pet permanently deleted.")
}
