package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=45"`
	LastName    *string `json:"last_name" binding:"omitempty,max=45"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone"`
	Password    *string `json:"password" binding:"omitempty,password"`
}

// account returns a pointer to the model backing the caller's role.
func account(role auth.Role) any {
	switch role {
	case auth.RolePetOwner:
		return &models.PetOwner{}
	case auth.RoleBusinessOwner:
		return &models.BusinessOwner{}
	case auth.RoleStaff:
		return &models.Staff{}
	}
	return nil
}

func passwordHash(acc any) string {
	switch a := acc.(type) {
	case *models.PetOwner:
		return a.PasswordHash
	case *models.BusinessOwner:
		return a.PasswordHash
	case *models.Staff:
		return a.PasswordHash
	}
	return ""
}

func (h *MeHandler) load(c *gin.Context) (any, bool) {
	p := principal(c)
	acc := account(p.Role)
	if acc == nil {
		httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
		return nil, false
	}
	if err := h.db.WithContext(c.Request.Context()).First(acc, p.ID).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return acc, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	acc, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role": principal(c).Role,
		"user": acc,
	})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	acc, ok := h.load(c)
	if !ok {
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(acc).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"role": principal(c).Role,
		"user": acc,
	})
}

// DeleteMe soft deletes the caller's account.
func (h *MeHandler) DeleteMe(c *gin.Context) {
	acc, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(acc).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Account deleted.")
}
