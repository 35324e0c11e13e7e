package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/storage"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

// TokenRevoker blocks a token before it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, p auth.Principal) error
}

type AuthHandler struct {
	db       *gorm.DB
	issuer   *auth.Issuer
	sessions TokenRevoker
	store    storage.ObjectStore

	// checkEmailDomain is swapped out in tests to avoid DNS lookups.
	checkEmailDomain func(email string) bool
}

func NewAuthHandler(db *gorm.DB, issuer *auth.Issuer, sessions TokenRevoker, store storage.ObjectStore) *AuthHandler {
	return &AuthHandler{
		db:               db,
		issuer:           issuer,
		sessions:         sessions,
		store:            store,
		checkEmailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterPetOwnerRequest struct {
	Name        string `json:"name" binding:"required,max=45"`
	LastName    string `json:"last_name" binding:"required,max=45"`
	Email       string `json:"email" binding:"required,email,max=70"`
	Password    string `json:"password" binding:"required,password"`
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
}

type RegisterBusinessOwnerRequest struct {
	Name        string `json:"name" binding:"required,max=45"`
	LastName    string `json:"last_name" binding:"required,max=45"`
	Email       string `json:"email" binding:"required,email,max=70"`
	Password    string `json:"password" binding:"required,password"`
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
	RFC         string `json:"rfc" binding:"required,rfc"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
	User        any    `json:"user"`
}

// --------- Handlers ---------

func (h *AuthHandler) RegisterPetOwner(c *gin.Context) {
	var req RegisterPetOwnerRequest
	if !bindJSON(c, &req) {
		return
	}

	email, ok := h.normalizeEmail(c, req.Email)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	owner := models.PetOwner{
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&owner).Error; err != nil {
		h.createFailed(c, err)
		return
	}

	h.respondToken(c, http.StatusCreated, auth.Principal{ID: owner.ID, Role: auth.RolePetOwner}, owner)
}

func (h *AuthHandler) RegisterBusinessOwner(c *gin.Context) {
	var req RegisterBusinessOwnerRequest
	if !bindJSON(c, &req) {
		return
	}

	email, ok := h.normalizeEmail(c, req.Email)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	owner := models.BusinessOwner{
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		RFC:          strings.ToUpper(req.RFC),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&owner).Error; err != nil {
		h.createFailed(c, err)
		return
	}

	h.respondToken(c, http.StatusCreated, auth.Principal{ID: owner.ID, Role: auth.RoleBusinessOwner}, owner)
}

// Login returns the login handler of one role.
func (h *AuthHandler) Login(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		db := h.db.WithContext(c.Request.Context())

		var (
			p    = auth.Principal{Role: role}
			hash string
			user any
			err  error
		)

		switch role {
		case auth.RolePetOwner:
			var u models.PetOwner
			err = db.Where("email = ?", email).First(&u).Error
			p.ID, hash, user = u.ID, u.PasswordHash, u
		case auth.RoleBusinessOwner:
			var u models.BusinessOwner
			err = db.Where("email = ?", email).First(&u).Error
			p.ID, hash, user = u.ID, u.PasswordHash, u
		case auth.RoleStaff:
			var u models.Staff
			err = db.Where("email = ?", email).First(&u).Error
			p.ID, p.BusinessID, hash, user = u.ID, u.BusinessID, u.PasswordHash, u
		}

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
				return
			}
			httperr.Internal(c, "internal_error", "Something went wrong.")
			return
		}

		if !auth.CheckPassword(hash, req.Password) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}

		h.respondToken(c, http.StatusOK, p, user)
	}
}

// Refresh issues a fresh token and revokes the one it was called with.
func (h *AuthHandler) Refresh(c *gin.Context) {
	p := principal(c)
	if !h.respondToken(c, http.StatusOK, p, nil) {
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), p); err != nil {
		logging.From(c).Error("failed to revoke refreshed token", "err", err)
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Revoke(c.Request.Context(), principal(c)); err != nil {
		respondError(c, err)
		return
	}
	httpresp.Message(c, http.StatusOK, "Successfully logged out.")
}

// --------- deleted accounts ---------

// trashedAccount finds the soft deleted account of role matching the posted
// credentials. Live accounts and wrong passwords look the same to callers.
func (h *AuthHandler) trashedAccount(c *gin.Context, role auth.Role) (any, bool) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	acc := account(role)
	err := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Where("email = ? AND deleted_at IS NOT NULL", strings.ToLower(strings.TrimSpace(req.Email))).
		First(acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "No deleted account matches these credentials.")
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}

	if !auth.CheckPassword(passwordHash(acc), req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "No deleted account matches these credentials.")
		return nil, false
	}
	return acc, true
}

// Trashed shows a deleted account to its owner before restoring it.
func (h *AuthHandler) Trashed(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := h.trashedAccount(c, role)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": role, "user": acc})
	}
}

// Restore undoes a self deletion and signs the owner back in.
func (h *AuthHandler) Restore(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := h.trashedAccount(c, role)
		if !ok {
			return
		}

		if err := h.db.WithContext(c.Request.Context()).
			Unscoped().
			Model(acc).
			Update("deleted_at", nil).Error; err != nil {
			respondError(c, err)
			return
		}

		var p auth.Principal
		switch a := acc.(type) {
		case *models.PetOwner:
			a.DeletedAt = gorm.DeletedAt{}
			p = auth.Principal{ID: a.ID, Role: auth.RolePetOwner}
		case *models.BusinessOwner:
			a.DeletedAt = gorm.DeletedAt{}
			p = auth.Principal{ID: a.ID, Role: auth.RoleBusinessOwner}
		}
		h.respondToken(c, http.StatusOK, p, acc)
	}
}

// ForceDelete erases a deleted account for good. Pet owners with appointment
// history and business owners with businesses, trashed or not, are refused.
func (h *AuthHandler) ForceDelete(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := h.trashedAccount(c, role)
		if !ok {
			return
		}
		db := h.db.WithContext(c.Request.Context())

		var err error
		switch a := acc.(type) {
		case *models.PetOwner:
			err = h.forceDeletePetOwner(db, a)
		case *models.BusinessOwner:
			err = h.forceDeleteBusinessOwner(db, a)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		discardObject(c, h.store, profilePhotoKey(acc))
		httpresp.Message(c, http.StatusOK, "Account permanently deleted.")
	}
}

func (h *AuthHandler) forceDeletePetOwner(db *gorm.DB, o *models.PetOwner) error {
	var appointments int64
	if err := db.Model(&models.Appointment{}).Where("pet_owner_id = ?", o.ID).Count(&appointments).Error; err != nil {
		return err
	}
	if appointments > 0 {
		return httperr.Field(httperr.CodeConflict, "email",
			"The account has appointments and cannot be permanently deleted.")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("pet_owner_id = ?", o.ID).Delete(&models.Pet{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(o).Error
	})
}

func (h *AuthHandler) forceDeleteBusinessOwner(db *gorm.DB, o *models.BusinessOwner) error {
	var businesses int64
	if err := db.Unscoped().Model(&models.Business{}).Where("business_owner_id = ?", o.ID).Count(&businesses).Error; err != nil {
		return err
	}
	if businesses > 0 {
		return httperr.Field(httperr.CodeConflict, "email",
			"Permanently delete the account's businesses first.")
	}
	return db.Unscoped().Delete(o).Error
}

// --------- helpers ---------

func (h *AuthHandler) normalizeEmail(c *gin.Context, raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !h.checkEmailDomain(email) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, httperr.HTTPError{
			Status:  "error",
			Code:    "invalid_email_domain",
			Message: "The email domain does not look valid.",
			Field:   "email",
		})
		return "", false
	}
	return email, true
}

func (h *AuthHandler) createFailed(c *gin.Context, err error) {
	if httperr.IsUniqueViolation(err) {
		httperr.Conflict(c, "account_already_exists", "An account with these details already exists.")
		return
	}
	respondError(c, err)
}

func (h *AuthHandler) respondToken(c *gin.Context, status int, p auth.Principal, user any) bool {
	token, err := h.issuer.Issue(p)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a token.")
		return false
	}

	c.JSON(status, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.issuer.TTL().Seconds()),
		Role:        string(p.Role),
		User:        user,
	})
	return true
}
