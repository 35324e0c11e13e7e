package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/auth"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/imaging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/logging"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/storage"
)

const (
	imageField   = "image"
	altTextField = "alt_text"
)

// ImageHandler accepts photo uploads, normalises them to webp and keeps the
// result in object storage. Replaced objects are removed after the row that
// pointed at them has been updated.
type ImageHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	opts  imaging.Options
}

func NewImageHandler(db *gorm.DB, store storage.ObjectStore) *ImageHandler {
	return &ImageHandler{
		db:    db,
		store: store,
		opts:  imaging.DefaultOptions(),
	}
}

type uploaded struct {
	URL string
	Key string
}

// upload converts the multipart image field and stores it under kind.
func (h *ImageHandler) upload(c *gin.Context, kind string) (*uploaded, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUploadBytes+(1<<20))

	fh, err := c.FormFile(imageField)
	if err != nil {
		respondError(c, httperr.Field(httperr.CodeValidation, imageField, "The image file is required."))
		return nil, false
	}
	if fh.Size > imaging.MaxUploadBytes {
		respondError(c, httperr.Field(httperr.CodeValidation, imageField, "The image may not be greater than 2 MB."))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	defer f.Close()

	body, err := imaging.ToWebP(f, h.opts)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		respondError(c, httperr.Field(httperr.CodeValidation, imageField, "The image may not be greater than 2 MB."))
		return nil, false
	case errors.Is(err, imaging.ErrUnsupported):
		respondError(c, httperr.Field(httperr.CodeValidation, imageField, "The image must be a jpeg, png, gif, bmp or webp file."))
		return nil, false
	case err != nil:
		respondError(c, err)
		return nil, false
	}

	key := storage.NewKey(kind, imaging.Extension)
	url, err := h.store.Put(c.Request.Context(), key, imaging.ContentType, body)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", "Image uploads are not available.")
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}

	return &uploaded{URL: url, Key: key}, true
}

// discard removes an object whose owning row is gone or never got written.
func (h *ImageHandler) discard(c *gin.Context, key string) {
	discardObject(c, h.store, key)
}

// discardObject deletes a replaced or orphaned object. Failures are only
// logged.
func discardObject(c *gin.Context, store storage.ObjectStore, key string) {
	if key == "" {
		return
	}
	// The request context may already be canceled.
	if err := store.Delete(context.WithoutCancel(c.Request.Context()), key); err != nil {
		logging.From(c).Warn("failed to delete stored image", "key", key, "err", err)
	}
}

// ------------------------------
// Account photo
// ------------------------------

func profilePhotoKey(acc any) string {
	switch a := acc.(type) {
	case *models.PetOwner:
		return a.ProfilePhotoKey
	case *models.BusinessOwner:
		return a.ProfilePhotoKey
	case *models.Staff:
		return a.ProfilePhotoKey
	}
	return ""
}

func (h *ImageHandler) UploadProfilePhoto(c *gin.Context) {
	p := principal(c)
	acc := account(p.Role)
	if acc == nil {
		httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
		return
	}
	if err := h.db.WithContext(c.Request.Context()).First(acc, p.ID).Error; err != nil {
		respondError(c, err)
		return
	}
	oldKey := profilePhotoKey(acc)

	up, ok := h.upload(c, profileKind(p.Role))
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(acc).Updates(map[string]any{
		"profile_photo":     up.URL,
		"profile_photo_key": up.Key,
	}).Error; err != nil {
		h.discard(c, up.Key)
		respondError(c, err)
		return
	}
	h.discard(c, oldKey)

	httpresp.OK(c, gin.H{"profile_photo": up.URL})
}

func profileKind(role auth.Role) string {
	switch role {
	case auth.RoleBusinessOwner:
		return "business_owners"
	case auth.RoleStaff:
		return "staff"
	default:
		return "pet_owners"
	}
}

// ------------------------------
// Business photo
// ------------------------------

func (h *ImageHandler) UploadBusinessPhoto(c *gin.Context) {
	b, ok := owned(c, h.db, false)
	if !ok {
		return
	}
	oldKey := b.ProfilePhotoKey

	up, ok := h.upload(c, "businesses")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(b).Updates(map[string]any{
		"profile_photo":     up.URL,
		"profile_photo_key": up.Key,
	}).Error; err != nil {
		h.discard(c, up.Key)
		respondError(c, err)
		return
	}
	h.discard(c, oldKey)

	httpresp.OK(c, gin.H{"profile_photo": up.URL})
}

// ------------------------------
// Pet photo
// ------------------------------

// UploadPetPhoto replaces the pet's photo with a new Image row.
func (h *ImageHandler) UploadPetPhoto(c *gin.Context) {
	pet, ok := ownedPet(c, h.db, false)
	if !ok {
		return
	}
	previous := pet.Photo

	up, ok := h.upload(c, "pets")
	if !ok {
		return
	}

	img := models.Image{
		SourceURL: up.URL,
		ObjectKey: up.Key,
		AltText:   c.PostForm(altTextField),
	}
	if img.AltText == "" {
		img.AltText = pet.Name
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
		if err := tx.Model(pet).Omit(clause.Associations).Update("photo_id", img.ID).Error; err != nil {
			return err
		}
		if previous != nil {
			return tx.Delete(previous).Error
		}
		return nil
	})
	if err != nil {
		h.discard(c, up.Key)
		respondError(c, err)
		return
	}
	if previous != nil {
		h.discard(c, previous.ObjectKey)
	}

	pet.PhotoID = &img.ID
	pet.Photo = &img
	httpresp.OK(c, pet)
}
