package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
	"github.com/joaofarias/doafacil/pkg/clients/viacep"
)

// PartnerStore is the registry persistence the handler drives.
type PartnerStore interface {
	InsertNGO(ctx context.Context, ngo models.NGO) (models.NGO, error)
	ListNGOs(ctx context.Context, ownerID string) ([]models.NGO, error)
	GetNGO(ctx context.Context, id string) (models.NGO, error)
	UpdateNGO(ctx context.Context, ngo models.NGO) error
	DeleteNGO(ctx context.Context, id string) error

	InsertVolunteer(ctx context.Context, vol models.Volunteer) (models.Volunteer, error)
	ListVolunteers(ctx context.Context, ownerID string) ([]models.Volunteer, error)
	GetVolunteer(ctx context.Context, id string) (models.Volunteer, error)
	UpdateVolunteer(ctx context.Context, vol models.Volunteer) error
	DeleteVolunteer(ctx context.Context, id string) error

	InsertCollectionPoint(ctx context.Context, point models.CollectionPoint) (models.CollectionPoint, error)
	ListCollectionPoints(ctx context.Context, ownerID string) ([]models.CollectionPoint, error)
	GetCollectionPoint(ctx context.Context, id string) (models.CollectionPoint, error)
	UpdateCollectionPoint(ctx context.Context, point models.CollectionPoint) error
	DeleteCollectionPoint(ctx context.Context, id string) error
}

// PartnerHandler exposes the NGO, volunteer and collection-point registries
// plus the postal-code lookup that pre-fills their address forms.
type PartnerHandler struct {
	store  PartnerStore
	cep    viacep.Client
	logger *zap.Logger
}

// NewPartnerHandler constructs the HTTP handler adapter.
func NewPartnerHandler(store PartnerStore, cep viacep.Client, logger *zap.Logger) *PartnerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerHandler{store: store, cep: cep, logger: logger}
}

// LookupAddress resolves a postal code through ViaCEP.
func (h *PartnerHandler) LookupAddress(c *gin.Context) {
	result, err := h.cep.Lookup(c.Request.Context(), c.Param("cep"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type ngoRequest struct {
	OwnerID            string         `json:"ownerId" binding:"required"`
	Name               string         `json:"name" binding:"required"`
	RegistrationNumber string         `json:"registrationNumber"`
	Phone              string         `json:"phone"`
	Email              string         `json:"email"`
	Address            models.Address `json:"address"`
}

// CreateNGO registers a new NGO.
func (h *PartnerHandler) CreateNGO(c *gin.Context) {
	var req ngoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ngo, err := h.store.InsertNGO(c.Request.Context(), models.NGO{
		OwnerID:            req.OwnerID,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		CreatedAt:          time.Now().UTC(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ngo)
}

// ListNGOs returns the owner's registered NGOs.
func (h *PartnerHandler) ListNGOs(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	ngos, err := h.store.ListNGOs(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

// UpdateNGO replaces an NGO registration.
func (h *PartnerHandler) UpdateNGO(c *gin.Context) {
	var req ngoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetNGO(c.Request.Context(), c.Param("id"))
	if err != nil || existing.OwnerID != req.OwnerID {
		respondError(c, h.logger, models.ErrPartnerNotFound)
		return
	}

	existing.Name = req.Name
	existing.RegistrationNumber = req.RegistrationNumber
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address

	if err := h.store.UpdateNGO(c.Request.Context(), existing); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteNGO removes an NGO registration.
func (h *PartnerHandler) DeleteNGO(c *gin.Context) {
	if err := h.store.DeleteNGO(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type volunteerRequest struct {
	OwnerID  string         `json:"ownerId" binding:"required"`
	Name     string         `json:"name" binding:"required"`
	Document string         `json:"document"`
	Phone    string         `json:"phone"`
	Email    string         `json:"email"`
	Address  models.Address `json:"address"`
}

// CreateVolunteer registers a new volunteer.
func (h *PartnerHandler) CreateVolunteer(c *gin.Context) {
	var req volunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vol, err := h.store.InsertVolunteer(c.Request.Context(), models.Volunteer{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Document:  req.Document,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, vol)
}

// ListVolunteers returns the owner's registered volunteers.
func (h *PartnerHandler) ListVolunteers(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	vols, err := h.store.ListVolunteers(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vols)
}

// UpdateVolunteer replaces a volunteer registration.
func (h *PartnerHandler) UpdateVolunteer(c *gin.Context) {
	var req volunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetVolunteer(c.Request.Context(), c.Param("id"))
	if err != nil || existing.OwnerID != req.OwnerID {
		respondError(c, h.logger, models.ErrPartnerNotFound)
		return
	}

	existing.Name = req.Name
	existing.Document = req.Document
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address

	if err := h.store.UpdateVolunteer(c.Request.Context(), existing); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteVolunteer removes a volunteer registration.
func (h *PartnerHandler) DeleteVolunteer(c *gin.Context) {
	if err := h.store.DeleteVolunteer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type collectionPointRequest struct {
	OwnerID string         `json:"ownerId" binding:"required"`
	Name    string         `json:"name" binding:"required"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
}

// CreateCollectionPoint registers a new collection point.
func (h *PartnerHandler) CreateCollectionPoint(c *gin.Context) {
	var req collectionPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	point, err := h.store.InsertCollectionPoint(c.Request.Context(), models.CollectionPoint{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, point)
}

// ListCollectionPoints returns the owner's registered collection points.
func (h *PartnerHandler) ListCollectionPoints(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerId is required"})
		return
	}

	points, err := h.store.ListCollectionPoints(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// UpdateCollectionPoint replaces a collection point registration.
func (h *PartnerHandler) UpdateCollectionPoint(c *gin.Context) {
	var req collectionPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := h.store.GetCollectionPoint(c.Request.Context(), c.Param("id"))
	if err != nil || existing.OwnerID != req.OwnerID {
		respondError(c, h.logger, models.ErrPartnerNotFound)
		return
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Address = req.Address

	if err := h.store.UpdateCollectionPoint(c.Request.Context(), existing); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// DeleteCollectionPoint removes a collection point registration.
func (h *PartnerHandler) DeleteCollectionPoint(c *gin.Context) {
	if err := h.store.DeleteCollectionPoint(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
