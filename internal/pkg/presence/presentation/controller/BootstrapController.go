package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-beacon/internal/pkg/presence/application/usecase"
	"go-beacon/internal/pkg/presence/domain"
)

// BootstrapController handles the identity bootstrap endpoint only (one
// controller per endpoint).
type BootstrapController struct {
	UC *usecase.BootstrapUseCase
}

func NewBootstrapController(reg usecase.Bootstrapper) *BootstrapController {
	return &BootstrapController{UC: usecase.NewBootstrapUseCase(reg)}
}

// bootstrapRequest is the DTO for the HTTP request body.
type bootstrapRequest struct {
	ID string `json:"id"`
}

// Handle returns a gin handler that registers or authorizes an identity.
func (h *BootstrapController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bootstrapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		entry, err := h.UC.Execute(ctx, usecase.BootstrapInput{Identity: req.ID})
		if err != nil {
			if errors.Is(err, domain.ErrEmptyIdentity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     entry.Identity,
			"online": entry.Online(),
		})
	}
}
