package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"go-beacon/internal/pkg/presence/application/usecase"
	"go-beacon/internal/pkg/presence/domain"
)

// GetHistoryController handles history retrieval by participant (one
// controller per endpoint).
type GetHistoryController struct {
	UC *usecase.GetHistoryUseCase
}

func NewGetHistoryController(log usecase.HistoryReader) *GetHistoryController {
	return &GetHistoryController{UC: usecase.NewGetHistoryUseCase(log)}
}

// Handle returns a gin handler that fetches every record involving the user.
func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		records, err := h.UC.Execute(ctx, usecase.GetHistoryInput{Identity: userID})
		if err != nil {
			if errors.Is(err, domain.ErrEmptyIdentity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		out := lo.Map(records, func(rec domain.Record, _ int) gin.H {
			return gin.H{
				"id":        rec.ID,
				"from":      rec.From,
				"to":        rec.To,
				"message":   rec.Message,
				"timestamp": rec.Timestamp,
			}
		})

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"count":    len(out),
		})
	}
}
