package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"fwowebserver/internal/forecast"
	"fwowebserver/internal/models"

	"github.com/gin-gonic/gin"
)

// statusClientClosed is reported when the caller went away mid-request
const statusClientClosed = 499

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var vErr *models.ValidationError
	var fErr *forecast.FetchError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
	// a fetch aborted by a departed client is not an upstream failure
	case errors.Is(err, context.Canceled):
		c.JSON(statusClientClosed, gin.H{"error": "request cancelled"})
	case errors.As(err, &fErr):
		log.Printf("Forecast request %s failed: %v", fErr.Endpoint, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("Request %s failed: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
