package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GA4ConnectRequest is the payload of a live Google Analytics connection
// attempt.
type GA4ConnectRequest struct {
	PropertyID      string `json:"property_id"`
	CredentialsFile string `json:"credentials_file"`
}

// ConnectGA4Handler is a placeholder for the live GA4 data source. The demo
// runs entirely on generated data; connecting a real property is not
// implemented.
func ConnectGA4Handler(c *gin.Context) {
	var request GA4ConnectRequest
	if err := c.BindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	if request.PropertyID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing property_id"})
		return
	}

	log.WithField("property_id", request.PropertyID).Info("GA4 connection requested.")
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "live GA4 connections are not available, use the demo data endpoints",
	})
}
