// Package handlers maps HTTP requests onto the service layer. Every handler
// classifies failures at its own boundary: domain errors become 400/404,
// missing sessions 401, and anything else a generic 500 with the detail
// logged rather than leaked.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// internalError logs the real failure and answers with a generic body.
func internalError(c *gin.Context, log *logrus.Logger, msg string, err error) {
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error(msg)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msg})
}
