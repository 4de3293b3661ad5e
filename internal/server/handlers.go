// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"mangotango-admin/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

// decisionSchema validates the approve/decline payload before it reaches the
// notifier. Email and name are required and non-empty; reason is optional.
const decisionSchema = `{
	"type": "object",
	"required": ["email", "name"],
	"properties": {
		"email": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"reason": {"type": "string"}
	}
}`

var decisionValidator = gojsonschema.NewStringLoader(decisionSchema)

type decisionRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// bindDecision parses and validates the request body. On failure it writes
// the 400 response and returns false.
func (s *Server) bindDecision(c *gin.Context) (decisionRequest, bool) {
	var req decisionRequest

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return req, false
	}

	result, err := gojsonschema.Validate(decisionValidator, gojsonschema.NewBytesLoader(body))
	if err != nil || !result.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return req, false
	}
	return req, true
}

func (s *Server) handleApprove(c *gin.Context) {
	req, ok := s.bindDecision(c)
	if !ok {
		return
	}

	rec := models.TechnicianRecord{
		FirstName: req.Name,
		Email:     req.Email,
		Status:    "approved",
	}
	sent, err := s.notifier.SendApproval(c.Request.Context(), rec)
	if err != nil {
		s.logger.WithError(err).Error("approval email errored", map[string]interface{}{"email": req.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !sent {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Email sending failed"})
		return
	}

	s.recordEvent(c, "Technician approved", req.Name+" ("+req.Email+") has been approved")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Approval email sent successfully"})
}

func (s *Server) handleDecline(c *gin.Context) {
	req, ok := s.bindDecision(c)
	if !ok {
		return
	}

	rec := models.TechnicianRecord{
		FirstName: req.Name,
		Email:     req.Email,
		Status:    "rejected",
	}
	sent, err := s.notifier.SendRejectionWithReason(c.Request.Context(), rec, req.Reason)
	if err != nil {
		s.logger.WithError(err).Error("rejection email errored", map[string]interface{}{"email": req.Email})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !sent {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Email sending failed"})
		return
	}

	s.recordEvent(c, "Technician declined", req.Name+" ("+req.Email+") has been declined")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rejection email sent successfully"})
}

func (s *Server) handleProcessRegistrations(c *gin.Context) {
	report, err := s.runner.Run(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("bulk processing run failed", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	runID := ""
	if s.archiver != nil {
		id, err := s.archiver.Archive(c.Request.Context(), report)
		if err != nil {
			s.logger.WithError(err).Warn("failed to archive batch report", nil)
		} else {
			runID = id
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"runId":   runID,
		"report":  report,
		"summary": report.Render(),
	})
}

func (s *Server) handleNotifications(c *gin.Context) {
	entries, err := s.notifications.FetchOrdered(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to read notification backlog", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": entries})
}

// recordEvent pushes a feed entry for a completed decision. Best effort; a
// feed write failure never fails the decision response.
func (s *Server) recordEvent(c *gin.Context, title, message string) {
	if s.events == nil {
		return
	}
	_, err := s.events.Create(c.Request.Context(), models.NotificationEntry{
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to record decision notification", nil)
	}
}
