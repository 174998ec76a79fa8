package notify

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aspire/pkg/logging"
)

// ContactSubmission is a general contact-form message, as opposed to the
// structured request notification the chat tool produces.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

func (s ContactSubmission) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Message) == "" {
		missing = append(missing, "message")
	}
	return missing
}

// ContactStore persists contact submissions. Submissions land with status
// "new" and are worked by staff out of band.
type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) Insert(ctx context.Context, sub ContactSubmission) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO concierge_contact_submissions (id, name, email, phone, message)
		 VALUES ($1, $2, $3, $4, $5)`,
		id,
		sub.Name,
		sub.Email,
		sub.Phone,
		sub.Message,
	)
	if err != nil {
		return "", fmt.Errorf("insert contact submission: %w", err)
	}
	return id, nil
}

const contactConfirmation = "Thank you for contacting us. We'll get back to you within 24 hours."

// HandleContact stores the submission and emails staff in the background.
// The submission is the source of truth; a failed email is logged but never
// turns a stored submission into a client-facing error.
func (h *Handler) HandleContact(c *gin.Context) {
	var sub ContactSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if missing := sub.MissingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	id, err := h.contacts.Insert(c.Request.Context(), sub)
	if err != nil {
		h.logger.WithFields(logging.Fields{"error": err}).Error("Failed to store contact submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred processing your request"})
		return
	}

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		if err := h.notifier.SendContact(ctx, sub); err != nil {
			h.logger.WithFields(logging.Fields{
				"submission_id": id,
				"error":         err,
			}).Error("Contact notification email failed, submission is stored")
		}
	}(context.WithoutCancel(c.Request.Context()))

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": contactConfirmation,
		"id":      id,
	})
}
