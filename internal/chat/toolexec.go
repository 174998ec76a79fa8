package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aspire/pkg/logging"
)

// NotificationExecutor forwards send_request_notification calls to the
// notification endpoint. The endpoint may be this process itself or a
// separate deployment; either way it is reached over HTTP.
type NotificationExecutor struct {
	client  *http.Client
	baseURL string
	logger  logging.Logger
}

func NewNotificationExecutor(baseURL string, logger logging.Logger) *NotificationExecutor {
	return &NotificationExecutor{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Execute runs the named tool and returns a result string for the model.
// A delivery failure reported by the notification endpoint is returned as
// result text, not as an error: the model should relay it to the resident.
func (e *NotificationExecutor) Execute(ctx context.Context, toolName, tenantID string, args map[string]interface{}) (string, error) {
	if toolName != ToolSendRequestNotification {
		return "", fmt.Errorf("unknown tool %q", toolName)
	}

	payload := make(map[string]interface{}, len(args)+1)
	for k, v := range args {
		payload[k] = v
	}
	payload["tenantId"] = tenantID

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/notifications", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read notification response: %w", err)
	}

	// The endpoint answers JSON, but error bodies from proxies in between may
	// not be. A failed decode on a non-2xx response falls through to the raw
	// body.
	var result struct {
		RecipientEmail string `json:"recipientEmail"`
		Error          string `json:"error"`
	}
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode >= http.StatusBadRequest || result.Error != "" {
		message := result.Error
		if message == "" {
			message = strings.TrimSpace(string(respBody))
		}
		e.logger.WithFields(logging.Fields{
			"tenant_id": tenantID,
			"status":    resp.StatusCode,
			"error":     message,
		}).Warn("Notification delivery failed")
		return fmt.Sprintf("The notification could not be sent: %s", message), nil
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode notification response: %w", decodeErr)
	}

	e.logger.WithFields(logging.Fields{
		"tenant_id": tenantID,
		"recipient": result.RecipientEmail,
	}).Info("Request notification sent")
	return fmt.Sprintf("Notification sent to %s.", result.RecipientEmail), nil
}
