package chat

import "aspire/pkg/llm"

const ToolSendRequestNotification = "send_request_notification"

func toolParams(properties map[string]interface{}, required []string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// ToolsForModel returns the tool definitions attached to the primary model
// call. Only the notification tool exists today.
func ToolsForModel() []llm.Tool {
	return []llm.Tool{
		{
			Name: ToolSendRequestNotification,
			Description: "Send a request notification to the council's customer service team. " +
				"Use this once the resident has confirmed they want to lodge a request and " +
				"you have collected their name, phone number and the request details.",
			Parameters: toolParams(map[string]interface{}{
				"requestType": map[string]interface{}{
					"type":        "string",
					"description": "Category of the request, e.g. missed bin collection, pothole, noise complaint",
				},
				"residentName": map[string]interface{}{
					"type":        "string",
					"description": "Full name of the resident",
				},
				"residentPhone": map[string]interface{}{
					"type":        "string",
					"description": "Contact phone number",
				},
				"residentEmail": map[string]interface{}{
					"type":        "string",
					"description": "Contact email address, if provided",
				},
				"address": map[string]interface{}{
					"type":        "string",
					"description": "Address the request relates to, if relevant",
				},
				"preferredContactMethod": map[string]interface{}{
					"type":        "string",
					"description": "How the resident prefers to be contacted",
				},
				"urgency": map[string]interface{}{
					"type": "string",
					"enum": []string{"low", "medium", "high"},
				},
				"details": map[string]interface{}{
					"type":        "string",
					"description": "Full description of the request",
				},
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Override recipient email, only when explicitly instructed",
				},
			}, []string{"requestType", "residentName", "residentPhone", "details"}),
		},
	}
}
