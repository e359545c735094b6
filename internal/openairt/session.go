package openairt

// Tool describes one function the model may call, in the realtime API's
// session schema.
type Tool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SessionConfig is the session.update payload sent once after dialing.
// Instructions and tools come from the agent configuration verbatim.
type SessionConfig struct {
	Voice        string
	Instructions string
	Tools        []Tool
}

func sessionUpdateMessage(cfg SessionConfig) map[string]any {
	return map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"type":              "realtime",
			"model":             defaultModel,
			"output_modalities": []string{"audio"},
			"audio": map[string]any{
				"input": map[string]any{
					"format": map[string]any{"type": "audio/pcmu"},
					"turn_detection": map[string]any{
						"type":                "server_vad",
						"threshold":           0.5,
						"prefix_padding_ms":   200,
						"silence_duration_ms": 200,
						"create_response":     true,
						"interrupt_response":  true,
					},
				},
				"output": map[string]any{
					"format": map[string]any{"type": "audio/pcmu"},
					"voice":  cfg.Voice,
				},
			},
			"instructions": cfg.Instructions,
			"tools":        cfg.Tools,
		},
	}
}

func greetingMessage(text string) map[string]any {
	return map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type": "message",
			"role": "user",
			"content": []map[string]any{
				{"type": "input_text", "text": text},
			},
		},
	}
}
