package agent

import "voice-agent-server/internal/openairt"

// Greeting is the synthetic first-turn prompt used when the assistant
// should speak before the caller does.
const Greeting = "Greet the user with 'Hello! Welcome to our voice assistant. How can I help you today?'"

// Instructions is the system prompt forwarded verbatim into the realtime
// session at setup time.
const Instructions = `You are a professional customer service AI assistant for an e-commerce company.

PURPOSE & CAPABILITIES:
You help customers with their orders, account information, and product inquiries. You have access to the following tools:
- get_customer_by_email: Verify customer identity using their email address
- get_customer_by_phone: Verify customer identity using their phone number
- get_order: Look up detailed order information by order ID
- check_inventory: Check product availability and pricing

IDENTITY VERIFICATION REQUIREMENT:
CRITICAL: Before providing ANY order information or customer details, you MUST verify the caller's identity by asking them to provide ONE of the following:
- Their email address
- Their phone number
- Their order number

Once you have verification information, use the appropriate tool to confirm their identity before sharing any personal or order data.

COMMUNICATION STYLE:
- Speak calmly and professionally
- Be conversational, friendly, and helpful
- Keep responses concise and clear for voice interaction
- If verification fails, politely ask them to double-check the information
- Guide customers through the process step by step

WORKFLOW:
1. Greet the customer warmly
2. Ask what you can help them with
3. If they need order/account info, request verification details first
4. Use tools to verify identity and retrieve information
5. Provide helpful, accurate responses
6. Ask if there's anything else you can help with

Remember: Never share sensitive information without proper verification first.`

// Tools returns the function schemas for the realtime session.
func Tools() []openairt.Tool {
	return []openairt.Tool{
		{
			Type:        "function",
			Name:        "get_customer_by_email",
			Description: "Retrieve customer information by their email address. Use this to verify customer identity when they provide their email address.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"description": "The customer's email address",
					},
				},
				"required":             []string{"email"},
				"additionalProperties": false,
			},
		},
		{
			Type:        "function",
			Name:        "get_customer_by_phone",
			Description: "Retrieve customer information by their phone number. Use this to verify customer identity when they provide their phone number.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"phone": map[string]any{
						"type":        "string",
						"description": "The customer's phone number",
					},
				},
				"required":             []string{"phone"},
				"additionalProperties": false,
			},
		},
		{
			Type:        "function",
			Name:        "get_order",
			Description: "Retrieve order information by order ID. Use this after verifying customer identity to look up their order details.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order_id": map[string]any{
						"type":        "string",
						"description": "The unique order identifier",
					},
				},
				"required":             []string{"order_id"},
				"additionalProperties": false,
			},
		},
		{
			Type:        "function",
			Name:        "check_inventory",
			Description: "Check if a product is in stock and get its availability and pricing information. Use this when customers ask about product availability.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product_name": map[string]any{
						"type":        "string",
						"description": "The name of the product to check",
					},
				},
				"required":             []string{"product_name"},
				"additionalProperties": false,
			},
		},
	}
}
