package assistant

const baseInstructions = `You are the customer service assistant for {COUNCIL_NAME}. Answer resident questions about council services: waste collection, rates, animal registration, road maintenance, parks, permits, and local facilities.

Ground your answers in the knowledge base context when it is provided. If the knowledge base does not cover the question, say so and direct the resident to the council's customer service centre rather than guessing.

When a resident wants to report an issue or lodge a service request, collect their name, phone number, and the details of the request, then use the send_request_notification tool to pass it to council staff. Confirm to the resident once it has been lodged.

Keep answers short, plain, and polite.`

// builtinConfigs is the deployment's tenant table. The default entry is the
// mandatory fallback for tenants without a dedicated record.
var builtinConfigs = []TenantConfig{
	{
		TenantID:     DefaultTenantID,
		DisplayName:  "the council",
		Instructions: baseInstructions,
		Model:        "gpt-4o-mini",
		Temperature:  0.3,
		MaxTokens:    600,
		KBEnabled:    true,
		KBMatchCount: 5,
	},
	{
		TenantID:     "hinchinbrook",
		DisplayName:  "Hinchinbrook Shire Council",
		Instructions: baseInstructions,
		Model:        "gpt-4o-mini",
		Temperature:  0.3,
		MaxTokens:    600,
		KBEnabled:    true,
		KBMatchCount: 5,
	},
	{
		TenantID:     "cassowary-coast",
		DisplayName:  "Cassowary Coast Regional Council",
		Instructions: baseInstructions,
		Model:        "gpt-4o-mini",
		Temperature:  0.3,
		MaxTokens:    600,
		KBEnabled:    true,
		KBMatchCount: 4,
	},
	{
		TenantID:     "burdekin",
		DisplayName:  "Burdekin Shire Council",
		Instructions: baseInstructions,
		Model:        "gpt-4o-mini",
		Temperature:  0.4,
		MaxTokens:    500,
		KBEnabled:    false,
		KBMatchCount: 0,
	},
}

// builtinAssistants maps external assistant identifiers (as issued to the
// voice/chat frontends) to tenant ids.
var builtinAssistants = map[string]string{
	"ast_9f2c41d6-hinchinbrook": "hinchinbrook",
	"ast_5b7e03aa-cassowary":    "cassowary-coast",
	"ast_1c8d92f4-burdekin":     "burdekin",
}

// BuiltinRegistry returns the static tenant registry and resolver for this
// deployment.
func BuiltinRegistry() (*Registry, *Resolver, error) {
	registry, err := NewRegistry(builtinConfigs)
	if err != nil {
		return nil, nil, err
	}
	return registry, NewResolver(builtinAssistants), nil
}
