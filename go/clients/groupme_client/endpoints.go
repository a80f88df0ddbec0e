package groupme_client

const (
	// Base URL
	BaseURL = "https://api.groupme.com/v3"

	// API Endpoints
	BotPostEndpoint = "/bots/post"

	// Form fields
	BotIDField = "bot_id"
	TextField  = "text"
)
