package mfl_client

const (
	// Base URL
	BaseURL = "https://api.myfantasyleague.com"

	// Export endpoint, formatted with the league year
	ExportEndpoint = "/%s/export"

	// Export types
	TypePlayers      = "players"
	TypeLeague       = "league"
	TypeDraftResults = "draftResults"

	// Query parameters
	TypeParam   = "TYPE"
	LeagueParam = "L"
	JSONParam   = "JSON"
	APIKeyParam = "APIKEY"

	// Headers
	UserAgentHeader  = "User-Agent"
	AcceptHeader     = "Accept"
	JsonContentType  = "application/json"
	DefaultUserAgent = "draftwatch/1.0"
)
