package sheets

// Config holds configuration for the collaboration service client.
type Config struct {
	// Token is the API access token. Required; there is no anonymous access.
	Token string `mapstructure:"token" default:""`
	// BaseURL is the root of the service REST API.
	BaseURL string `mapstructure:"base_url" default:"https://api.smartsheet.com/2.0"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
