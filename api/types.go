package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler healthHandler
	authHandler   authHandler
	userHandler   userHandler
	blogHandler   blogHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error        string   `json:"error" example:"Internal Server Error"`
	Status       string   `json:"status" example:"error"`
	Field        string   `json:"field,omitempty" example:"slug"`
	Details      string   `json:"details,omitempty" example:"Additional error details"`
	Errors       []string `json:"errors,omitempty"`
	RequiredRole []string `json:"requiredRole,omitempty"`
	CurrentRole  string   `json:"currentRole,omitempty"`
	Cause        string   `json:"cause,omitempty" example:"Underlying error cause"`
}
