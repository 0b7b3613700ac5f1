package errors

import (
	"fmt"
	"net/http"
)

// Code ties a business error code to an HTTP status and default message.
type Code struct {
	Code    int
	Status  int
	Message string
}

const (
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrConflict        = 1005
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007
	ErrServiceUnavail  = 1008

	// Auth errors (2000-2999)
	ErrAuthInvalidCredentials = 2000
	ErrAuthMissingCredentials = 2001
	ErrAuthEmailExists        = 2002
	ErrAuthUserInactive       = 2003
	ErrAuthInvalidToken       = 2004
	ErrAuthCSRF               = 2005
	ErrAuthProviderDisabled   = 2006
	ErrAuthOAuthState         = 2007
	ErrAuthOAuthExchange      = 2008

	// Planner errors (3000-3999)
	ErrPlanEmptyGoal     = 3000
	ErrPlanFailed        = 3001
	ErrRatingsRefresh    = 3002
	ErrRatingsDisabled   = 3003
	ErrPlanLLMFailed     = 3004
	ErrPlanNoInventory   = 3005
	ErrPlanInvalidModel  = 3006

	// Catalog errors (4000-4999)
	ErrCatalogInvalidQuery = 4000
	ErrCatalogUnavailable  = 4001

	// Preference errors (5000-5999)
	ErrPrefsInvalidTool   = 5000
	ErrPrefsInvalidPrompt = 5001
)

var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Not authenticated"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	ErrAuthInvalidCredentials: {ErrAuthInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	ErrAuthMissingCredentials: {ErrAuthMissingCredentials, http.StatusBadRequest, "Email and password are required"},
	ErrAuthEmailExists:        {ErrAuthEmailExists, http.StatusConflict, "Email already registered"},
	ErrAuthUserInactive:       {ErrAuthUserInactive, http.StatusForbidden, "User is inactive"},
	ErrAuthInvalidToken:       {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	ErrAuthCSRF:               {ErrAuthCSRF, http.StatusForbidden, "CSRF token missing or invalid"},
	ErrAuthProviderDisabled:   {ErrAuthProviderDisabled, http.StatusInternalServerError, "OAuth provider is not configured"},
	ErrAuthOAuthState:         {ErrAuthOAuthState, http.StatusBadRequest, "Invalid OAuth state"},
	ErrAuthOAuthExchange:      {ErrAuthOAuthExchange, http.StatusBadRequest, "OAuth code exchange failed"},

	ErrPlanEmptyGoal:   {ErrPlanEmptyGoal, http.StatusBadRequest, "Missing user_goal"},
	ErrPlanFailed:      {ErrPlanFailed, http.StatusInternalServerError, "Planning failed"},
	ErrRatingsRefresh:  {ErrRatingsRefresh, http.StatusBadGateway, "Ratings refresh failed"},
	ErrRatingsDisabled: {ErrRatingsDisabled, http.StatusServiceUnavailable, "Live ratings are disabled"},
	ErrPlanLLMFailed:   {ErrPlanLLMFailed, http.StatusBadGateway, "Step generation failed"},
	ErrPlanNoInventory: {ErrPlanNoInventory, http.StatusServiceUnavailable, "Tool inventory is empty"},

	ErrPlanInvalidModel: {ErrPlanInvalidModel, http.StatusBadRequest, "Unsupported model"},

	ErrCatalogInvalidQuery: {ErrCatalogInvalidQuery, http.StatusBadRequest, "Invalid catalog query"},
	ErrCatalogUnavailable:  {ErrCatalogUnavailable, http.StatusServiceUnavailable, "Catalog unavailable"},

	ErrPrefsInvalidTool:   {ErrPrefsInvalidTool, http.StatusBadRequest, "Tool name is required"},
	ErrPrefsInvalidPrompt: {ErrPrefsInvalidPrompt, http.StatusBadRequest, "Prompt is required"},
}

// GetCode returns the Code for code, or the internal error entry.
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

func GetMessage(code int) string {
	return GetCode(code).Message
}

func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError returns the code message, suffixed with details when given.
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
