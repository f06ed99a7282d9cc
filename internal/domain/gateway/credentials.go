package gateway

import "strings"

// Credentials identify the merchant application to the provider.
type Credentials struct {
	AppName       string
	ClientID      string
	ClientSecret  string
	CallbackToken string
}

// IsComplete reports whether every field needed to request a token is set.
func (c Credentials) IsComplete() bool {
	return len(c.MissingFields()) == 0
}

// MissingFields lists the unset token fields, for startup diagnostics.
func (c Credentials) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.AppName) == "" {
		missing = append(missing, "app_name")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if strings.TrimSpace(c.CallbackToken) == "" {
		missing = append(missing, "callback_token")
	}
	return missing
}
