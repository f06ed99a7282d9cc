package gateway

import "strings"

const (
	tokenPath    = "AppRegistration/GenerateToken"
	partnersPath = "api/v1/Partner/GetPaymentPartners"
	checkoutPath = "azampay/mno/checkout"
)

// Endpoints are the provider base URLs for one mode.
type Endpoints struct {
	CheckoutBaseURL string
	AuthBaseURL     string
}

var (
	SandboxEndpoints = Endpoints{
		CheckoutBaseURL: "https://sandbox.azampay.co.tz/",
		AuthBaseURL:     "https://authenticator-sandbox.azampay.co.tz/",
	}
	ProductionEndpoints = Endpoints{
		CheckoutBaseURL: "https://checkout.azampay.co.tz/",
		AuthBaseURL:     "https://authenticator.azampay.co.tz/",
	}
)

// DefaultEndpoints returns the built-in hosts for mode.
func DefaultEndpoints(mode Mode) Endpoints {
	if mode == ModeProduction {
		return ProductionEndpoints
	}
	return SandboxEndpoints
}

// orDefault fills empty fields from def.
func (e Endpoints) orDefault(def Endpoints) Endpoints {
	if strings.TrimSpace(e.CheckoutBaseURL) == "" {
		e.CheckoutBaseURL = def.CheckoutBaseURL
	}
	if strings.TrimSpace(e.AuthBaseURL) == "" {
		e.AuthBaseURL = def.AuthBaseURL
	}
	return e
}

func (e Endpoints) TokenURL() string {
	return joinURL(e.AuthBaseURL, tokenPath)
}

func (e Endpoints) PartnersURL() string {
	return joinURL(e.CheckoutBaseURL, partnersPath)
}

func (e Endpoints) CheckoutURL() string {
	return joinURL(e.CheckoutBaseURL, checkoutPath)
}

func joinURL(base, path string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + "/" + path
}
