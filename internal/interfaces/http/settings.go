package http

import (
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	sharedConfig "github.com/azampay/momo-checkout/internal/shared/config"
)

// GatewaySettings maps the azampay config section onto the merchant settings
// the gateway resolves per request.
func GatewaySettings(cfg sharedConfig.AzamPayConfig) gateway.Settings {
	return gateway.Settings{
		Enabled:             cfg.Enabled,
		Mode:                gateway.ModeFromTestFlag(cfg.TestMode),
		Test:                credentials(cfg.Test),
		Production:          credentials(cfg.Production),
		TestEndpoints:       endpoints(cfg.TestEndpoints),
		ProductionEndpoints: endpoints(cfg.ProductionEndpoints),
		AutocompleteOrder:   cfg.AutocompleteOrder,
		Instructions:        cfg.Instructions,
		AllowedPartners:     cfg.AllowedPartners,
		SupportedCurrencies: cfg.SupportedCurrencies,
	}
}

func credentials(c sharedConfig.AzamPayCredentials) gateway.Credentials {
	return gateway.Credentials{
		AppName:       c.AppName,
		ClientID:      c.ClientID,
		ClientSecret:  c.ClientSecret,
		CallbackToken: c.CallbackToken,
	}
}

func endpoints(e sharedConfig.AzamPayEndpoints) gateway.Endpoints {
	return gateway.Endpoints{
		CheckoutBaseURL: e.CheckoutBaseURL,
		AuthBaseURL:     e.AuthBaseURL,
	}
}
