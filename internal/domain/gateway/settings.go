package gateway

import "strings"

// DefaultSupportedCurrencies are the store currencies the provider settles in.
var DefaultSupportedCurrencies = []string{"TZS"}

// Settings is the merchant configuration as stored. Both credential sets are
// kept; Mode selects exactly one of them when a Snapshot is resolved.
type Settings struct {
	Enabled             bool
	Mode                Mode
	Test                Credentials
	Production          Credentials
	TestEndpoints       Endpoints
	ProductionEndpoints Endpoints
	AutocompleteOrder   bool
	Instructions        string
	AllowedPartners     map[string]bool
	SupportedCurrencies []string
}

// Snapshot is the immutable, per-request view of Settings for one mode.
type Snapshot struct {
	mode              Mode
	endpoints         Endpoints
	credentials       Credentials
	enabled           bool
	configured        bool
	currencySupported bool
	autocompleteOrder bool
	instructions      string
	allowList         AllowList
}

// Resolve selects the credentials and endpoints for the configured mode and
// evaluates whether the gateway is usable for storeCurrency. It never fails:
// incomplete settings yield a snapshot that reports Configured() == false.
func Resolve(settings Settings, storeCurrency string) Snapshot {
	mode := settings.Mode
	if !mode.IsValid() {
		mode = ModeTest
	}

	creds := settings.Test
	overrides := settings.TestEndpoints
	if mode == ModeProduction {
		creds = settings.Production
		overrides = settings.ProductionEndpoints
	}

	supported := settings.SupportedCurrencies
	if len(supported) == 0 {
		supported = DefaultSupportedCurrencies
	}

	return Snapshot{
		mode:              mode,
		endpoints:         overrides.orDefault(DefaultEndpoints(mode)),
		credentials:       creds,
		enabled:           settings.Enabled,
		configured:        creds.IsComplete(),
		currencySupported: currencyIn(storeCurrency, supported),
		autocompleteOrder: settings.AutocompleteOrder,
		instructions:      strings.TrimSpace(settings.Instructions),
		allowList:         NewAllowList(settings.AllowedPartners),
	}
}

func currencyIn(currency string, supported []string) bool {
	currency = strings.TrimSpace(currency)
	for _, c := range supported {
		if strings.EqualFold(c, currency) {
			return true
		}
	}
	return false
}

func (s Snapshot) Mode() Mode {
	return s.mode
}

func (s Snapshot) IsTestMode() bool {
	return s.mode == ModeTest
}

// Enabled reports whether the merchant switched the gateway on and the store
// currency is one the provider accepts.
func (s Snapshot) Enabled() bool {
	return s.enabled && s.currencySupported
}

func (s Snapshot) Configured() bool {
	return s.configured
}

func (s Snapshot) CurrencySupported() bool {
	return s.currencySupported
}

// Usable is Enabled and Configured: the only state in which provider calls are made.
func (s Snapshot) Usable() bool {
	return s.Enabled() && s.configured
}

func (s Snapshot) Credentials() Credentials {
	return s.credentials
}

func (s Snapshot) Endpoints() Endpoints {
	return s.endpoints
}

func (s Snapshot) AutocompleteOrder() bool {
	return s.autocompleteOrder
}

func (s Snapshot) Instructions() string {
	return s.instructions
}

func (s Snapshot) AllowList() AllowList {
	return s.allowList
}
