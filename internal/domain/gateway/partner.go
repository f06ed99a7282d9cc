package gateway

import "strings"

// DefaultPartner is always offered to the shopper regardless of merchant settings.
const DefaultPartner = "Azampesa"

type partnerEntry struct {
	providerName string
	displayValue string
}

// partnerDictionary maps provider partner names to the network value the
// checkout API expects. Order is the display order of the default allow-list.
var partnerDictionary = []partnerEntry{
	{providerName: "Azampesa", displayValue: "Azampesa"},
	{providerName: "HaloPesa", displayValue: "Halopesa"},
	{providerName: "Tigopesa", displayValue: "Tigo"},
	{providerName: "Airtel", displayValue: "Airtel"},
	{providerName: "vodacom", displayValue: "Mpesa"},
}

// Partner is one mobile-money network offered at checkout.
type Partner struct {
	ProviderName string
	DisplayValue string
	Allowed      bool
}

// KnownPartnerNames returns the provider names of the partner dictionary.
func KnownPartnerNames() []string {
	names := make([]string, 0, len(partnerDictionary))
	for _, e := range partnerDictionary {
		names = append(names, e.providerName)
	}
	return names
}

// DisplayValueFor returns the checkout network value for a provider partner
// name. Unknown names pass through unchanged.
func DisplayValueFor(providerName string) string {
	for _, e := range partnerDictionary {
		if strings.EqualFold(e.providerName, providerName) {
			return e.displayValue
		}
	}
	return providerName
}

func isDefaultPartner(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), DefaultPartner)
}

// AllowList is the merchant's per-partner switch. Keys are compared
// case-insensitively. An empty list allows every dictionary partner.
type AllowList struct {
	entries map[string]bool
}

// NewAllowList copies entries into an AllowList.
func NewAllowList(entries map[string]bool) AllowList {
	if len(entries) == 0 {
		return AllowList{}
	}
	copied := make(map[string]bool, len(entries))
	for name, allowed := range entries {
		copied[strings.ToLower(strings.TrimSpace(name))] = allowed
	}
	return AllowList{entries: copied}
}

// IsDefault reports whether the merchant configured no list at all.
func (a AllowList) IsDefault() bool {
	return len(a.entries) == 0
}

// Allows reports whether providerName may be offered. The default partner is
// always allowed.
func (a AllowList) Allows(providerName string) bool {
	if isDefaultPartner(providerName) {
		return true
	}
	if a.IsDefault() {
		for _, e := range partnerDictionary {
			if strings.EqualFold(e.providerName, providerName) {
				return true
			}
		}
		return false
	}
	return a.entries[strings.ToLower(strings.TrimSpace(providerName))]
}

// FilterAllowed returns the provider's partners that the allow-list permits,
// in provider order. The default partner is always present; when the provider
// did not list it, it is placed first. Duplicate names collapse to one entry.
func FilterAllowed(providerNames []string, allow AllowList) []Partner {
	result := make([]Partner, 0, len(providerNames)+1)
	seen := make(map[string]struct{}, len(providerNames))
	hasDefault := false

	for _, raw := range providerNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if !allow.Allows(name) {
			continue
		}
		if isDefaultPartner(name) {
			hasDefault = true
		}
		result = append(result, Partner{
			ProviderName: name,
			DisplayValue: DisplayValueFor(name),
			Allowed:      true,
		})
	}

	if !hasDefault {
		result = append([]Partner{{
			ProviderName: DefaultPartner,
			DisplayValue: DisplayValueFor(DefaultPartner),
			Allowed:      true,
		}}, result...)
	}

	return result
}

// FindAllowed looks up network among allowed partners by provider name or
// display value.
func FindAllowed(partners []Partner, network string) (Partner, bool) {
	network = strings.TrimSpace(network)
	if network == "" {
		return Partner{}, false
	}
	for _, p := range partners {
		if !p.Allowed {
			continue
		}
		if strings.EqualFold(p.ProviderName, network) || strings.EqualFold(p.DisplayValue, network) {
			return p, true
		}
	}
	return Partner{}, false
}
