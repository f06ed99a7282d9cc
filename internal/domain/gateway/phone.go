package gateway

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Azampesa additionally accepts the short "1" prefix.
	azampesaPhonePattern = regexp.MustCompile(`^(0|1|255|\+255)?(6[1-9]|7[1-8])([0-9]{7})$`)
	networkPhonePattern  = regexp.MustCompile(`^(0|255|\+255)?(6[1-9]|7[1-8])([0-9]{7})$`)
)

var (
	ErrNetworkRequired    = errors.New("Please select a payment network.")
	ErrNetworkNotAllowed  = errors.New("Please select a valid payment network.")
	ErrInvalidPhoneNumber = errors.New("Please enter a valid phone number that is to be billed.")
)

// ValidPhoneNumber checks phone against the pattern for network.
func ValidPhoneNumber(phone, network string) bool {
	phone = strings.TrimSpace(phone)
	if isDefaultPartner(network) {
		return azampesaPhonePattern.MatchString(phone)
	}
	return networkPhonePattern.MatchString(phone)
}

// ValidatePaymentFields checks the shopper's network choice and wallet number
// against the allowed partners. On success it returns the matched partner so
// callers use its canonical display value.
func ValidatePaymentFields(network, phone string, allowed []Partner) (Partner, error) {
	network = strings.TrimSpace(network)
	if network == "" {
		return Partner{}, ErrNetworkRequired
	}

	partner, ok := FindAllowed(allowed, network)
	if !ok {
		return Partner{}, ErrNetworkNotAllowed
	}

	if !ValidPhoneNumber(phone, partner.ProviderName) {
		return Partner{}, ErrInvalidPhoneNumber
	}

	return partner, nil
}
