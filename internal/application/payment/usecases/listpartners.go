package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/azampay/momo-checkout/internal/application/payment/paymentgateway"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// ProviderPartner is one entry of the provider's partner directory.
type ProviderPartner struct {
	PartnerName string `json:"partnerName"`
	LogoURL     string `json:"logoUrl"`
	VendorName  string `json:"vendorName"`
}

type PartnerResult struct {
	Success   bool
	Partners  []ProviderPartner
	ErrorCode ErrorCode
	Message   string
}

// Names returns the partner names in provider order.
func (r PartnerResult) Names() []string {
	names := make([]string, 0, len(r.Partners))
	for _, p := range r.Partners {
		names = append(names, p.PartnerName)
	}
	return names
}

// LogoFor returns the provider's logo URL for a partner name, if any.
func (r PartnerResult) LogoFor(name string) string {
	for _, p := range r.Partners {
		if strings.EqualFold(p.PartnerName, name) {
			return p.LogoURL
		}
	}
	return ""
}

// Err converts a failed result into an AppError; nil on success.
func (r PartnerResult) Err() error {
	if r.Success {
		return nil
	}
	if r.ErrorCode == ErrorCodeMisconfiguredApp {
		return apperrors.NewConfigurationError(r.Message)
	}
	return apperrors.NewPartnerFetchError(r.Message)
}

type partnerErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ListPartnersUseCase struct {
	transport paymentgateway.Transport
	logger    logger.Interface
}

func NewListPartnersUseCase(transport paymentgateway.Transport, logger logger.Interface) *ListPartnersUseCase {
	return &ListPartnersUseCase{
		transport: transport,
		logger:    logger,
	}
}

// Execute fetches the provider's partner directory with a previously
// acquired token. No request is made unless the gateway is usable and the
// token succeeded.
func (uc *ListPartnersUseCase) Execute(ctx context.Context, snap gateway.Snapshot, token TokenResult) PartnerResult {
	if !snap.Usable() {
		return PartnerResult{ErrorCode: ErrorCodeMisconfiguredApp, Message: MsgMisconfigured}
	}
	if !token.Success {
		return PartnerResult{ErrorCode: ErrorCodeInvalidCredentials, Message: MsgCredentialsInvalid}
	}

	resp, err := uc.transport.Send(ctx, &paymentgateway.Request{
		Method: http.MethodGet,
		URL:    snap.Endpoints().PartnersURL(),
		Headers: map[string]string{
			"Accept":        "application/json",
			"Authorization": "Bearer " + token.Token,
		},
	})
	if err != nil {
		uc.logger.Warnw("partner request failed", "error", err)
		return partnersUnavailable("")
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		uc.logger.Warnw("empty partner response", "status", resp.StatusCode)
		return partnersUnavailable("")
	}

	switch body[0] {
	case '[':
		var partners []ProviderPartner
		if err := json.Unmarshal(body, &partners); err != nil {
			uc.logger.Warnw("failed to decode partner list", "error", err)
			return partnersUnavailable("")
		}
		return PartnerResult{Success: true, Partners: partners}
	case '{':
		var errResp partnerErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && strings.EqualFold(errResp.Status, "Error") {
			uc.logger.Warnw("provider refused partner request", "message", errResp.Message)
			return partnersUnavailable(errResp.Message)
		}
	}

	uc.logger.Warnw("unexpected partner response", "status", resp.StatusCode)
	return partnersUnavailable("")
}

func partnersUnavailable(providerMessage string) PartnerResult {
	msg := MsgPartnersUnavailable
	if providerMessage = strings.TrimSpace(providerMessage); providerMessage != "" {
		msg += " " + providerMessage
	}
	return PartnerResult{ErrorCode: ErrorCodePartnersUnavailable, Message: msg}
}
