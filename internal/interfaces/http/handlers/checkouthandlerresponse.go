package handlers

import (
	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
)

// PayRequest carries the shopper's payment fields. Both are optional at
// binding time: zero-total orders submit neither, and network-specific
// checks happen in the gateway.
type PayRequest struct {
	PaymentNetwork string `json:"payment_network" form:"payment_network" binding:"omitempty,max=64"`
	PaymentNumber  string `json:"payment_number" form:"payment_number" binding:"omitempty,msisdn"`
}

type PayResponse struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`

	// NoticeToken is presented to GET /checkout/notices to read the
	// customer's notices. Empty for guest orders.
	NoticeToken string `json:"notice_token,omitempty"`
}

type ValidateResponse struct {
	Valid   bool            `json:"valid"`
	Network PartnerResponse `json:"network"`
}

type PartnerResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentFieldsResponse describes what the checkout form renders for the
// payment method. When Disabled is set only Notice is shown.
type PaymentFieldsResponse struct {
	Disabled    bool              `json:"disabled"`
	Description string            `json:"description,omitempty"`
	Notice      *usecases.Notice  `json:"notice,omitempty"`
	Partners    []PartnerResponse `json:"partners"`
}

func toPaymentFieldsResponse(session *usecases.Session) *PaymentFieldsResponse {
	resp := &PaymentFieldsResponse{
		Description: session.Description(),
		Partners:    []PartnerResponse{},
	}

	if notice := session.BlockingNotice(); notice != nil {
		resp.Disabled = true
		resp.Notice = notice
		return resp
	}

	resp.Partners = toPartnerResponses(session.Allowed)
	return resp
}

func toPartnerResponse(p gateway.Partner) PartnerResponse {
	return PartnerResponse{Name: p.ProviderName, Value: p.DisplayValue}
}

func toPartnerResponses(partners []gateway.Partner) []PartnerResponse {
	out := make([]PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartnerResponse(p))
	}
	return out
}
