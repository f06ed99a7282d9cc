package usecases

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/azampay/momo-checkout/internal/application/payment/paymentgateway"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// TokenResult is the outcome of one token request. It is never cached.
type TokenResult struct {
	Success   bool
	Token     string
	ErrorCode ErrorCode
	Message   string
}

// Err converts a failed result into an AppError; nil on success.
func (r TokenResult) Err() error {
	if r.Success {
		return nil
	}
	if r.ErrorCode == ErrorCodeMisconfiguredApp {
		return apperrors.NewConfigurationError(r.Message)
	}
	return apperrors.NewAuthenticationError(r.Message)
}

func tokenFailure(code ErrorCode, message string) TokenResult {
	return TokenResult{ErrorCode: code, Message: message}
}

type tokenRequest struct {
	AppName      string `json:"appName"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type tokenResponse struct {
	Data struct {
		AccessToken string `json:"accessToken"`
		Expire      string `json:"expire"`
	} `json:"data"`
	Message string `json:"message"`
}

type AcquireTokenUseCase struct {
	transport paymentgateway.Transport
	logger    logger.Interface
}

func NewAcquireTokenUseCase(transport paymentgateway.Transport, logger logger.Interface) *AcquireTokenUseCase {
	return &AcquireTokenUseCase{
		transport: transport,
		logger:    logger,
	}
}

// Execute exchanges the snapshot's credentials for a bearer token. Failures
// are reported in the result, never as an error, and are not retried.
func (uc *AcquireTokenUseCase) Execute(ctx context.Context, snap gateway.Snapshot) TokenResult {
	if !snap.Usable() {
		uc.logger.Warnw("token request skipped, gateway not usable",
			"enabled", snap.Enabled(),
			"configured", snap.Configured(),
			"mode", snap.Mode(),
		)
		return tokenFailure(ErrorCodeMisconfiguredApp, MsgMisconfigured)
	}

	creds := snap.Credentials()
	body, err := json.Marshal(tokenRequest{
		AppName:      creds.AppName,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	})
	if err != nil {
		uc.logger.Errorw("failed to encode token request", "error", err)
		return tokenFailure(ErrorCodeUnknown, MsgSomethingWentWrong)
	}

	resp, err := uc.transport.Send(ctx, &paymentgateway.Request{
		Method: http.MethodPost,
		URL:    snap.Endpoints().TokenURL(),
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
			"X-API-KEY":    creds.CallbackToken,
		},
		Body: body,
	})
	if err != nil {
		uc.logger.Warnw("token request failed", "error", err, "mode", snap.Mode())
		return tokenFailure(ErrorCodeUnknown, MsgSomethingWentWrong)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed tokenResponse
		if err := json.Unmarshal(resp.Body, &parsed); err != nil || parsed.Data.AccessToken == "" {
			uc.logger.Warnw("token response missing access token", "error", err)
			return tokenFailure(ErrorCodeUnknown, MsgSomethingWentWrong)
		}
		return TokenResult{Success: true, Token: parsed.Data.AccessToken}
	case http.StatusLocked:
		uc.logger.Warnw("token request rejected, invalid app details", "status", resp.StatusCode)
		return tokenFailure(ErrorCodeInvalidCredentials, MsgInvalidAppDetails)
	case http.StatusInternalServerError:
		uc.logger.Warnw("token request hit provider server error", "status", resp.StatusCode)
		return tokenFailure(ErrorCodeServerError, MsgServerError)
	default:
		uc.logger.Warnw("unexpected token response", "status", resp.StatusCode)
		return tokenFailure(ErrorCodeUnknown, MsgSomethingWentWrong)
	}
}
