package usecases

import (
	"context"

	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// Session is the per-request payment context: one token, one partner fetch
// and the partners the shopper may pick from.
type Session struct {
	Snapshot gateway.Snapshot
	Token    TokenResult
	Partners PartnerResult
	Allowed  []gateway.Partner
}

// Ready reports whether a charge may be attempted with this session.
func (s *Session) Ready() bool {
	return s.Token.Success && s.Partners.Success
}

// BlockingNotice returns the notice that replaces the payment fields when the
// session is not ready. Misconfiguration is shown as a neutral notice asking
// the shopper to contact the store; other failures are errors.
func (s *Session) BlockingNotice() *Notice {
	switch {
	case !s.Token.Success && s.Token.ErrorCode == ErrorCodeMisconfiguredApp:
		return &Notice{Type: NoticeTypeNotice, Message: s.Token.Message + " " + MsgContactStoreOwner}
	case !s.Token.Success:
		return &Notice{Type: NoticeTypeError, Message: s.Token.Message}
	case !s.Partners.Success:
		return &Notice{Type: NoticeTypeError, Message: s.Partners.Message}
	default:
		return nil
	}
}

// Description is the text shown above the payment fields.
func (s *Session) Description() string {
	if s.Snapshot.IsTestMode() {
		return MsgTestModeDescription
	}
	return ""
}

type OpenSessionUseCase struct {
	acquireToken *AcquireTokenUseCase
	listPartners *ListPartnersUseCase
	logger       logger.Interface
}

func NewOpenSessionUseCase(
	acquireToken *AcquireTokenUseCase,
	listPartners *ListPartnersUseCase,
	logger logger.Interface,
) *OpenSessionUseCase {
	return &OpenSessionUseCase{
		acquireToken: acquireToken,
		listPartners: listPartners,
		logger:       logger,
	}
}

func (uc *OpenSessionUseCase) Execute(ctx context.Context, snap gateway.Snapshot) *Session {
	session := &Session{Snapshot: snap}

	session.Token = uc.acquireToken.Execute(ctx, snap)
	session.Partners = uc.listPartners.Execute(ctx, snap, session.Token)

	if session.Partners.Success {
		session.Allowed = gateway.FilterAllowed(session.Partners.Names(), snap.AllowList())
	}

	uc.logger.Debugw("payment session opened",
		"mode", snap.Mode(),
		"token_ok", session.Token.Success,
		"partners_ok", session.Partners.Success,
		"allowed_partners", len(session.Allowed),
	)

	return session
}
