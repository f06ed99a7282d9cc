package usecases

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azampay/momo-checkout/internal/domain/gateway"
)

func newOpenSession(transport *fakeTransport) *OpenSessionUseCase {
	return NewOpenSessionUseCase(
		NewAcquireTokenUseCase(transport, nopLogger{}),
		NewListPartnersUseCase(transport, nopLogger{}),
		nopLogger{},
	)
}

func TestOpenSessionUseCase_Execute_Ready(t *testing.T) {
	transport := happyTransport()
	snap := gateway.Resolve(gateway.Settings{
		Enabled:         true,
		Mode:            gateway.ModeTest,
		Test:            testCredentials(),
		AllowedPartners: map[string]bool{"Tigopesa": true, "vodacom": false},
	}, "TZS")

	session := newOpenSession(transport).Execute(context.Background(), snap)

	require.True(t, session.Ready())
	assert.Nil(t, session.BlockingNotice())
	assert.Equal(t, MsgTestModeDescription, session.Description())

	var values []string
	for _, p := range session.Allowed {
		values = append(values, p.DisplayValue)
	}
	assert.Equal(t, []string{"Azampesa", "Tigo"}, values)

	assert.Len(t, transport.callsTo(tokenSuffix), 1)
	assert.Len(t, transport.callsTo(partnersSuffix), 1)
}

func TestOpenSessionUseCase_Execute_ProductionHasNoDescription(t *testing.T) {
	transport := happyTransport()
	snap := gateway.Resolve(gateway.Settings{
		Enabled:    true,
		Mode:       gateway.ModeProduction,
		Production: testCredentials(),
	}, "TZS")

	session := newOpenSession(transport).Execute(context.Background(), snap)

	assert.True(t, session.Ready())
	assert.Empty(t, session.Description())
	assert.Contains(t, transport.callsTo(tokenSuffix)[0].URL, "authenticator.azampay.co.tz")
}

func TestOpenSessionUseCase_Execute_BlockingNotices(t *testing.T) {
	tests := []struct {
		name      string
		snap      gateway.Snapshot
		transport *fakeTransport
		wantType  NoticeType
		wantMsg   string
	}{
		{
			name:      "misconfigured",
			snap:      unconfiguredSnapshot(),
			transport: happyTransport(),
			wantType:  NoticeTypeNotice,
			wantMsg:   MsgMisconfigured + " " + MsgContactStoreOwner,
		},
		{
			name:      "expired secret",
			snap:      usableSnapshot(),
			transport: newFakeTransport().on(tokenSuffix, http.StatusLocked, `{}`),
			wantType:  NoticeTypeError,
			wantMsg:   MsgInvalidAppDetails,
		},
		{
			name: "partners unavailable",
			snap: usableSnapshot(),
			transport: newFakeTransport().
				on(tokenSuffix, http.StatusOK, tokenOK).
				on(partnersSuffix, http.StatusOK, `{"status":"Error","message":"Maintenance"}`),
			wantType: NoticeTypeError,
			wantMsg:  MsgPartnersUnavailable + " Maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newOpenSession(tt.transport).Execute(context.Background(), tt.snap)

			assert.False(t, session.Ready())
			assert.Empty(t, session.Allowed)

			notice := session.BlockingNotice()
			require.NotNil(t, notice)
			assert.Equal(t, tt.wantType, notice.Type)
			assert.Equal(t, tt.wantMsg, notice.Message)
		})
	}
}

func TestOpenSessionUseCase_Execute_InvalidCredentialsSkipPartners(t *testing.T) {
	transport := newFakeTransport().
		on(tokenSuffix, http.StatusLocked, `{}`).
		on(partnersSuffix, http.StatusOK, partnersOK)

	session := newOpenSession(transport).Execute(context.Background(), usableSnapshot())

	assert.Equal(t, ErrorCodeInvalidCredentials, session.Token.ErrorCode)
	assert.Equal(t, MsgCredentialsInvalid, session.Partners.Message)
	assert.Empty(t, transport.callsTo(partnersSuffix))
}
