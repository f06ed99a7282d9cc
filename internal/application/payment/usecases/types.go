package usecases

// ErrorCode classifies why a provider interaction did not succeed.
type ErrorCode string

const (
	ErrorCodeNone                ErrorCode = ""
	ErrorCodeMisconfiguredApp    ErrorCode = "misconfigured_app"
	ErrorCodeInvalidCredentials  ErrorCode = "invalid_credentials"
	ErrorCodeServerError         ErrorCode = "server_error"
	ErrorCodeUnknown             ErrorCode = "unknown"
	ErrorCodePartnersUnavailable ErrorCode = "partners_unavailable"
)

// Shopper- and merchant-facing messages.
const (
	MsgMisconfigured       = "AzamPay plugin has been configured incorrectly."
	MsgInvalidAppDetails   = "Provided detail is not valid for this app or secret key has expired."
	MsgServerError         = "Internal Server Error."
	MsgSomethingWentWrong  = "Something went wrong. Contact store owner to have it fixed."
	MsgContactStoreOwner   = "Contact store owner to have it fixed."
	MsgCredentialsInvalid  = "Your credentials are invalid."
	MsgPartnersUnavailable = "Could not get payment partners."
	MsgTransactionProblem  = "There was a problem with the transaction. Please contact store owner."
	MsgPendingPayment      = "Pending Payment."
	MsgTestModeDescription = "TEST MODE ENABLED. In Sandbox, you can use the AzamPesa numbers listed below to proceed with tests for the different scenarios."
	MsgOrderAlreadyPaid    = "This order has already been paid."
	MsgOrderBusy           = "Order is being processed. Please try again shortly."
	MsgCheckoutNotRecorded = "Your payment request was sent but the order could not be updated. Please contact store owner."
)

type NoticeType string

const (
	NoticeTypeError   NoticeType = "error"
	NoticeTypeNotice  NoticeType = "notice"
	NoticeTypeSuccess NoticeType = "success"
)

// Notice is a message queued for display to the shopper.
type Notice struct {
	Type    NoticeType `json:"type"`
	Message string     `json:"message"`
}
