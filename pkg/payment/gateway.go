package payment

import (
	"context"
	"encoding/json"
	"fmt"
)

// PushRequest asks the provider to prompt a phone for payment.
type PushRequest struct {
	Phone       string `json:"phone_number"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

// PushAck is the provider's immediate acknowledgement. CorrelationID
// is echoed back in the asynchronous callback.
type PushAck struct {
	CorrelationID     string          `json:"checkout_request_id"`
	MerchantRequestID string          `json:"merchant_request_id"`
	CustomerMessage   string          `json:"customer_message"`
	Raw               json.RawMessage `json:"-"`
}

// Gateway sends push-payment requests.
type Gateway interface {
	SendPush(ctx context.Context, req PushRequest) (*PushAck, error)
}

// ProviderError is a non-success answer from the provider API.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}
