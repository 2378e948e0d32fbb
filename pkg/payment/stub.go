package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// StubGateway acknowledges every push without contacting a provider. For local development.
type StubGateway struct{}

func (StubGateway) SendPush(ctx context.Context, req PushRequest) (*PushAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ack := &PushAck{
		CorrelationID:     fmt.Sprintf("ws_CO_stub_%d", time.Now().UnixNano()),
		MerchantRequestID: "stub-" + req.Reference,
		CustomerMessage:   "Success. Request accepted for processing",
	}
	ack.Raw, _ = json.Marshal(map[string]string{
		"MerchantRequestID":   ack.MerchantRequestID,
		"CheckoutRequestID":   ack.CorrelationID,
		"ResponseCode":        "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage":     ack.CustomerMessage,
	})
	log.Printf("[MPESA stub] push phone=%s amount=%d checkout=%s", req.Phone, req.Amount, ack.CorrelationID)
	return ack, nil
}
