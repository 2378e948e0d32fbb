package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrMalformedCallback = errors.New("malformed stk callback")

// ResultCodeSuccess is the only ResultCode meaning the customer paid.
const ResultCodeSuccess = 0

type callbackEnvelope struct {
	Body struct {
		STKCallback *STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

// STKCallback is the asynchronous result Daraja posts to CallBackURL.
type STKCallback struct {
	MerchantRequestID string      `json:"MerchantRequestID"`
	CheckoutRequestID string      `json:"CheckoutRequestID"`
	ResultCode        json.Number `json:"ResultCode"`
	ResultDesc        string      `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata,omitempty"`

	code int64
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// ParseCallback decodes a raw callback body. CheckoutRequestID and ResultCode are required.
func ParseCallback(raw []byte) (*STKCallback, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var env callbackEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
	}
	cb := env.Body.STKCallback
	if cb == nil {
		return nil, fmt.Errorf("%w: Body.stkCallback missing", ErrMalformedCallback)
	}
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: CheckoutRequestID missing", ErrMalformedCallback)
	}
	code, err := cb.ResultCode.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: ResultCode %q", ErrMalformedCallback, cb.ResultCode.String())
	}
	cb.code = code
	return cb, nil
}

func (cb *STKCallback) Code() int64 { return cb.code }

func (cb *STKCallback) Succeeded() bool { return cb.code == ResultCodeSuccess }

func (cb *STKCallback) item(name string) (interface{}, bool) {
	if cb.CallbackMetadata == nil {
		return nil, false
	}
	for _, it := range cb.CallbackMetadata.Item {
		if it.Name == name && it.Value != nil {
			return it.Value, true
		}
	}
	return nil, false
}

func (cb *STKCallback) itemString(name string) string {
	v, ok := cb.item(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}

// ReceiptNumber is the M-Pesa transaction code, e.g. "NLJ7RT61SV".
func (cb *STKCallback) ReceiptNumber() string { return cb.itemString("MpesaReceiptNumber") }

func (cb *STKCallback) Amount() (float64, bool) {
	s := cb.itemString("Amount")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// TransactionTime parses TransactionDate (YYYYMMDDHHMMSS, East Africa Time).
func (cb *STKCallback) TransactionTime() (time.Time, bool) {
	s := cb.itemString("TransactionDate")
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, s, eat)
	return t, err == nil
}
