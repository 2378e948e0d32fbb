package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	darajaTokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	darajaSTKPath   = "/mpesa/stkpush/v1/processrequest"

	// TimestampLayout is Daraja's YYYYMMDDHHMMSS format.
	TimestampLayout = "20060102150405"

	transactionTypePayBill = "CustomerPayBillOnline"
	maxAccountReference    = 12
	maxTransactionDesc     = 13
)

// Daraja timestamps are East Africa Time.
var eat = time.FixedZone("EAT", 3*60*60)

// DarajaConfig holds Safaricom Daraja credentials.
type DarajaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	Timeout        time.Duration
}

// DarajaGateway implements M-Pesa STK push (Lipa na M-Pesa Online).
type DarajaGateway struct {
	cfg    DarajaConfig
	client *http.Client
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewDarajaGateway(cfg DarajaConfig) *DarajaGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sandbox.safaricom.co.ke"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 || cfg.Timeout > 30*time.Second {
		cfg.Timeout = 30 * time.Second
	}
	return &DarajaGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

type darajaTokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// accessToken returns a cached OAuth token, fetching a new one a minute before expiry.
func (g *DarajaGateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != "" && g.now().Before(g.tokenExpiry) {
		return g.token, nil
	}
	if g.cfg.ConsumerKey == "" || g.cfg.ConsumerSecret == "" {
		return "", errors.New("daraja consumer key/secret not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+darajaTokenPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.ConsumerKey, g.cfg.ConsumerSecret)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[MPESA daraja] token status=%d body=%s", resp.StatusCode, string(body))
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: "oauth token request failed"}
	}
	var out darajaTokenResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if out.AccessToken == "" {
		return "", errors.New("daraja token response has no access_token")
	}
	ttl, err := strconv.Atoi(out.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3599
	}
	g.token = out.AccessToken
	g.tokenExpiry = g.now().Add(time.Duration(ttl)*time.Second - time.Minute)
	return g.token, nil
}

type darajaSTKReq struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type darajaSTKResp struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`

	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// SendPush triggers the STK prompt on req.Phone.
func (g *DarajaGateway) SendPush(ctx context.Context, req PushRequest) (*PushAck, error) {
	if g.cfg.ShortCode == "" || g.cfg.Passkey == "" {
		return nil, errors.New("daraja short code/passkey not configured")
	}
	phone, err := NormalizeMSISDN(req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", req.Amount)
	}
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("mpesa token: %w", err)
	}
	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = g.cfg.CallbackURL
	}
	timestamp := g.now().In(eat).Format(TimestampLayout)
	payload := darajaSTKReq{
		BusinessShortCode: g.cfg.ShortCode,
		Password:          Password(g.cfg.ShortCode, g.cfg.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionTypePayBill,
		Amount:            req.Amount,
		PartyA:            phone,
		PartyB:            g.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       callbackURL,
		AccountReference:  truncate(req.Reference, maxAccountReference),
		TransactionDesc:   truncate(req.Description, maxTransactionDesc),
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+darajaSTKPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)
	log.Printf("[MPESA daraja] POST %s ref=%s amount=%d callback=%s", darajaSTKPath, payload.AccountReference, payload.Amount, callbackURL)
	resp, err := g.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[MPESA daraja] response status=%d body=%s", resp.StatusCode, string(respBody))

	var out darajaSTKResp
	_ = json.Unmarshal(respBody, &out)
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			g.invalidateToken()
		}
		msg := out.ErrorMessage
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &ProviderError{StatusCode: resp.StatusCode, Code: out.ErrorCode, Message: msg}
	}
	if out.ResponseCode != "0" || out.CheckoutRequestID == "" {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Code: out.ResponseCode, Message: out.ResponseDescription}
	}
	return &PushAck{
		CorrelationID:     out.CheckoutRequestID,
		MerchantRequestID: out.MerchantRequestID,
		CustomerMessage:   out.CustomerMessage,
		Raw:               json.RawMessage(respBody),
	}, nil
}

func (g *DarajaGateway) invalidateToken() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
