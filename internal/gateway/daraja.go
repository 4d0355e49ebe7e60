package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DarajaConfig - параметры подключения к Daraja API.
type DarajaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
}

// DarajaGateway - HTTP адаптер Lipa Na M-Pesa Online.
type DarajaGateway struct {
	cfg    DarajaConfig
	client *http.Client
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewDarajaGateway создает адаптер с заданным HTTP клиентом.
func NewDarajaGateway(cfg DarajaConfig, client *http.Client) *DarajaGateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DarajaGateway{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

var _ Gateway = (*DarajaGateway)(nil)

// IsSimulation всегда false для реального провайдера.
func (g *DarajaGateway) IsSimulation() bool { return false }

type stkPushBody struct {
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

type stkPushReply struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// Push отправляет STK push запрос на телефон клиента.
func (g *DarajaGateway) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := g.now().In(EAT).Format(TimestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(g.cfg.ShortCode + g.cfg.PassKey + timestamp))

	body, err := json.Marshal(stkPushBody{
		BusinessShortCode: g.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount.Ceil().IntPart(),
		PartyA:            req.PhoneNumber,
		PartyB:            g.cfg.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       g.cfg.CallbackURL,
		AccountReference:  truncate(req.AccountReference, 12),
		TransactionDesc:   truncate(req.Description, 13),
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(g.cfg.BaseURL, "/")+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	res, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	defer res.Body.Close()

	var reply stkPushReply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode stk push response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode >= 400 || reply.ResponseCode != "0" {
		msg := reply.ErrorMessage
		if msg == "" {
			msg = reply.ResponseDescription
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, res.StatusCode, msg)
	}

	return &PushResponse{
		MerchantRequestID:   reply.MerchantRequestID,
		CheckoutRequestID:   reply.CheckoutRequestID,
		ResponseCode:        reply.ResponseCode,
		ResponseDescription: reply.ResponseDescription,
		CustomerMessage:     reply.CustomerMessage,
	}, nil
}

// accessToken возвращает OAuth токен, обновляя его за минуту до истечения.
func (g *DarajaGateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && g.now().Before(g.tokenExpiry) {
		return g.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(g.cfg.BaseURL, "/")+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.ConsumerKey, g.cfg.ConsumerSecret)

	res, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oauth request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("%w: oauth returned status %d", ErrRejected, res.StatusCode)
	}

	var reply struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode oauth response: %w", err)
	}

	ttl, err := strconv.Atoi(reply.ExpiresIn)
	if err != nil || ttl <= 60 {
		ttl = 3599
	}
	g.token = reply.AccessToken
	g.tokenExpiry = g.now().Add(time.Duration(ttl-60) * time.Second)
	return g.token, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
