package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"slawn/pkg/errors"
	"slawn/pkg/logger"
)

const referencePrefix = "slawn-"

// PaystackPaymentService builds inline checkout parameters and, when a secret
// key is configured, verifies references against the Paystack API.
type PaystackPaymentService struct {
	publicKey string
	secretKey string
	currency  string
	baseURL   string
	client    *http.Client
	now       func() time.Time
}

func NewPaystackPaymentService(publicKey, secretKey, currency, baseURL string) *PaystackPaymentService {
	return &PaystackPaymentService{
		publicKey: publicKey,
		secretKey: secretKey,
		currency:  currency,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

func (s *PaystackPaymentService) NewCheckout(email string, price float64) CheckoutParams {
	return CheckoutParams{
		PublicKey: s.publicKey,
		Email:     email,
		Amount:    SmallestUnit(price),
		Currency:  s.currency,
		Reference: referencePrefix + strconv.FormatInt(s.now().UnixMilli(), 10),
	}
}

func (s *PaystackPaymentService) Verify(ctx context.Context, reference string, amount int64, currency string) error {
	if s.secretKey == "" {
		return nil
	}

	verifyURL := fmt.Sprintf("%s/transaction/verify/%s", s.baseURL, url.PathEscape(reference))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("paystack verify returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("Paystack verify for %s returned %d: %s", reference, resp.StatusCode, string(body))
		return errors.PaymentProtocol("Payment could not be verified", nil)
	}

	var verifyResp paystackVerifyResponse
	if err := json.Unmarshal(body, &verifyResp); err != nil {
		return fmt.Errorf("failed to parse response: %v", err)
	}

	if !verifyResp.Status || verifyResp.Data.Status != "success" {
		logger.Warn("Paystack reports reference %s as %q", reference, verifyResp.Data.Status)
		return errors.PaymentProtocol("Payment was not completed", nil)
	}

	data := verifyResp.Data
	if data.Reference != "" && data.Reference != reference {
		logger.Warn("Paystack answered reference %s for %s", data.Reference, reference)
		return errors.PaymentProtocol("Payment does not match this purchase", nil)
	}
	if data.Amount != amount || !strings.EqualFold(data.Currency, currency) {
		logger.Warn("Paystack reports %s as %d %s, expected %d %s",
			reference, data.Amount, data.Currency, amount, currency)
		return errors.PaymentProtocol("Payment does not match this purchase", nil)
	}

	return nil
}

// SmallestUnit converts a decimal price to minor units, e.g. 12.5 GHS to 1250 pesewas.
// The float is read at its shortest decimal form, so 1.005 becomes 101.
func SmallestUnit(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}
