package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/drmadhusudhan/clinic-api/config"
)

// Result is the outcome of one delivery attempt chain.
type Result struct {
	Success     bool   `json:"sent"`
	Method      string `json:"method"`
	MessageID   string `json:"messageId,omitempty"`
	FallbackURL string `json:"fallbackUrl,omitempty"`
	Error       string `json:"-"`
}

// DispatchReport summarizes the patient and doctor sends for one booking.
type DispatchReport struct {
	Patient  Result `json:"patient"`
	Doctor   Result `json:"doctor"`
	BothSent bool   `json:"bothSent"`
}

// Sender delivers a rendered message to a phone number. Delivery failure is
// advisory: the booking has already committed by the time this runs.
type Sender interface {
	Send(ctx context.Context, phone, text string) Result
}

// WhatsAppSender tries the configured backends in priority order
// (CallMeBot, then the Meta Cloud API, then Twilio) and falls back to a
// manually-shareable wa.me deep link when every backend is unavailable.
type WhatsAppSender struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	log    *zap.Logger
}

func NewWhatsAppSender(cfg config.WhatsAppConfig, client *http.Client, log *zap.Logger) *WhatsAppSender {
	if client == nil {
		client = &http.Client{Timeout: cfg.SendTimeout}
	}
	return &WhatsAppSender{cfg: cfg, client: client, log: log}
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, text string) Result {
	phone = NormalizePhone(phone)

	backends := []struct {
		name string
		fn   func(ctx context.Context, phone, text string) Result
	}{
		{"callmebot", s.sendViaCallMeBot},
		{"cloud_api", s.sendViaCloudAPI},
		{"twilio", s.sendViaTwilio},
	}

	for _, b := range backends {
		res := b.fn(ctx, phone, text)
		if res.Success {
			return res
		}
		s.log.Debug("whatsapp backend unavailable",
			zap.String("backend", b.name),
			zap.String("error", res.Error),
		)
	}

	return Result{
		Success:     false,
		Method:      "manual_link",
		FallbackURL: ManualLink(phone, text),
		Error:       "all automatic delivery backends unavailable",
	}
}

// NormalizePhone strips non-digits and prefixes the Indian country code
// when it is missing.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	p := digits.String()
	if strings.HasPrefix(p, "91") && len(p) > 10 {
		return p
	}
	return "91" + p
}

// ManualLink builds a wa.me deep link carrying the pre-filled message.
func ManualLink(phone, text string) string {
	return "https://wa.me/" + NormalizePhone(phone) + "?text=" + url.QueryEscape(text)
}

func (s *WhatsAppSender) sendViaCallMeBot(ctx context.Context, phone, text string) Result {
	if s.cfg.CallMeBotAPIKey == "" {
		return Result{Method: "callmebot", Error: "not configured"}
	}

	q := url.Values{}
	q.Set("phone", phone)
	q.Set("text", text)
	q.Set("apikey", s.cfg.CallMeBotAPIKey)
	endpoint := "https://api.callmebot.com/whatsapp.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Method: "callmebot", Error: err.Error()}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Method: "callmebot", Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode == http.StatusOK || strings.Contains(string(body), "Message queued") {
		return Result{Success: true, Method: "callmebot"}
	}
	return Result{Method: "callmebot", Error: fmt.Sprintf("status %d: %s", resp.StatusCode, body)}
}

func (s *WhatsAppSender) sendViaCloudAPI(ctx context.Context, phone, text string) Result {
	if s.cfg.CloudAPIToken == "" || s.cfg.CloudPhoneNumberID == "" {
		return Result{Method: "cloud_api", Error: "not configured"}
	}

	payload, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "text",
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return Result{Method: "cloud_api", Error: err.Error()}
	}

	endpoint := fmt.Sprintf("https://graph.facebook.com/v20.0/%s/messages", s.cfg.CloudPhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return Result{Method: "cloud_api", Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.CloudAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Method: "cloud_api", Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16384))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Method: "cloud_api", Error: fmt.Sprintf("status %d: %s", resp.StatusCode, body)}
	}

	var parsed struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	_ = json.Unmarshal(body, &parsed)

	res := Result{Success: true, Method: "cloud_api"}
	if len(parsed.Messages) > 0 {
		res.MessageID = parsed.Messages[0].ID
	}
	return res
}

func (s *WhatsAppSender) sendViaTwilio(ctx context.Context, phone, text string) Result {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		return Result{Method: "twilio", Error: "not configured"}
	}

	form := url.Values{}
	form.Set("Body", text)
	form.Set("From", s.cfg.TwilioFromNumber)
	form.Set("To", "whatsapp:+"+phone)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.TwilioAccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{Method: "twilio", Error: err.Error()}
	}
	req.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{Method: "twilio", Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16384))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Method: "twilio", Error: fmt.Sprintf("status %d: %s", resp.StatusCode, body)}
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	_ = json.Unmarshal(body, &parsed)
	return Result{Success: true, Method: "twilio", MessageID: parsed.SID}
}
