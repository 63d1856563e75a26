package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rightssphere/models"

	"go.uber.org/zap"
)

// FarcasterService talks to the Neynar v2 API.
type FarcasterService struct {
	baseURL    string
	apiKey     string
	signerUUID string
	client     *http.Client
	log        *zap.Logger
}

func NewFarcasterService(baseURL, apiKey, signerUUID string, client *http.Client, log *zap.Logger) *FarcasterService {
	return &FarcasterService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		signerUUID: strings.TrimSpace(signerUUID),
		client:     client,
		log:        log.Named("farcaster"),
	}
}

type CastEmbed struct {
	URL string `json:"url,omitempty"`
}

type CastParent struct {
	FID  int64  `json:"fid"`
	Hash string `json:"hash"`
}

type CastRequest struct {
	Text      string      `json:"text"`
	Embeds    []CastEmbed `json:"embeds,omitempty"`
	Parent    *CastParent `json:"parent,omitempty"`
	ChannelID string      `json:"channel_id,omitempty"`
}

type CastAuthor struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PfpURL      string `json:"pfp_url"`
}

type Cast struct {
	Hash       string     `json:"hash"`
	ThreadHash string     `json:"thread_hash,omitempty"`
	Author     CastAuthor `json:"author"`
	Text       string     `json:"text"`
	Timestamp  string     `json:"timestamp,omitempty"`
}

type CastResponse struct {
	Success bool   `json:"success"`
	Cast    *Cast  `json:"cast,omitempty"`
	Message string `json:"message,omitempty"`
}

// EmergencyAlert is the payload broadcast for one alert.
type EmergencyAlert struct {
	Message       string
	Location      string
	Timestamp     string
	RecipientFIDs []string
}

// RightsCardShare is the payload cast when a user shares a rights card.
type RightsCardShare struct {
	Title   string
	Content string
	State   string
	IPFSURL string
	AppURL  string
}

func (f *FarcasterService) configured() bool {
	return f.apiKey != "" && f.signerUUID != ""
}

// PublishCast posts a cast through the configured signer.
func (f *FarcasterService) PublishCast(ctx context.Context, cast CastRequest) (*CastResponse, error) {
	if !f.configured() {
		return nil, fmt.Errorf("publish cast: %w: NEYNAR_API_KEY and FARCASTER_SIGNER_UUID are required", ErrNotConfigured)
	}

	body := struct {
		SignerUUID string `json:"signer_uuid"`
		CastRequest
	}{SignerUUID: f.signerUUID, CastRequest: cast}

	var out struct {
		Cast *Cast `json:"cast"`
	}
	if err := f.do(ctx, http.MethodPost, "/farcaster/cast", body, &out); err != nil {
		return nil, fmt.Errorf("publish cast: %w", err)
	}
	return &CastResponse{Success: true, Cast: out.Cast}, nil
}

// SendEmergencyAlert posts one public cast for the whole alert. Recipients
// are not messaged individually.
func (f *FarcasterService) SendEmergencyAlert(ctx context.Context, a EmergencyAlert) ([]DispatchResult, error) {
	if !f.configured() {
		return nil, fmt.Errorf("send emergency alert: %w", ErrNotConfigured)
	}

	text := fmt.Sprintf("🚨 EMERGENCY ALERT 🚨\n\n%s\n\n📍 Location: %s\n⏰ Time: %s\n\nPlease monitor this situation.\n\n#EmergencyAlert #RightsSphere #SafetyFirst",
		a.Message, a.Location, a.Timestamp)

	res := DispatchResult{
		Channel:   models.ChannelFarcaster,
		Recipient: strings.Join(a.RecipientFIDs, ","),
	}
	resp, err := f.PublishCast(ctx, CastRequest{Text: text})
	if err != nil {
		f.log.Warn("emergency cast failed", zap.Error(err), zap.Int("recipients", len(a.RecipientFIDs)))
		res.Message = err.Error()
		return []DispatchResult{res}, nil
	}
	res.Success = true
	if resp.Cast != nil {
		res.Reference = resp.Cast.Hash
	}
	return []DispatchResult{res}, nil
}

// ShareRightsCard casts a short rights card summary with links.
func (f *FarcasterService) ShareRightsCard(ctx context.Context, s RightsCardShare) (*CastResponse, error) {
	content := s.Content
	if r := []rune(content); len(r) > 200 {
		content = string(r[:200]) + "..."
	}
	tag := strings.ReplaceAll(s.State, " ", "")
	text := fmt.Sprintf("🛡️ %s\n\n%s\n\nKnow your rights during police interactions in %s! \n\n#KnowYourRights #%sRights #RightsSphere #LegalRights #PoliceInteraction",
		s.Title, content, s.State, tag)

	var embeds []CastEmbed
	if s.IPFSURL != "" {
		embeds = append(embeds, CastEmbed{URL: s.IPFSURL})
	}
	embeds = append(embeds, CastEmbed{URL: s.AppURL})

	return f.PublishCast(ctx, CastRequest{Text: text, Embeds: embeds})
}

// UserProfile returns the raw Neynar user object for a fid.
func (f *FarcasterService) UserProfile(ctx context.Context, fid int64) (map[string]any, error) {
	var out struct {
		Users []map[string]any `json:"users"`
	}
	if err := f.do(ctx, http.MethodGet, fmt.Sprintf("/farcaster/user/bulk?fids=%d", fid), nil, &out); err != nil {
		return nil, fmt.Errorf("user profile: %w", err)
	}
	if len(out.Users) == 0 {
		return nil, fmt.Errorf("user profile %d: %w", fid, ErrNotFound)
	}
	return out.Users[0], nil
}

// GetCast fetches a cast by hash.
func (f *FarcasterService) GetCast(ctx context.Context, hash string) (*Cast, error) {
	var out struct {
		Cast *Cast `json:"cast"`
	}
	path := "/farcaster/cast?identifier=" + url.QueryEscape(hash) + "&type=hash"
	if err := f.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get cast: %w", err)
	}
	if out.Cast == nil {
		return nil, fmt.Errorf("cast %s: %w", hash, ErrNotFound)
	}
	return out.Cast, nil
}

func (f *FarcasterService) SearchUsers(ctx context.Context, query string) ([]map[string]any, error) {
	var out struct {
		Result struct {
			Users []map[string]any `json:"users"`
		} `json:"result"`
	}
	if err := f.do(ctx, http.MethodGet, "/farcaster/user/search?q="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if out.Result.Users == nil {
		return []map[string]any{}, nil
	}
	return out.Result.Users, nil
}

// Ping checks that the API key is accepted.
func (f *FarcasterService) Ping(ctx context.Context) error {
	return f.do(ctx, http.MethodGet, "/farcaster/user/bulk?fids=1", nil, nil)
}

func (f *FarcasterService) do(ctx context.Context, method, path string, in, out any) error {
	if f.apiKey == "" {
		return fmt.Errorf("%w: NEYNAR_API_KEY is not set", ErrNotConfigured)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	f.log.Debug("neynar request", zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: neynar %d: %s", ErrUpstream, resp.StatusCode, apiErr.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return nil
}
