package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"rightssphere/metrics"

	"go.uber.org/zap"
)

const pinataAuthMessage = "Congratulations! You are communicating with the Pinata API!"

// PinataService pins content to IPFS through Pinata.
type PinataService struct {
	baseURL    string
	gatewayURL string
	jwt        string
	client     *http.Client
	log        *zap.Logger
}

func NewPinataService(baseURL, gatewayURL, jwt string, client *http.Client, log *zap.Logger) *PinataService {
	return &PinataService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		jwt:        strings.TrimSpace(jwt),
		client:     client,
		log:        log.Named("pinata"),
	}
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues"`
}

func (p *PinataService) URL(hash string) string {
	return p.gatewayURL + "/" + hash
}

func (p *PinataService) PinFile(ctx context.Context, filename, contentType string, r io.Reader, meta map[string]string) (*PinResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("pin file: read content: %w", err)
	}

	if meta != nil {
		b, err := json.Marshal(pinataMetadata{Name: filename, KeyValues: meta})
		if err != nil {
			return nil, err
		}
		if err := mw.WriteField("pinataMetadata", string(b)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	res, err := p.pin(ctx, "/pinning/pinFileToIPFS", mw.FormDataContentType(), &buf)
	metrics.PinUploads.WithLabelValues("file", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("pin file: %w", err)
	}
	return res, nil
}

func (p *PinataService) PinJSON(ctx context.Context, filename string, v any, meta map[string]string) (*PinResult, error) {
	if meta == nil {
		meta = map[string]string{}
	}
	b, err := json.Marshal(struct {
		PinataContent  any            `json:"pinataContent"`
		PinataMetadata pinataMetadata `json:"pinataMetadata"`
	}{v, pinataMetadata{Name: filename, KeyValues: meta}})
	if err != nil {
		return nil, fmt.Errorf("pin json: %w", err)
	}

	res, err := p.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(b))
	metrics.PinUploads.WithLabelValues("json", metrics.Status(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("pin json: %w", err)
	}
	return res, nil
}

// Ping checks the JWT against Pinata's authentication test endpoint.
func (p *PinataService) Ping(ctx context.Context) error {
	if p.jwt == "" {
		return fmt.Errorf("pinata: %w", ErrNotConfigured)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/data/testAuthentication", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.jwt)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Message != pinataAuthMessage {
		return fmt.Errorf("%w: pinata authentication test failed (status %d)", ErrUpstream, resp.StatusCode)
	}
	return nil
}

func (p *PinataService) pin(ctx context.Context, path, contentType string, body io.Reader) (*PinResult, error) {
	if p.jwt == "" {
		return nil, fmt.Errorf("%w: PINATA_JWT is not set", ErrNotConfigured)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.jwt)
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		p.log.Warn("pinata rejected upload", zap.String("path", path), zap.Int("status", resp.StatusCode), zap.ByteString("body", raw))
		return nil, fmt.Errorf("%w: pinata %d", ErrUpstream, resp.StatusCode)
	}

	var out pinataResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if out.IpfsHash == "" {
		return nil, fmt.Errorf("%w: pinata returned no hash", ErrUpstream)
	}
	return &PinResult{Hash: out.IpfsHash, URL: p.URL(out.IpfsHash)}, nil
}
