package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Config holds the account credentials for the Cloudinary upload API.
type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
}

// Client calls the signed Cloudinary upload and destroy endpoints.
type Client struct {
	server    string
	cloudName string
	apiKey    string
	apiSecret string
	http      *http.Client
	now       func() time.Time
}

// UploadRequest describes one image upload.
type UploadRequest struct {
	Folder   string
	Filename string
	Body     io.Reader
}

// UploadResult carries the fields the catalog keeps from an upload response.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type destroyResult struct {
	Result string `json:"result"`
}

type errorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient instantiates the client with sane defaults.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" {
		return nil, errors.New("cloudinary cloud name is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errors.New("cloudinary api key and secret are required")
	}
	server := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if server == "" {
		server = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		server:    server,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      httpClient,
		now:       time.Now,
	}, nil
}

// Upload sends the image as a signed multipart request.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("cloudinary client not configured")
	}
	if req.Body == nil {
		return nil, errors.New("upload body is required")
	}
	params := map[string]string{"timestamp": c.timestamp()}
	if req.Folder != "" {
		params["folder"] = req.Folder
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for key, value := range c.signed(params) {
		if err := form.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	filename := req.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, req.Body); err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	endpoint, err := c.endpoint("upload")
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	var result UploadResult
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	if result.PublicID == "" {
		return nil, errors.New("cloudinary upload returned no public id")
	}
	return &result, nil
}

// Destroy deletes an uploaded image. Unknown ids are not an error.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if c == nil || c.http == nil {
		return errors.New("cloudinary client not configured")
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return errors.New("public id is required")
	}
	form := url.Values{}
	for key, value := range c.signed(map[string]string{"public_id": publicID, "timestamp": c.timestamp()}) {
		form.Set(key, value)
	}
	endpoint, err := c.endpoint("destroy")
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result destroyResult
	if err := c.do(httpReq, &result); err != nil {
		return err
	}
	switch result.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy returned %q", result.Result)
	}
}

func (c *Client) endpoint(action string) (string, error) {
	cloud, err := runtime.StyleParamWithLocation("simple", false, "cloud_name", runtime.ParamLocationPath, c.cloudName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/image/%s", c.server, cloud, action), nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call cloudinary API: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read cloudinary response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("cloudinary API error: %s", errorMessage(body, resp.Status))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode cloudinary response: %w", err)
	}
	return nil
}

// signed adds api_key and the SHA-1 signature over the sorted parameters.
func (c *Client) signed(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	out["signature"] = Sign(params, c.apiSecret)
	out["api_key"] = c.apiKey
	return out
}

func (c *Client) timestamp() string {
	return strconv.FormatInt(c.now().Unix(), 10)
}

// Sign computes the Cloudinary request signature: sha1("k1=v1&k2=v2" + secret) with keys sorted.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func errorMessage(body []byte, fallback string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		if msg := strings.TrimSpace(parsed.Error.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
