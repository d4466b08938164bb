package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"time"

	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/common"
	"github.com/dmitrijs2005/plantdetector/internal/logging"
	"github.com/dmitrijs2005/plantdetector/internal/netx"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 8 << 20

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	stages  []RequestStage
	log     logging.Logger
}

// NewHTTPClient builds a client for the API at baseURL. Every request runs
// through stages in order; pass BearerToken(session) to authenticate.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger, stages ...RequestStage) (*HTTPClient, error) {
	u, err := netx.ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		stages:  stages,
		log:     log,
	}, nil
}

// BaseURL returns a copy of the API base URL.
func (c *HTTPClient) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, PathPing, nil, "")
	return err
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, PathLogin, creds)
	if err != nil {
		return "", err
	}
	resp, err := decodeOne[models.TokenResponse](PathLogin, data)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathLogout, nil, "")
	return err
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegistrationRequest) error {
	_, err := c.doJSON(ctx, http.MethodPost, PathRegister, req)
	return err
}

func (c *HTTPClient) Upload(ctx context.Context, req models.UploadRequest) (*models.AnalysisResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.Filename))
	h.Set("Content-Type", http.DetectContentType(req.Image))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, PathUpload, &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	result, err := decodeOne[models.AnalysisResult](PathUpload, data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Diseases(ctx context.Context) ([]models.Disease, error) {
	data, err := c.do(ctx, http.MethodGet, PathDiseases, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Disease](PathDiseases, data)
}

func (c *HTTPClient) History(ctx context.Context) ([]models.HistoryEntry, error) {
	data, err := c.do(ctx, http.MethodGet, PathHistory, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[models.HistoryEntry](PathHistory, data)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json")
}

// do sends one request and returns the body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, netx.Endpoint(c.baseURL, path), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, stage := range c.stages {
		if err := stage(req); err != nil {
			return nil, fmt.Errorf("prepare request %s %s: %w", method, path, err)
		}
	}

	log := c.log.With("method", method, "path", path, "request_id", req.Header.Get(common.RequestIDHeaderName))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRequestError(resp.StatusCode, data)
	}
	return data, nil
}

var errEmptyBody = errors.New("empty body")

func decodeOne[T any](endpoint string, data []byte) (T, error) {
	var v T
	if len(bytes.TrimSpace(data)) == 0 {
		return v, &DecodeError{Endpoint: endpoint, Err: errEmptyBody}
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, &DecodeError{Endpoint: endpoint, Err: err}
	}
	if err := checkSchema(v); err != nil {
		return v, &DecodeError{Endpoint: endpoint, Err: err}
	}
	return v, nil
}

func decodeList[T any](endpoint string, data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Endpoint: endpoint, Err: errEmptyBody}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}
	for i, it := range items {
		if err := checkSchema(it); err != nil {
			return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// checkSchema runs the required-field checks declared on response models.
func checkSchema(v any) error {
	if reflect.ValueOf(v).Kind() != reflect.Struct {
		return nil
	}
	return forms.Validate(v)
}
