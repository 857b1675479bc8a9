package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient ходит в тестовый сервер и раскладывает JSON-ответ в dest при 2xx,
// иначе в errDest.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(
	baseURL string,
	httpClient *http.Client,
) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// FormFile: файловая часть multipart-запроса.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// Form: тело запроса multipart/form-data.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

func (f Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for _, file := range f.Files {
		fw, err := mw.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("mw.CreateFormFile: %w", err)
		}

		if _, err := fw.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("fw.Write: %w", err)
		}
	}

	for name, value := range f.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("mw.WriteField: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("mw.Close: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

func (a APIClient) Get(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodGet, endpoint, headers, http.NoBody, dest, errDest)
}

func (a APIClient) Post(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	request any,
	dest any,
	errDest any,
) (*http.Response, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, bytes.NewReader(b), dest, errDest)
}

// PostJSON отправляет requestJSON как есть, для битых тел.
func (a APIClient) PostJSON(
	ctx context.Context,
	endpoint string,
	headers http.Header,
	requestJSON string,
	dest any,
	errDest any,
) (*http.Response, error) {
	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, bytes.NewReader([]byte(requestJSON)), dest, errDest)
}

// Upload отправляет form как multipart/form-data.
func (a APIClient) Upload(
	ctx context.Context,
	endpoint string,
	form Form,
	dest any,
	errDest any,
) (*http.Response, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("form.encode: %w", err)
	}

	headers := http.Header{"Content-Type": []string{contentType}}

	return a.httpRequest(ctx, http.MethodPost, endpoint, headers, body, dest, errDest)
}

func (a APIClient) httpRequest(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	headers http.Header,
	payload io.Reader,
	dest any,
	errDest any,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, httpMethod, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if httpMethod == http.MethodPost && headers.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	log.Printf("%s %s -> %d %s", req.Method, req.URL.Path, resp.StatusCode, body)

	if err = parseResponse(resp.StatusCode, body, dest, errDest); err != nil {
		return nil, fmt.Errorf("parseResponse: %w", err)
	}

	return resp, nil
}

func parseResponse(status int, body []byte, dest, errDest any) error {
	target, kind := errDest, "err"
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		target, kind = dest, "success"
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("json.Unmarshal(%s destination): %w", kind, errors.Join(ErrUnexpectedBody, err))
	}

	return nil
}

var ErrUnexpectedBody = errors.New("unexpected response body")
