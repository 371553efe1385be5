package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"interior-media/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// CallerIDHeader carries the opaque caller identity on authenticated calls.
const CallerIDHeader = "X-Caller-Id"

type PresignRequest struct {
	FileName               string           `json:"file_name"`
	ContentType            string           `json:"content_type"`
	PropertyID             string           `json:"property_id,omitempty"`
	RoomID                 string           `json:"room_id,omitempty"`
	ProductID              string           `json:"product_id,omitempty"`
	ProductSpecificationID string           `json:"product_specification_id,omitempty"`
	DrawingID              string           `json:"drawing_id,omitempty"`
	ImageType              domain.ImageType `json:"image_type"`
}

type ListQuery struct {
	PropertyID string
	RoomID     string
	ProductID  string
	Skip       int
	Limit      int
}

// Client is the REST surface of the image service: presigned-URL tickets,
// status finalization, role reassignment, deletion and listing.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zlog.Zerolog
}

func NewClient(baseURL string, httpClient *http.Client, logger *zlog.Zerolog) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		logger:  logger,
	}
}

// CreatePresignedURL asks the backend for an upload ticket. The backend
// creates the Image record in pending status as a side effect. Fails with an
// AuthenticationError before any network call when token is empty.
func (c *Client) CreatePresignedURL(ctx context.Context, token string, req PresignRequest) (*domain.UploadTicket, error) {
	if token == "" {
		return nil, &AuthenticationError{}
	}

	var ticket domain.UploadTicket
	if err := c.doJSON(ctx, http.MethodPost, "/api/images/presigned-url", token, req, &ticket); err != nil {
		return nil, &ServerError{Op: "presign", Err: err}
	}
	return &ticket, nil
}

// FinalizeStatus marks an image's bytes as landed. Must only be called after
// the transfer succeeded.
func (c *Client) FinalizeStatus(ctx context.Context, token, imageID string, status domain.ImageStatus) error {
	if token == "" {
		return &AuthenticationError{}
	}

	body := map[string]domain.ImageStatus{"status": status}
	path := fmt.Sprintf("/api/images/%s/status", imageID)
	if err := c.doJSON(ctx, http.MethodPatch, path, token, body, nil); err != nil {
		return &ServerError{Op: "finalize", Err: err}
	}
	return nil
}

// UpdateImageType patches only the image's role. A prior MAIN in the same
// scope is not demoted.
func (c *Client) UpdateImageType(ctx context.Context, token, imageID string, imageType domain.ImageType) error {
	if token == "" {
		return &AuthenticationError{}
	}

	body := map[string]domain.ImageType{"image_type": imageType}
	path := fmt.Sprintf("/api/images/%s/type", imageID)
	if err := c.doJSON(ctx, http.MethodPatch, path, token, body, nil); err != nil {
		return &ServerError{Op: "update type", Err: err}
	}
	return nil
}

// DeleteImage hard-deletes the record. No undo; callers refresh dependent
// listings afterward.
func (c *Client) DeleteImage(ctx context.Context, token, imageID string) error {
	if token == "" {
		return &AuthenticationError{}
	}

	path := fmt.Sprintf("/api/images/%s", imageID)
	if err := c.doJSON(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return &ServerError{Op: "delete", Err: err}
	}
	return nil
}

// ListImages returns images in backend insertion order. No identity header is
// attached to listing calls.
func (c *Client) ListImages(ctx context.Context, query ListQuery) ([]domain.Image, error) {
	params := url.Values{}
	if query.PropertyID != "" {
		params.Set("property_id", query.PropertyID)
	}
	if query.RoomID != "" {
		params.Set("room_id", query.RoomID)
	}
	if query.ProductID != "" {
		params.Set("product_id", query.ProductID)
	}
	if query.Skip > 0 {
		params.Set("skip", strconv.Itoa(query.Skip))
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/api/images"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var images []domain.Image
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &images); err != nil {
		return nil, &ServerError{Op: "list", Err: err}
	}
	return images, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(CallerIDHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
