package uploader

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// ProgressFunc receives the transfer ratio in [0,1]. Calls are monotonically
// increasing within one attempt.
type ProgressFunc func(ratio float64)

// TransferEngine performs one file's byte transfer to a presigned storage URL.
// It issues a single PUT and never retries; retry policy lives in
// RetryCoordinator.
type TransferEngine struct {
	client *http.Client
}

func NewTransferEngine(client *http.Client) *TransferEngine {
	if client == nil {
		client = http.DefaultClient
	}
	return &TransferEngine{client: client}
}

// Upload PUTs data to uploadURL. The URL is a time-limited capability, so no
// auth header is attached. Returns a TransportError on a non-2xx status and a
// NetworkError on connectivity failure.
func (t *TransferEngine) Upload(ctx context.Context, uploadURL, contentType string, data []byte, onProgress ProgressFunc) error {
	body := &progressReader{
		r:          bytes.NewReader(data),
		total:      int64(len(data)),
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := t.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &TransportError{StatusCode: resp.StatusCode}
	}

	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

// progressReader counts bytes handed to the transport and reports the ratio
// against the declared total. Ratios never decrease.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	last       float64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 && p.onProgress != nil {
		p.sent += int64(n)
		ratio := float64(p.sent) / float64(p.total)
		if ratio > 1 {
			ratio = 1
		}
		if ratio > p.last {
			p.last = ratio
			p.onProgress(ratio)
		}
	}
	return n, err
}
