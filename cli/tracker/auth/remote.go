package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RemoteVerifier delegates credential validation to an external token
// introspection endpoint. The endpoint receives the token in an
// Authorization header and answers 200 with `{"sub": "..."}` for a valid
// credential, anything else rejects it.
type RemoteVerifier struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

func NewRemoteVerifier(endpoint string, timeout time.Duration) *RemoteVerifier {
	return &RemoteVerifier{
		endpoint: endpoint,
		client:   &http.Client{},
		timeout:  timeout,
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, nil)
	if err != nil {
		return Principal{}, fmt.Errorf("building verification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Principal{}, ErrTimeout
		}
		return Principal{}, fmt.Errorf("calling verifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Principal{}, ErrInvalidToken
	}

	var body struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Principal{}, fmt.Errorf("decoding verifier response: %w", err)
	}
	return Principal{Subject: body.Sub}, nil
}
