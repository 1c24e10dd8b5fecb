package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult mirrors the login endpoint payload. The nested shapes belong
// to the backend and are kept raw for the caller to decode as needed.
type LoginResult struct {
	Token          string          `json:"token"`
	ProfileDetails json.RawMessage `json:"profileDetails,omitempty"`
	Role           json.RawMessage `json:"role,omitempty"`
	Permissions    json.RawMessage `json:"permissionRes,omitempty"`
	CompanyDetails json.RawMessage `json:"companyDetails,omitempty"`
	CurrencySymbol string          `json:"currencySymbol,omitempty"`
}

type loginEnvelope struct {
	Status int         `json:"status"`
	Data   LoginResult `json:"data"`
}

// Login authenticates against the backend. It is the one backend call that
// does not require an existing session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	var env loginEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("login returned a non-JSON body: %s", snippet(raw)),
			kind:    ErrMalformedResponse,
		}
	}
	if env.Data.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &env.Data, nil
}
