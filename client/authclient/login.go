package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/expiry"
	"github.com/joy-dx/gosession/relays"
)

const (
	msgLoginFailed      = "login failed"
	msgInvalidStructure = "invalid response structure"
)

// Login exchanges username and password for a session and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	status, body, receivedAt, err := c.post(ctx, c.cfg.LoginPath, dto.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		c.relay.Warn(relays.RlySessionLog{Component: "authclient", Msg: "login request", Err: err})
		return dto.LoginResponse{}, err
	}

	if status < 200 || status >= 300 {
		apiErr := dto.APIError{Status: status}
		_ = json.Unmarshal(body, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = msgLoginFailed
		}
		c.relay.Info(relays.RlySessionLog{Component: "authclient", Msg: "login rejected: " + msg})
		return dto.LoginResponse{}, &dto.AuthenticationError{Status: status, Message: msg}
	}

	data, ok := decodeCredentials(body)
	if !ok {
		c.relay.Warn(relays.RlySessionLog{Component: "authclient", Msg: "login: " + msgInvalidStructure})
		return dto.LoginResponse{}, &dto.ProtocolError{Msg: msgInvalidStructure}
	}

	creds := c.credentials(data, receivedAt)
	c.store.Store(ctx, creds)
	c.publish(dto.STORED, "logged in", creds.ExpiresAt)
	return data, nil
}

func (c *Client) credentials(data dto.LoginResponse, receivedAt time.Time) dto.Credentials {
	return data.Credentials(expiry.Anchor(data, receivedAt))
}

// decodeCredentials accepts only an envelope with status 200 and a token.
func decodeCredentials(body []byte) (dto.LoginResponse, bool) {
	var env dto.APIResponse[dto.LoginResponse]
	if err := json.Unmarshal(body, &env); err != nil {
		return dto.LoginResponse{}, false
	}
	if env.Status != http.StatusOK || env.Data.Token == "" {
		return dto.LoginResponse{}, false
	}
	return env.Data, true
}
