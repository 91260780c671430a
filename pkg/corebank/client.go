package corebank

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bancosur/corresponsal/pkg/fingerprint"
)

// TokenStore persists the bearer credential issued by the core. The terminal
// backs it with encrypted local storage; tests back it with memory.
type TokenStore interface {
	// Token returns the persisted bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// Save replaces the persisted token.
	Save(ctx context.Context, token string) error

	// Delete removes the persisted token.
	Delete(ctx context.Context) error
}

// GeoProvider reports the device's best-effort coordinates. Returning an
// error is non-fatal: the request is sent with (0,0).
type GeoProvider func(ctx context.Context) (lat, lng float64, err error)

// Client is a client for the core-banking API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore

	// DeviceID identifies this terminal to the core. Its fingerprint is
	// derived once at construction.
	DeviceID string

	// Geo is optional; when nil every request reports coordinates (0,0).
	Geo GeoProvider

	// ActingUser, when set, supplies the id of the agent performing the
	// operation for the implicit device context. Wired to the session
	// manager by the application.
	ActingUser func() string

	deviceFingerprint string
}

// NewClient creates a core-banking API client for the given terminal device.
func NewClient(baseURL, deviceID string, tokens TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Tokens:            tokens,
		DeviceID:          deviceID,
		deviceFingerprint: fingerprint.Hash(deviceID),
	}
}

// DeviceContext is the implicit request context the core expects in every
// request body.
type DeviceContext struct {
	DeviceID          string  `json:"idDispositivo"`
	DeviceFingerprint string  `json:"huellaDispositivo"`
	Latitude          float64 `json:"latitud"`
	Longitude         float64 `json:"longitud"`
	UserID            string  `json:"idUsuario,omitempty"`
}

// deviceContext builds the implicit context, falling back to (0,0) when the
// geolocation provider is absent or fails.
func (c *Client) deviceContext(ctx context.Context) DeviceContext {
	var lat, lng float64
	if c.Geo != nil {
		if la, lo, err := c.Geo(ctx); err == nil {
			lat, lng = la, lo
		}
	}

	var userID string
	if c.ActingUser != nil {
		userID = c.ActingUser()
	}

	return DeviceContext{
		DeviceID:          c.DeviceID,
		DeviceFingerprint: c.deviceFingerprint,
		Latitude:          lat,
		Longitude:         lng,
		UserID:            userID,
	}
}
