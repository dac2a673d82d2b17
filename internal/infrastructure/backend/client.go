// Package backend is the HTTP client for the external user backend. All
// authentication, persistence and business validation live on the other side
// of this client; the gateway only forwards cookies and classifies failures.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/dashboard/internal/api/metrics"
	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client calls the user backend's REST surface. Every request carries the
// session cookie it was given, honors its context, and is bounded by the
// client timeout.
type Client struct {
	baseURL    string
	cookieName string
	http       *http.Client
	logger     zerolog.Logger
}

// New returns a Client for the backend at baseURL. cookieName is the name of
// the session cookie the backend issues and expects back.
func New(baseURL, cookieName string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		http:       &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// --- Wire types (the backend's JSON shapes, Mongo/Express style) ---

type wireUser struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w wireUser) toDomain() *domain.User {
	return &domain.User{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		Image:     w.Image,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type userEnvelope struct {
	User    *wireUser `json:"user"`
	Message string    `json:"message"`
}

type usersEnvelope struct {
	Users   []wireUser `json:"users"`
	Message string     `json:"message"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// --- Auth operations ---

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	return c.authCall(ctx, "/auth/login", body)
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	body := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     in.Role,
	}
	return c.authCall(ctx, "/auth/register", body)
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*ports.AuthResult, error) {
	resp, err := c.do(ctx, http.MethodPost, path, "", jsonBody(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env userEnvelope
	if err := c.decode(resp, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &domain.BackendError{StatusCode: resp.StatusCode, Message: "backend returned no user"}
	}
	return &ports.AuthResult{
		User:    env.User.toDomain(),
		Message: env.Message,
		Cookies: resp.Cookies(),
	}, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, &messageEnvelope{})
}

// --- User operations ---

func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/user", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env userEnvelope
	if err := c.decode(resp, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, domain.ErrUnauthenticated
	}
	return env.User.toDomain(), nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/all-user", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env usersEnvelope
	if err := c.decode(resp, &env); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(env.Users))
	for _, wu := range env.Users {
		users = append(users, *wu.toDomain())
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, string, error) {
	body := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     in.Role,
	}
	if in.Image != "" {
		body["image"] = in.Image
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/create", token, jsonBody(body))
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var env userEnvelope
	if err := c.decode(resp, &env); err != nil {
		return nil, "", err
	}
	if env.User == nil {
		return nil, "", &domain.BackendError{StatusCode: resp.StatusCode, Message: "backend returned no user"}
	}
	return env.User.toDomain(), env.Message, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
	body := map[string]string{}
	if in.Name != "" {
		body["name"] = in.Name
	}
	if in.Email != "" {
		body["email"] = in.Email
	}
	if in.Role != "" {
		body["role"] = in.Role
	}
	if in.Image != "" {
		body["image"] = in.Image
	}
	resp, err := c.do(ctx, http.MethodPut, "/api/user-update/"+id, token, jsonBody(body))
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var env userEnvelope
	if err := c.decode(resp, &env); err != nil {
		return nil, "", err
	}
	var user *domain.User
	if env.User != nil {
		user = env.User.toDomain()
	}
	return user, env.Message, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) (string, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/api/user-delete/"+id, token, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env messageEnvelope
	if err := c.decode(resp, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) BulkUpload(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bulk-user", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.attachCookie(req, token)

	resp, err := c.send(req, "/api/bulk-user")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env messageEnvelope
	if err := c.decode(resp, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// --- Plumbing ---

type requestBody struct {
	reader      io.Reader
	contentType string
}

func jsonBody(v any) *requestBody {
	raw, _ := json.Marshal(v)
	return &requestBody{reader: bytes.NewReader(raw), contentType: "application/json"}
}

func (c *Client) do(ctx context.Context, method, path, token string, body *requestBody) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = body.reader
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.attachCookie(req, token)

	return c.send(req, path)
}

func (c *Client) attachCookie(req *http.Request, token string) {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: token})
	}
}

func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendErrorsTotal.WithLabelValues("network").Inc()
		c.logger.Error().Err(err).Str("path", path).Msg("backend request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	return resp, nil
}

// decode maps the response to out on 2xx and to a classified error
// otherwise. The backend reports failures as {"message": "..."}; that
// message is preserved for 4xx responses and dropped for 5xx, where a
// generic message is safer than whatever the backend crashed with.
func (c *Client) decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			metrics.BackendErrorsTotal.WithLabelValues("decode").Inc()
			return &domain.BackendError{StatusCode: resp.StatusCode, Message: "malformed backend response"}
		}
		return nil
	}

	var env messageEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 8192)).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.BackendErrorsTotal.WithLabelValues("auth").Inc()
		return domain.ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		metrics.BackendErrorsTotal.WithLabelValues("not_found").Inc()
		return domain.ErrUserNotFound
	case resp.StatusCode >= 500:
		metrics.BackendErrorsTotal.WithLabelValues("server").Inc()
		c.logger.Error().Int("status", resp.StatusCode).Str("message", env.Message).Msg("backend server error")
		return &domain.BackendError{StatusCode: resp.StatusCode}
	default:
		metrics.BackendErrorsTotal.WithLabelValues("client").Inc()
		return &domain.BackendError{StatusCode: resp.StatusCode, Message: env.Message}
	}
}
