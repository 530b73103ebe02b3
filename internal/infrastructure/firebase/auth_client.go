package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1/token"
)

// TokenInfo is the subset of a verified ID token the services care about.
type TokenInfo struct {
	UID      string
	Email    string
	Name     string
	Picture  string
	Provider string
}

type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client

	identityURL string
	tokenURL    string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:      client,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		identityURL: identityToolkitURL,
		tokenURL:    secureTokenURL,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

func (f *FirebaseAuthClient) VerifyTokenInfo(ctx context.Context, token string) (*TokenInfo, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	info := &TokenInfo{
		UID:      result.UID,
		Provider: result.Firebase.SignInProvider,
	}
	if v, ok := result.Claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := result.Claims["name"].(string); ok {
		info.Name = v
	}
	if v, ok := result.Claims["picture"].(string); ok {
		info.Picture = v
	}
	return info, nil
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
}

type firebaseErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailPassword returns an ID token and refresh token for the account.
func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var out signInResponse
	if err := f.postJSON(ctx, f.identityURL+"/accounts:signInWithPassword", payload, &out); err != nil {
		return "", "", err
	}
	return out.IDToken, out.RefreshToken, nil
}

func (f *FirebaseAuthClient) RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.tokenURL+"?key="+url.QueryEscape(f.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := f.do(req, &out); err != nil {
		return "", "", err
	}
	return out.IDToken, out.RefreshToken, nil
}

// GenerateLongLivedToken mints a custom token and, when an API key is configured,
// exchanges it for an ID token usable as a bearer token.
func (f *FirebaseAuthClient) GenerateLongLivedToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", err
	}

	if f.apiKey == "" {
		return customToken, nil
	}

	payload := map[string]interface{}{
		"token":             customToken,
		"returnSecureToken": true,
	}
	var out signInResponse
	if err := f.postJSON(ctx, f.identityURL+"/accounts:signInWithCustomToken", payload, &out); err != nil {
		return "", err
	}
	return out.IDToken, nil
}

func (f *FirebaseAuthClient) postJSON(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	if f.apiKey == "" {
		return fmt.Errorf("firebase api key is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(f.apiKey), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return f.do(req, out)
}

func (f *FirebaseAuthClient) do(req *http.Request, out interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var fbErr firebaseErrorResponse
		if json.Unmarshal(body, &fbErr) == nil && fbErr.Error.Message != "" {
			return fmt.Errorf("firebase auth: %s", fbErr.Error.Message)
		}
		return fmt.Errorf("firebase auth: unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
