package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/ward-roster/internal/config"
)

const (
	AuthPort     = 3000
	authTimeout  = 5 * time.Minute
	callbackPath = "/oauth/callback"
)

// OAuth scopes for Google APIs
const (
	ScopeSheets    = "https://www.googleapis.com/auth/spreadsheets"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"
)

// RequiredScopes are requested together so one token serves both the Sheets and Gmail clients
var RequiredScopes = []string{ScopeSheets, ScopeGmailSend}

var tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	tokenMu sync.Mutex
	// Valid tokens keyed by environment
	tokenCache = map[string]*oauth2.Token{}
)

const successPage = `<html>
	<head><title>Authorization Successful</title></head>
	<body>
		<h1>Authorization successful!</h1>
		<p>You can close this window and return to the ward roster CLI.</p>
	</body>
</html>`

// GetOAuthConfig creates an OAuth2 config that redirects to the local callback server
func GetOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	googleConfig, err := google.ConfigFromJSON(raw, RequiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}
	googleConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)

	return googleConfig, nil
}

// AuthorizedClient returns an HTTP client for the Google APIs and the token behind it.
// The browser consent flow runs only when no usable token is stored for env.
func AuthorizedClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string) (*http.Client, *oauth2.Token, error) {
	oauthConfig, err := GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, nil, err
	}

	token, err := GetTokenWithFlow(ctx, oauthConfig, env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	return oauthConfig.Client(ctx, token), token, nil
}

// ClientForToken returns an HTTP client for a token obtained earlier, refreshing it as needed
func ClientForToken(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token) (*http.Client, error) {
	if token == nil {
		return nil, errors.New("oauth token is required")
	}
	oauthConfig, err := GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, err
	}
	return oauthConfig.Client(ctx, token), nil
}

// GetTokenWithFlow returns a token for env from memory, then disk, then the consent flow.
// Only one flow runs at a time. Stored tokens are refreshed when expired and discarded when
// they lack a required scope.
func GetTokenWithFlow(ctx context.Context, oauthConfig *oauth2.Config, env string) (*oauth2.Token, error) {
	tokenMu.Lock()
	defer tokenMu.Unlock()

	if token := tokenCache[env]; token != nil && token.Valid() {
		return token, nil
	}

	store, err := NewTokenStore(env)
	if err != nil {
		return nil, err
	}

	if token := reuseStoredToken(ctx, oauthConfig, store); token != nil {
		tokenCache[env] = token
		return token, nil
	}

	fmt.Println("No valid token found - starting OAuth flow")
	token, err := authorize(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}

	if err := store.Save(token); err != nil {
		fmt.Printf("Warning: failed to save token to file: %v\n", err)
	}
	tokenCache[env] = token

	return token, nil
}

// reuseStoredToken returns the stored token, refreshed if expired, when it still carries
// every required scope. A token missing scopes is deleted so the next flow starts clean.
func reuseStoredToken(ctx context.Context, oauthConfig *oauth2.Config, store *TokenStore) *oauth2.Token {
	stored, err := store.Load()
	if err != nil {
		fmt.Printf("Warning: failed to load token from file: %v\n", err)
		return nil
	}
	if stored == nil {
		return nil
	}

	token := stored
	if !stored.Valid() {
		if stored.RefreshToken == "" {
			return nil
		}
		refreshed, err := oauthConfig.TokenSource(ctx, stored).Token()
		if err != nil {
			fmt.Printf("Token refresh failed: %v\n", err)
			return nil
		}
		token = refreshed
	}

	if err := checkScopes(ctx, http.DefaultClient, token); err != nil {
		fmt.Printf("Stored token rejected: %v\n", err)
		fmt.Println("Deleting it and starting a new OAuth flow...")
		if err := store.Delete(); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
		return nil
	}

	if token != stored {
		fmt.Println("Token refreshed successfully")
		if err := store.Save(token); err != nil {
			fmt.Printf("Warning: failed to save refreshed token: %v\n", err)
		}
	}
	return token
}

// authorize runs the browser consent flow and exchanges the returned code for a token
func authorize(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	state := uuid.NewString()
	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := waitForCallback(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := checkScopes(ctx, http.DefaultClient, token); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	return token, nil
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler reports the code from Google's redirect. Requests with the wrong state are rejected.
func callbackHandler(state string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var result callbackResult
		switch {
		case query.Get("state") != state:
			result.err = errors.New("oauth state mismatch")
		case query.Get("error") != "":
			result.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
		case query.Get("code") == "":
			result.err = errors.New("no authorization code received")
		default:
			result.code = query.Get("code")
		}

		if result.err != nil {
			http.Error(w, "Authorization failed", http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, successPage)
		}

		// First result wins
		select {
		case results <- result:
		default:
		}
	}
}

// waitForCallback serves the redirect URI locally until a result arrives or the flow times out
func waitForCallback(ctx context.Context, state string) (string, error) {
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.Handle(callbackPath, callbackHandler(state, results))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", AuthPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("server error: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case result := <-results:
		return result.code, result.err
	case <-timeoutCtx.Done():
		return "", fmt.Errorf("authorization timeout after %v", authTimeout)
	}
}

// checkScopes asks Google's tokeninfo endpoint which scopes the token carries
func checkScopes(ctx context.Context, client *http.Client, token *oauth2.Token) error {
	endpoint := tokenInfoURL + "?access_token=" + url.QueryEscape(token.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if missing := missingScopes(info.Scope); len(missing) > 0 {
		return fmt.Errorf("token is missing required scopes: %v", missing)
	}
	return nil
}

// missingScopes returns the required scopes absent from a space-separated granted list
func missingScopes(granted string) []string {
	grantedScopes := strings.Fields(granted)
	var missing []string
	for _, required := range RequiredScopes {
		if !slices.Contains(grantedScopes, required) {
			missing = append(missing, required)
		}
	}
	return missing
}
