package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"
	"github.com/sigurn/crc16"

	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/logger"
)

// saltingKey is appended to console passwords before hashing. It has to
// match the key baked into the console deployment.
const saltingKey = "fL@.P47H$P!fmcdc"

const (
	authPath        = "/v2/console/authenticate"
	healthcheckPath = "/v2/console/api/endpoints/rpc/healthcheck"
	createUserPath  = "/v2/console/user"
)

// Config carries the console connection settings.
type Config struct {
	// Endpoint is the console base URL, e.g. http://127.0.0.1:7351.
	Endpoint string
	// Username of the console service account.
	Username string
	// Password of the console service account, unsalted.
	Password string
	// ServerKeyName and ServerKey are the basic auth pair for the
	// authenticate endpoint.
	ServerKeyName string
	ServerKey     string
}

// Client talks to the Nakama console before authentication. The only
// thing it can do is exchange credentials for a session token; skill
// lookups live on the AuthenticatedClient that Authenticate returns.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// AuthenticatedClient is a console client holding a session token.
type AuthenticatedClient struct {
	cfg          Config
	httpClient   *http.Client
	token        string
	refreshToken string
}

// NewClient creates an unauthenticated console client. The password is
// salted here, so Config keeps the plaintext and the wire never sees it.
func NewClient(cfg Config) *Client {
	cfg.Password = SaltPassword(cfg.Password)
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SaltPassword appends the fixed salt and an uppercase hex
// CRC-16/CDMA2000 checksum of password+salt, the shape the console
// expects for service account credentials.
func SaltPassword(password string) string {
	table := crc16.MakeTable(crc16.CRC16_CDMA2000)
	sum := crc16.Checksum([]byte(password+saltingKey), table)
	return fmt.Sprintf("%s%s%X", password, saltingKey, sum)
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate exchanges the configured credentials for a console
// session token.
func (c *Client) Authenticate(ctx context.Context) (*AuthenticatedClient, error) {
	body, err := json.Marshal(authRequest{
		Username: c.cfg.Username,
		Password: c.cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint+authPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.ServerKeyName, c.cfg.ServerKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("console auth failed: %s - %s", resp.Status, string(respBody))
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, err
	}

	return &AuthenticatedClient{
		cfg:          c.cfg,
		httpClient:   c.httpClient,
		token:        auth.Token,
		refreshToken: auth.RefreshToken,
	}, nil
}

// rpcResponse is the console envelope around RPC results. The body
// arrives as a JSON-encoded string and needs a second decode.
type rpcResponse struct {
	Body         string `json:"body"`
	ErrorMessage string `json:"error_message"`
}

type healthcheckResponse struct {
	Success bool `json:"success"`
}

// SkillRating asks the console for the rating a player should queue
// with. The ranking service is not live yet, so the call runs the
// healthcheck RPC to prove the console is reachable and hands back the
// default openskill rating; loadout is not factored in until then.
func (c *AuthenticatedClient) SkillRating(ctx context.Context, playerID string, loadout string) (domain.SkillRating, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint+healthcheckPath, nil)
	if err != nil {
		return domain.SkillRating{}, err
	}
	// Console tokens come back with a leading "=" the API rejects.
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(c.token, "="))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SkillRating{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.SkillRating{}, fmt.Errorf("console rpc failed: %s - %s", resp.Status, string(respBody))
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.SkillRating{}, err
	}

	var health healthcheckResponse
	if err := json.Unmarshal([]byte(envelope.Body), &health); err != nil {
		return domain.SkillRating{}, err
	}
	logger.Debug("skill oracle healthcheck", "player_id", playerID, "success", health.Success)

	r := rating.NewWithOptions(&types.OpenSkillOptions{})
	return domain.SkillRating{
		Rating:          r.Mu,
		LoadoutModifier: 1.0,
		Uncertainty:     r.Sigma,
	}, nil
}

type createUserRequest struct {
	Username               string `json:"username"`
	Password               string `json:"password"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	NewsletterSubscription bool   `json:"newsletter_subscription"`
}

// CreateAdminUser provisions a console admin account. The password is
// salted the same way Authenticate presents it, so the new account can
// log in through this client afterwards.
func (c *AuthenticatedClient) CreateAdminUser(ctx context.Context, username, password string) error {
	body, err := json.Marshal(createUserRequest{
		Username:               username,
		Password:               SaltPassword(password),
		Email:                  "nakama.admin@mhth.net",
		Role:                   "USER_ROLE_ADMIN",
		NewsletterSubscription: false,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint+createUserPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(c.token, "="))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("console create user failed: %s - %s", resp.Status, string(respBody))
	}

	return nil
}
