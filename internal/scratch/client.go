// Package scratch is a client for the Scratch website's public APIs: the
// users API for profile lookups and the site-api comment feed. Both are
// untrusted network services; every non-success response maps to a typed
// failure and nothing here retries.
package scratch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIBaseURL  = "https://api.scratch.mit.edu"
	DefaultSiteBaseURL = "https://scratch.mit.edu"
)

// User is the slice of a Scratch profile this system needs: the account id
// doubles as the client id when a credential is issued.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Client struct {
	apiBase  string
	siteBase string
	http     *http.Client

	// Optional read-through cache for profile lookups. Profile data is the
	// only external fetch safe to cache: comment feeds must always be live.
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewClient(apiBase, siteBase string) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBaseURL
	}
	if siteBase == "" {
		siteBase = DefaultSiteBaseURL
	}
	return &Client{
		apiBase:  strings.TrimSuffix(apiBase, "/"),
		siteBase: strings.TrimSuffix(siteBase, "/"),
		http:     &http.Client{},
	}
}

// WithCache enables the redis-backed profile cache.
func (c *Client) WithCache(cache *redis.Client, ttl time.Duration) *Client {
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

func profileKey(username string) string {
	return "scratch:user:" + strings.ToLower(username)
}

// GetUser looks up a profile by username. Returns nil when the account does
// not exist; any other non-success response is an error.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	key := profileKey(username)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key).Bytes(); err == nil {
			var user User
			if json.Unmarshal(data, &user) == nil {
				return &user, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBase+"/users/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users api: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("users api: decode response: %w", err)
	}

	if c.cache != nil {
		data, _ := json.Marshal(user)
		if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("username", username).Msg("profile cache set failed")
		}
	}
	return &user, nil
}
