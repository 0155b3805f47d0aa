package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const tokenCacheFileName = "strava_token.json"

var stravaEndpoint = oauth2.Endpoint{
	TokenURL: "https://www.strava.com/oauth/token",
}

// TokenProvider hands out valid Strava access tokens, refreshing them via
// OAuth 2 when expired and persisting the refreshed token to disk so a
// restart does not burn the refresh token chain.
type TokenProvider struct {
	mutex          sync.Mutex
	tokenSource    oauth2.TokenSource
	tokenCachePath string
	lastToken      *oauth2.Token
}

func NewTokenProvider(ctx context.Context, clientID, clientSecret, refreshToken, dataDir string) (*TokenProvider, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     stravaEndpoint,
	}

	tokenCachePath := filepath.Join(dataDir, tokenCacheFileName)

	token := loadCachedToken(tokenCachePath)
	if token == nil {
		token = &oauth2.Token{RefreshToken: refreshToken}
	}

	return &TokenProvider{
		tokenSource:    conf.TokenSource(ctx, token),
		tokenCachePath: tokenCachePath,
	}, nil
}

// Token implements oauth2.TokenSource.
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	token, err := p.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("get strava token: %w", err)
	}

	if p.lastToken == nil || p.lastToken.AccessToken != token.AccessToken {
		p.lastToken = token
		p.saveToken(token)
	}

	return token, nil
}

func (p *TokenProvider) saveToken(token *oauth2.Token) {
	tokenBytes, err := json.Marshal(token)
	if err != nil {
		log.Errorf("marshal strava token: %s", err)
		return
	}
	if err := os.WriteFile(p.tokenCachePath, tokenBytes, 0o600); err != nil {
		log.Errorf("save strava token to %s: %s", p.tokenCachePath, err)
		return
	}
	log.Tracef("strava token cached to %s", p.tokenCachePath)
}

func loadCachedToken(path string) *oauth2.Token {
	tokenBytes, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenBytes, &token); err != nil {
		log.Errorf("unmarshal cached strava token: %s", err)
		return nil
	}
	return &token
}
