package auth

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// tokenLifetime is how long a Yahoo access token stays valid
const tokenLifetime = time.Hour

// Credentials is the on-disk oauth2.json: the app's consumer key pair plus
// the most recent token grant.
type Credentials struct {
	ConsumerKey    string  `json:"consumer_key"`
	ConsumerSecret string  `json:"consumer_secret"`
	AccessToken    string  `json:"access_token,omitempty"`
	RefreshToken   string  `json:"refresh_token,omitempty"`
	TokenType      string  `json:"token_type,omitempty"`
	TokenTime      float64 `json:"token_time,omitempty"`
	GUID           string  `json:"guid,omitempty"`
}

// LoadCredentials reads a credentials file
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return nil, fmt.Errorf("credentials %s: consumer_key and consumer_secret are required", path)
	}
	return &c, nil
}

// Save writes the credentials back, readable by the owner only
func (c *Credentials) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Token converts the stored grant to an oauth2 token. A zero token_time
// yields an already expired token, forcing a refresh.
func (c *Credentials) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.TokenTime > 0 {
		sec, frac := math.Modf(c.TokenTime)
		issued := time.Unix(int64(sec), int64(frac*1e9))
		tok.Expiry = issued.Add(tokenLifetime)
	} else {
		tok.Expiry = time.Unix(1, 0)
	}
	return tok
}

// SetToken stores a fresh grant. Yahoo does not always echo the refresh
// token, so an empty one keeps the previous value.
func (c *Credentials) SetToken(tok *oauth2.Token) {
	c.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
	if tok.TokenType != "" {
		c.TokenType = tok.TokenType
	}
	issued := time.Now()
	if !tok.Expiry.IsZero() {
		issued = tok.Expiry.Add(-tokenLifetime)
	}
	c.TokenTime = float64(issued.UnixNano()) / 1e9
	if guid, ok := tok.Extra("xoauth_yahoo_guid").(string); ok && guid != "" {
		c.GUID = guid
	}
}
