package ratelimit

import (
	"context"
	"time"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypePublic  RateLimitType = "public"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeHealth  RateLimitType = "health"
)

type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	BookingRequests int           `json:"booking_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// Limiter decides whether a client may make another request of a given class.
type Limiter interface {
	IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error)
}

func (c *Config) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return c.PublicRequests
	case RateLimitTypeBooking:
		return c.BookingRequests
	case RateLimitTypeHealth:
		return c.HealthRequests
	default:
		return c.DefaultRequests
	}
}

func (c *Config) isWhitelisted(ip string) bool {
	for _, whitelistedIP := range c.WhitelistedIPs {
		if ip == whitelistedIP {
			return true
		}
	}
	return false
}

// bypass reports a full allowance when limiting is off or the client is whitelisted.
func (c *Config) bypass(clientIP string, limitType RateLimitType, now time.Time) (*Result, bool) {
	if c.Enabled && !c.isWhitelisted(clientIP) {
		return nil, false
	}
	limit := c.getLimit(limitType)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit,
		ResetTime: now.Add(c.WindowDuration).Unix(),
	}, true
}
