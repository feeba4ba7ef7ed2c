package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atricore/uma-authz/logging"
)

var logger = logging.Log()

const (
	defaultTicketLifetime = 60 * time.Second
	defaultRptLifetime    = 3600 * time.Second
)

// Config provides the tunables of the authorization core. Implementations
// besides EnvConfig exist for testing.
type Config interface {
	// TicketLifetime is the ttl of newly registered permission tickets.
	TicketLifetime() time.Duration
	// RptLifetime is the lifetime of newly minted requesting party tokens.
	// The second return is false when tokens should never expire.
	RptLifetime() (time.Duration, bool)
	// RestrictedScopes lists the scope names that are reserved and filtered
	// out of every registration.
	RestrictedScopes() []string
	// ContinueAfterResponse decides if steps behind a response step are
	// still executed.
	ContinueAfterResponse() bool
}

type EnvConfig struct{}

func (EnvConfig) TicketLifetime() time.Duration {
	ticketLifetimeEnv := os.Getenv("TICKET_LIFETIME")
	if ticketLifetimeEnv == "" {
		return defaultTicketLifetime
	}
	seconds, err := strconv.Atoi(ticketLifetimeEnv)
	if err != nil || seconds <= 0 {
		logger.Warnf("Invalid TICKET_LIFETIME %s configured, using the default.", ticketLifetimeEnv)
		return defaultTicketLifetime
	}
	return time.Duration(seconds) * time.Second
}

func (EnvConfig) RptLifetime() (time.Duration, bool) {
	rptLifetimeEnv := os.Getenv("RPT_LIFETIME")
	if rptLifetimeEnv == "" {
		return defaultRptLifetime, true
	}
	seconds, err := strconv.Atoi(rptLifetimeEnv)
	if err != nil {
		logger.Warnf("Invalid RPT_LIFETIME %s configured, using the default.", rptLifetimeEnv)
		return defaultRptLifetime, true
	}
	if seconds < 0 {
		// negative lifetime disables expiry
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func (EnvConfig) RestrictedScopes() []string {
	restrictedScopesEnv := os.Getenv("RESTRICTED_SCOPES")
	if restrictedScopesEnv == "" {
		return []string{}
	}
	return strings.Split(restrictedScopesEnv, ",")
}

func (EnvConfig) ContinueAfterResponse() bool {
	continueAfterResponse, err := strconv.ParseBool(os.Getenv("CONTINUE_AFTER_RESPONSE"))
	if err != nil {
		return false
	}
	return continueAfterResponse
}
