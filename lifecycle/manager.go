package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/atricore/uma-authz/config"
	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/storage"
)

var logger = logging.Log()

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// Manager owns the lifecycle of permission tickets and requesting party
// tokens. All state changes go through the persistence model.
type Manager struct {
	model  storage.Model
	config config.Config
	clock  Clock
}

func NewManager(persistence storage.Model, cfg config.Config, clock Clock) *Manager {
	return &Manager{model: persistence, config: cfg, clock: clock}
}

// CreatePermissionTicket mints a fresh ticket for the resource set and
// scopes, with a generated uid, the configured ttl and no supplied claims,
// and persists it.
func (manager *Manager) CreatePermissionTicket(resourceSetId string, scopes []string) (model.PermissionTicket, model.UmaError) {
	ticket := model.PermissionTicket{
		Uid: uuid.NewString(),
		Permission: model.Permission{
			ResourceSetId:  resourceSetId,
			Scopes:         scopes,
			ClaimsSupplied: []model.SuppliedClaim{},
		},
		Expiration: manager.clock.Now().Add(manager.config.TicketLifetime()),
	}
	umaErr := manager.model.SavePermissionTicket(ticket)
	if umaErr != (model.UmaError{}) {
		return model.PermissionTicket{}, umaErr
	}
	logger.Debugf("Created permission ticket %s for resource set %s.", ticket.Uid, resourceSetId)
	return ticket, model.UmaError{}
}

// AppendSuppliedClaims appends the given attributes as supplied claims,
// each stamped with the given issuer, and persists the updated ticket.
// Supplied claims are only ever appended, never removed.
func (manager *Manager) AppendSuppliedClaims(ticket model.PermissionTicket, attributes []model.SuppliedClaim, issuer string) (model.PermissionTicket, model.UmaError) {
	for _, attribute := range attributes {
		ticket.Permission.ClaimsSupplied = append(ticket.Permission.ClaimsSupplied, model.SuppliedClaim{
			Issuer: []string{issuer},
			Name:   attribute.Name,
			Value:  attribute.Value,
		})
	}
	umaErr := manager.model.UpdatePermissionTicket(ticket)
	if umaErr != (model.UmaError{}) {
		return model.PermissionTicket{}, umaErr
	}
	logger.Debugf("Appended %d supplied claims to ticket %s.", len(attributes), ticket.Uid)
	return ticket, model.UmaError{}
}

// IssueRpt returns the requesting party token for the authorization
// response. When the caller presented a currently valid, unexpired RPT it is
// handed back unchanged and reported as a reissue, nothing new is minted.
// Otherwise a fresh opaque token with the configured lifetime is built; the
// returned token is not yet persisted, persisting is a separate workflow
// step.
func (manager *Manager) IssueRpt(existing model.RequestingPartyToken, clientId string, user string) (rpt model.RequestingPartyToken, reissued bool) {
	now := manager.clock.Now()

	if existing.Token != "" && !isExpired(existing, now) {
		logger.Debugf("Reissue currently valid rpt for client %s.", clientId)
		return existing, true
	}

	rpt = model.RequestingPartyToken{
		Token:    uuid.NewString(),
		ClientId: clientId,
		User:     user,
	}
	if lifetime, expires := manager.config.RptLifetime(); expires {
		expiration := now.Add(lifetime)
		rpt.Expires = &expiration
	}
	return rpt, false
}

func isExpired(rpt model.RequestingPartyToken, now time.Time) bool {
	return rpt.Expires != nil && rpt.Expires.Before(now)
}
