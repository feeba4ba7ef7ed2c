package uma

import (
	"fmt"
	"strings"

	"github.com/atricore/uma-authz/config"
	"github.com/atricore/uma-authz/lifecycle"
	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/storage"
)

var logger = logging.Log()

// UMAServer bundles the collaborators of the authorization core and exposes
// one operation per workflow. Every operation consumes a request carrying an
// already validated identity context and returns the response to render, or
// a typed error for the transport layer's error handler.
type UMAServer struct {
	model     storage.Model
	config    config.Config
	lifecycle *lifecycle.Manager
	clock     lifecycle.Clock
}

func NewUMAServer(persistence storage.Model, cfg config.Config) *UMAServer {
	return NewUMAServerWithClock(persistence, cfg, lifecycle.RealClock{})
}

func NewUMAServerWithClock(persistence storage.Model, cfg config.Config, clock lifecycle.Clock) *UMAServer {
	return &UMAServer{
		model:     persistence,
		config:    cfg,
		lifecycle: lifecycle.NewManager(persistence, cfg, clock),
		clock:     clock,
	}
}

// Response is the operation-shaped result of a workflow, independent of the
// serving framework.
type Response struct {
	Status  int
	Body    interface{}
	Headers map[string]string
}

// noStoreHeaders are set on every successful response.
func noStoreHeaders() map[string]string {
	return map[string]string{
		"Cache-Control": "no-store",
		"Pragma":        "no-cache",
	}
}

// resolveClient re-resolves the client of the identity context. The secret
// is not checked again, bearer authentication already happened outside.
func (server *UMAServer) resolveClient(identity model.Identity) (model.Client, model.UmaError) {
	if identity.ClientId == "" {
		return model.Client{}, model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	}
	return server.model.GetClient(identity.ClientId, "")
}

// getTicket fetches a permission ticket and enforces its expiration.
func (server *UMAServer) getTicket(uid string) (model.PermissionTicket, model.UmaError) {
	if uid == "" {
		return model.PermissionTicket{}, model.NewUmaError(model.MissingRequiredFields, "Request was missing one or more required fields")
	}
	ticket, umaErr := server.model.GetPermissionTicket(uid)
	if umaErr != (model.UmaError{}) {
		return model.PermissionTicket{}, umaErr
	}
	if ticket.Expiration.Before(server.clock.Now()) {
		logger.Debugf("Ticket %s expired at %v.", ticket.Uid, ticket.Expiration)
		return model.PermissionTicket{}, model.NewUmaError(model.InvalidToken, "The permission ticket provided has expired")
	}
	return ticket, model.UmaError{}
}

// filterRestrictedScopes drops every restricted or reserved scope from the
// space-separated scope parameter. An empty remainder is an invalid_scope
// failure, the caller had nothing but restricted scopes to ask for.
func (server *UMAServer) filterRestrictedScopes(scopeParam string) ([]string, model.UmaError) {
	requestedScopes := strings.Fields(scopeParam)
	restrictedScopes := server.config.RestrictedScopes()

	allowedScopes := []string{}
	for _, requestedScope := range requestedScopes {
		if !contains(restrictedScopes, requestedScope) {
			allowedScopes = append(allowedScopes, requestedScope)
		}
	}
	if len(allowedScopes) == 0 {
		return nil, model.NewUmaError(model.InvalidScope, "Requested scope is not allowed")
	}
	return allowedScopes, model.UmaError{}
}

// policyManagementUri points the owner at the policy endpoint for the
// created resource set.
func policyManagementUri(client model.Client, resourceSetId string) string {
	return fmt.Sprintf("%s/manage/user/policy/%s", client.ClientId, resourceSetId)
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
