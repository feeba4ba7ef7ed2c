package storage

import (
	"time"

	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
)

var logger = logging.Log()

// Model is the persistence contract of the authorization core. It has to
// provide read-after-write consistency per entity id and serialize
// concurrent updates to the same entity; the core itself does no locking.
type Model interface {
	// GetClient resolves a client by id. An empty secret skips the secret
	// comparison, this is how workflows re-resolve already authenticated
	// clients.
	GetClient(clientId string, clientSecret string) (model.Client, model.UmaError)

	GetResourceSet(id string) (model.ResourceSet, model.UmaError)
	SaveResourceSet(resourceSet model.ResourceSet) model.UmaError
	UpdateResourceSet(resourceSet model.ResourceSet) model.UmaError
	DeleteResourceSet(id string) model.UmaError

	SavePermissionTicket(ticket model.PermissionTicket) model.UmaError
	GetPermissionTicket(uid string) (model.PermissionTicket, model.UmaError)
	UpdatePermissionTicket(ticket model.PermissionTicket) model.UmaError
	// DeleteExpiredPermissionTickets removes every ticket expired at the
	// given instant and returns how many were removed.
	DeleteExpiredPermissionTickets(now time.Time) (int, model.UmaError)

	SaveRequestingPartyToken(rpt model.RequestingPartyToken) model.UmaError
	GetRequestingPartyToken(token string) (model.RequestingPartyToken, model.UmaError)

	// LoadUserDetails returns the attributes known about the user. The
	// issuer of the returned claims may be empty, claims collection stamps
	// it from the presented id token.
	LoadUserDetails(userId string) ([]model.SuppliedClaim, model.UmaError)
}
