package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/atricore/uma-authz/model"
)

/**
* In-memory implementation of the persistence model. Should only be used for
* dev and testing, does not have any persistence.
 */
type InMemoryRepo struct {
	mutex sync.RWMutex

	clients      map[string]model.Client
	resourceSets map[string]model.ResourceSet
	tickets      map[string]model.PermissionTicket
	rpts         map[string]model.RequestingPartyToken
	userDetails  map[string][]model.SuppliedClaim
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		clients:      map[string]model.Client{},
		resourceSets: map[string]model.ResourceSet{},
		tickets:      map[string]model.PermissionTicket{},
		rpts:         map[string]model.RequestingPartyToken{},
		userDetails:  map[string][]model.SuppliedClaim{},
	}
}

// AddClient registers reference client data. Clients are immutable, there is
// no update path.
func (repo *InMemoryRepo) AddClient(client model.Client) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.clients[client.ClientId] = client
}

// AddUserDetails registers the attributes known about a user.
func (repo *InMemoryRepo) AddUserDetails(userId string, details []model.SuppliedClaim) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.userDetails[userId] = details
}

func (repo *InMemoryRepo) GetClient(clientId string, clientSecret string) (model.Client, model.UmaError) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	client, ok := repo.clients[clientId]
	if !ok {
		logger.Debugf("No such client %s exists.", clientId)
		return model.Client{}, model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	}
	if clientSecret != "" && client.ClientSecret != clientSecret {
		logger.Debugf("Secret for client %s did not match.", clientId)
		return model.Client{}, model.NewUmaError(model.InvalidClient, "Client credentials are invalid")
	}
	return client, model.UmaError{}
}

func (repo *InMemoryRepo) GetResourceSet(id string) (model.ResourceSet, model.UmaError) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	resourceSet, ok := repo.resourceSets[id]
	if !ok {
		logger.Debugf("No such resource set %s exists.", id)
		return model.ResourceSet{}, model.NewUmaError(model.InvalidResourceSetRequested, fmt.Sprintf("Resource set %s not found", id))
	}
	return resourceSet, model.UmaError{}
}

func (repo *InMemoryRepo) SaveResourceSet(resourceSet model.ResourceSet) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.resourceSets[resourceSet.Id] = resourceSet
	return model.UmaError{}
}

func (repo *InMemoryRepo) UpdateResourceSet(resourceSet model.ResourceSet) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.resourceSets[resourceSet.Id]; !ok {
		logger.Debugf("Resource set %s cannot be updated, it does not exist.", resourceSet.Id)
		return model.NewUmaError(model.InvalidResourceSetRequested, fmt.Sprintf("Resource set %s not found", resourceSet.Id))
	}
	repo.resourceSets[resourceSet.Id] = resourceSet
	return model.UmaError{}
}

func (repo *InMemoryRepo) DeleteResourceSet(id string) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.resourceSets[id]; !ok {
		logger.Debugf("Resource set %s cannot be deleted, it does not exist.", id)
		return model.NewUmaError(model.InvalidResourceSetRequested, fmt.Sprintf("Resource set %s not found", id))
	}
	delete(repo.resourceSets, id)
	return model.UmaError{}
}

func (repo *InMemoryRepo) SavePermissionTicket(ticket model.PermissionTicket) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.tickets[ticket.Uid] = ticket
	return model.UmaError{}
}

func (repo *InMemoryRepo) GetPermissionTicket(uid string) (model.PermissionTicket, model.UmaError) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	ticket, ok := repo.tickets[uid]
	if !ok {
		logger.Debugf("No such permission ticket %s exists.", uid)
		return model.PermissionTicket{}, model.NewUmaError(model.InvalidResourceSetRequested, "Permission ticket not found")
	}
	return ticket, model.UmaError{}
}

func (repo *InMemoryRepo) UpdatePermissionTicket(ticket model.PermissionTicket) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.tickets[ticket.Uid]; !ok {
		logger.Debugf("Permission ticket %s cannot be updated, it does not exist.", ticket.Uid)
		return model.NewUmaError(model.InvalidResourceSetRequested, "Permission ticket not found")
	}
	repo.tickets[ticket.Uid] = ticket
	return model.UmaError{}
}

func (repo *InMemoryRepo) DeleteExpiredPermissionTickets(now time.Time) (int, model.UmaError) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	deleted := 0
	for uid, ticket := range repo.tickets {
		if ticket.Expiration.Before(now) {
			delete(repo.tickets, uid)
			deleted++
		}
	}
	return deleted, model.UmaError{}
}

func (repo *InMemoryRepo) SaveRequestingPartyToken(rpt model.RequestingPartyToken) model.UmaError {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.rpts[rpt.Token] = rpt
	return model.UmaError{}
}

func (repo *InMemoryRepo) GetRequestingPartyToken(token string) (model.RequestingPartyToken, model.UmaError) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	rpt, ok := repo.rpts[token]
	if !ok {
		logger.Debugf("No such requesting party token exists.")
		return model.RequestingPartyToken{}, model.NewUmaError(model.InvalidRptToken, "The RPT provided is invalid")
	}
	return rpt, model.UmaError{}
}

func (repo *InMemoryRepo) LoadUserDetails(userId string) ([]model.SuppliedClaim, model.UmaError) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	details, ok := repo.userDetails[userId]
	if !ok {
		logger.Debugf("No details for user %s exist.", userId)
		return nil, model.NewUmaError(model.UserDoesNotExist, fmt.Sprintf("User %s not found", userId))
	}
	return details, model.UmaError{}
}
