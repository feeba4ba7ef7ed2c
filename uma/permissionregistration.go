package uma

import (
	"net/http"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

type RegisterPermissionRequest struct {
	Identity      model.Identity
	ResourceSetId string
	Scopes        string
}

type permissionRegistration struct {
	server  *UMAServer
	request RegisterPermissionRequest

	client        model.Client
	resourceSet   model.ResourceSet
	allowedScopes []string
	ticket        model.PermissionTicket
	response      Response
}

// RegisterPermission creates a permission ticket for the requested resource
// set and scopes. The resource set only has to exist, ownership is not
// checked: permission tickets are requested by the resource server on behalf
// of a requesting party.
func (server *UMAServer) RegisterPermission(request RegisterPermissionRequest) (Response, model.UmaError) {
	exchange := &permissionRegistration{server: server, request: request}

	umaErr := pipeline.Run("permissionRegistration", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "checkScopesAllowed", Run: exchange.checkScopesAllowed},
		{Name: "getResourceSet", Run: exchange.getResourceSet},
		{Name: "savePermissionTicket", Run: exchange.savePermissionTicket},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *permissionRegistration) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *permissionRegistration) checkScopesAllowed() (bool, model.UmaError) {
	if exchange.request.ResourceSetId == "" || exchange.request.Scopes == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Permission request was missing one or more required fields")
	}
	allowedScopes, umaErr := exchange.server.filterRestrictedScopes(exchange.request.Scopes)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.allowedScopes = allowedScopes
	return true, model.UmaError{}
}

func (exchange *permissionRegistration) getResourceSet() (bool, model.UmaError) {
	// existence check only
	resourceSet, umaErr := exchange.server.model.GetResourceSet(exchange.request.ResourceSetId)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.resourceSet = resourceSet
	return true, model.UmaError{}
}

func (exchange *permissionRegistration) savePermissionTicket() (bool, model.UmaError) {
	ticket, umaErr := exchange.server.lifecycle.CreatePermissionTicket(exchange.resourceSet.Id, exchange.allowedScopes)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.ticket = ticket
	return true, model.UmaError{}
}

func (exchange *permissionRegistration) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status:  http.StatusCreated,
		Body:    map[string]interface{}{"ticket": exchange.ticket.Uid},
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
