package uma

import (
	"net/http"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

// UpdateResourceSetRequest replaces the mutable fields of a resource set.
// Owner and policy list are kept, the owner is immutable and policies are
// maintained through policy creation.
type UpdateResourceSetRequest struct {
	Identity model.Identity
	Id       string
	Name     string
	IconUri  string
	Type     string
	Scopes   string
	Uri      string
}

type resourceSetUpdate struct {
	server  *UMAServer
	request UpdateResourceSetRequest

	client      model.Client
	resourceSet model.ResourceSet
	response    Response
}

// UpdateResourceSet updates a resource set on behalf of its owner.
func (server *UMAServer) UpdateResourceSet(request UpdateResourceSetRequest) (Response, model.UmaError) {
	exchange := &resourceSetUpdate{server: server, request: request}

	umaErr := pipeline.Run("resourceSetUpdate", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "getResourceSet", Run: exchange.getResourceSet},
		{Name: "checkAuthorized", Run: exchange.checkAuthorized},
		{Name: "updateResourceSet", Run: exchange.updateResourceSet},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *resourceSetUpdate) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *resourceSetUpdate) getResourceSet() (bool, model.UmaError) {
	if exchange.request.Id == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Resource request was missing one or more required fields")
	}
	resourceSet, umaErr := exchange.server.model.GetResourceSet(exchange.request.Id)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.resourceSet = resourceSet
	return true, model.UmaError{}
}

func (exchange *resourceSetUpdate) checkAuthorized() (bool, model.UmaError) {
	if exchange.resourceSet.Owner != exchange.request.Identity.User.Id {
		return false, model.NewUmaError(model.NotOwner, "Unauthorized resource set request from bad user")
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetUpdate) updateResourceSet() (bool, model.UmaError) {
	if exchange.request.Name == "" || exchange.request.Scopes == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Resource request was missing one or more required fields")
	}
	allowedScopes, umaErr := exchange.server.filterRestrictedScopes(exchange.request.Scopes)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}

	exchange.resourceSet.Name = exchange.request.Name
	exchange.resourceSet.IconUri = exchange.request.IconUri
	exchange.resourceSet.Type = exchange.request.Type
	exchange.resourceSet.Scopes = allowedScopes
	exchange.resourceSet.Uri = exchange.request.Uri

	umaErr = exchange.server.model.UpdateResourceSet(exchange.resourceSet)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetUpdate) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status:  http.StatusOK,
		Body:    map[string]interface{}{"id": exchange.resourceSet.Id},
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
