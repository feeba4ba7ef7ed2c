package uma

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

// RegisterResourceSetRequest carries the fields of a resource set
// registration. Scopes is the space-separated scope parameter.
type RegisterResourceSetRequest struct {
	Identity model.Identity
	Name     string
	IconUri  string
	Type     string
	Scopes   string
	Uri      string
}

type resourceSetRegistration struct {
	server  *UMAServer
	request RegisterResourceSetRequest

	client      model.Client
	resourceSet model.ResourceSet
	response    Response
}

// RegisterResourceSet registers a new resource set for the requesting
// identity. Restricted scopes are silently dropped, a registration left
// without any scope fails with invalid_scope.
func (server *UMAServer) RegisterResourceSet(request RegisterResourceSetRequest) (Response, model.UmaError) {
	exchange := &resourceSetRegistration{server: server, request: request}

	umaErr := pipeline.Run("resourceSetRegistration", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "extractResourceSet", Run: exchange.extractResourceSet},
		{Name: "saveResourceSet", Run: exchange.saveResourceSet},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *resourceSetRegistration) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *resourceSetRegistration) extractResourceSet() (bool, model.UmaError) {
	if exchange.request.Name == "" || exchange.request.Scopes == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Resource request was missing one or more required fields")
	}

	allowedScopes, umaErr := exchange.server.filterRestrictedScopes(exchange.request.Scopes)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}

	exchange.resourceSet = model.ResourceSet{
		Id:       uuid.NewString(),
		Name:     exchange.request.Name,
		IconUri:  exchange.request.IconUri,
		Type:     exchange.request.Type,
		Scopes:   allowedScopes,
		Uri:      exchange.request.Uri,
		Owner:    exchange.request.Identity.User.Id,
		Policies: []model.Policy{},
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetRegistration) saveResourceSet() (bool, model.UmaError) {
	umaErr := exchange.server.model.SaveResourceSet(exchange.resourceSet)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetRegistration) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status: http.StatusCreated,
		Body: map[string]interface{}{
			"id":                  exchange.resourceSet.Id,
			"policyManagementUri": policyManagementUri(exchange.client, exchange.resourceSet.Id),
		},
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
