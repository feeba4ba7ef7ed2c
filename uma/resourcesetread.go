package uma

import (
	"net/http"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

type ReadResourceSetRequest struct {
	Identity model.Identity
	Id       string
}

type resourceSetRead struct {
	server  *UMAServer
	request ReadResourceSetRequest

	client      model.Client
	resourceSet model.ResourceSet
	response    Response
}

// ReadResourceSet returns the projection of a registered resource set.
// Owner and policies are internal and never part of the projection.
func (server *UMAServer) ReadResourceSet(request ReadResourceSetRequest) (Response, model.UmaError) {
	exchange := &resourceSetRead{server: server, request: request}

	umaErr := pipeline.Run("resourceSetRead", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "getResourceSet", Run: exchange.getResourceSet},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *resourceSetRead) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *resourceSetRead) getResourceSet() (bool, model.UmaError) {
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

func (exchange *resourceSetRead) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status: http.StatusOK,
		Body: map[string]interface{}{
			"id":      exchange.resourceSet.Id,
			"name":    exchange.resourceSet.Name,
			"iconUri": exchange.resourceSet.IconUri,
			"type":    exchange.resourceSet.Type,
			"scopes":  exchange.resourceSet.Scopes,
			"uri":     exchange.resourceSet.Uri,
		},
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
