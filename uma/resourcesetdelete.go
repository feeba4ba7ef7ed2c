package uma

import (
	"net/http"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

type DeleteResourceSetRequest struct {
	Identity model.Identity
	Id       string
}

type resourceSetDelete struct {
	server  *UMAServer
	request DeleteResourceSetRequest

	client      model.Client
	resourceSet model.ResourceSet
	response    Response
}

// DeleteResourceSet removes a resource set. Deleting an unknown id fails
// with invalid_resource_set_requested, the 204 is only sent for an actual
// deletion.
func (server *UMAServer) DeleteResourceSet(request DeleteResourceSetRequest) (Response, model.UmaError) {
	exchange := &resourceSetDelete{server: server, request: request}

	umaErr := pipeline.Run("resourceSetDelete", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "getResourceSet", Run: exchange.getResourceSet},
		{Name: "deleteResourceSet", Run: exchange.deleteResourceSet},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *resourceSetDelete) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *resourceSetDelete) getResourceSet() (bool, model.UmaError) {
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

func (exchange *resourceSetDelete) deleteResourceSet() (bool, model.UmaError) {
	umaErr := exchange.server.model.DeleteResourceSet(exchange.resourceSet.Id)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetDelete) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status:  http.StatusNoContent,
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
