package uma

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

// ClaimRequirementInput is one required claim of a policy-creation request.
type ClaimRequirementInput struct {
	Id               string
	Name             string
	FriendlyName     string
	ClaimType        string
	ClaimTokenFormat string
	Issuer           []string
	Value            string
}

type CreatePolicyRequest struct {
	Identity       model.Identity
	ResourceSetId  string
	Id             string
	Name           string
	Scopes         string
	ClaimsRequired []ClaimRequirementInput
}

type policyCreation struct {
	server  *UMAServer
	request CreatePolicyRequest

	client      model.Client
	resourceSet model.ResourceSet
	policy      model.Policy
	response    Response
}

// CreatePolicy appends a policy to a resource set owned by the requesting
// identity. Policies are append-only, there is no way to delete one on its
// own.
func (server *UMAServer) CreatePolicy(request CreatePolicyRequest) (Response, model.UmaError) {
	exchange := &policyCreation{server: server, request: request}

	umaErr := pipeline.Run("policyCreation", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "getResourceSet", Run: exchange.getResourceSet},
		{Name: "extractPolicy", Run: exchange.extractPolicy},
		{Name: "checkAuthorized", Run: exchange.checkAuthorized},
		{Name: "savePolicy", Run: exchange.savePolicy},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *policyCreation) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *policyCreation) getResourceSet() (bool, model.UmaError) {
	if exchange.request.ResourceSetId == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Policy creation request was missing one or more required fields")
	}
	resourceSet, umaErr := exchange.server.model.GetResourceSet(exchange.request.ResourceSetId)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.resourceSet = resourceSet
	return true, model.UmaError{}
}

func (exchange *policyCreation) extractPolicy() (bool, model.UmaError) {
	if exchange.request.Id == "" || exchange.request.Name == "" || exchange.request.Scopes == "" || len(exchange.request.ClaimsRequired) == 0 {
		return false, model.NewUmaError(model.MissingRequiredFields, "Policy creation request was missing one or more required fields")
	}

	claimsRequired := []model.ClaimRequirement{}
	for _, input := range exchange.request.ClaimsRequired {
		claimId := input.Id
		if claimId == "" {
			claimId = uuid.NewString()
		}
		claimsRequired = append(claimsRequired, model.ClaimRequirement{
			Id:               claimId,
			Name:             input.Name,
			FriendlyName:     input.FriendlyName,
			ClaimType:        input.ClaimType,
			ClaimTokenFormat: input.ClaimTokenFormat,
			Issuer:           input.Issuer,
			Value:            input.Value,
		})
	}

	exchange.policy = model.Policy{
		Id:             exchange.request.Id,
		Name:           exchange.request.Name,
		Scopes:         strings.Fields(exchange.request.Scopes),
		ClaimsRequired: claimsRequired,
	}
	return true, model.UmaError{}
}

func (exchange *policyCreation) checkAuthorized() (bool, model.UmaError) {
	if exchange.resourceSet.Owner != exchange.request.Identity.User.Id {
		return false, model.NewUmaError(model.NotOwner, "Unauthorized resource set request from bad user")
	}
	return true, model.UmaError{}
}

func (exchange *policyCreation) savePolicy() (bool, model.UmaError) {
	exchange.resourceSet.Policies = append(exchange.resourceSet.Policies, exchange.policy)

	umaErr := exchange.server.model.UpdateResourceSet(exchange.resourceSet)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	return true, model.UmaError{}
}

func (exchange *policyCreation) sendResponse() (bool, model.UmaError) {
	exchange.response = Response{
		Status:  http.StatusCreated,
		Body:    exchange.policy,
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
