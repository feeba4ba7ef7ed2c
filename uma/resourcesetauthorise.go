package uma

import (
	"net/http"

	"github.com/atricore/uma-authz/claims"
	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

// AuthorizeRequest asks for a requesting party token for the permissions of
// a ticket. Rpt optionally carries a previously issued token.
type AuthorizeRequest struct {
	Identity model.Identity
	Ticket   string
	Rpt      string
}

// requiredClaim is the projection of an unmatched claim requirement sent
// back with a need-info response. The required value is intentionally not
// part of it.
type requiredClaim struct {
	Name             string   `json:"name"`
	FriendlyName     string   `json:"friendly_name"`
	ClaimType        string   `json:"claim_type"`
	ClaimTokenFormat string   `json:"claim_token_format"`
	Issuer           []string `json:"issuer"`
}

type resourceSetAuthorise struct {
	server  *UMAServer
	request AuthorizeRequest

	client       model.Client
	presentedRpt model.RequestingPartyToken
	ticket       model.PermissionTicket
	resourceSet  model.ResourceSet
	evaluation   claims.Result
	rpt          model.RequestingPartyToken
	reissued     bool
	response     Response
}

// Authorize decides whether the claims supplied on the ticket satisfy any
// policy of the referenced resource set. On satisfaction an RPT is minted,
// or the presented one reissued; otherwise a need-info response lists every
// unmatched requirement. Tokens are only minted and persisted for satisfied
// requests.
func (server *UMAServer) Authorize(request AuthorizeRequest) (Response, model.UmaError) {
	exchange := &resourceSetAuthorise{server: server, request: request}

	umaErr := pipeline.Run("resourceSetAuthorise", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "checkRpt", Run: exchange.checkRpt},
		{Name: "getTicket", Run: exchange.getTicket},
		{Name: "authorize", Run: exchange.authorize},
		{Name: "generateRequestingPartyToken", Run: exchange.generateRequestingPartyToken},
		{Name: "saveRequestingPartyToken", Run: exchange.saveRequestingPartyToken},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *resourceSetAuthorise) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

// checkRpt validates a presented RPT. Not presenting one is fine, the token
// will be minted after evaluation instead.
func (exchange *resourceSetAuthorise) checkRpt() (bool, model.UmaError) {
	if exchange.request.Rpt == "" {
		return true, model.UmaError{}
	}

	rpt, umaErr := exchange.server.model.GetRequestingPartyToken(exchange.request.Rpt)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	if rpt.Expires != nil && rpt.Expires.Before(exchange.server.clock.Now()) {
		return false, model.NewUmaError(model.InvalidToken, "The RPT provided has expired")
	}
	exchange.presentedRpt = rpt
	return true, model.UmaError{}
}

func (exchange *resourceSetAuthorise) getTicket() (bool, model.UmaError) {
	ticket, umaErr := exchange.server.getTicket(exchange.request.Ticket)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.ticket = ticket
	return true, model.UmaError{}
}

func (exchange *resourceSetAuthorise) authorize() (bool, model.UmaError) {
	resourceSet, umaErr := exchange.server.model.GetResourceSet(exchange.ticket.Permission.ResourceSetId)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.resourceSet = resourceSet
	exchange.evaluation = claims.Evaluate(resourceSet.Policies, exchange.ticket.Permission.ClaimsSupplied)
	return true, model.UmaError{}
}

func (exchange *resourceSetAuthorise) generateRequestingPartyToken() (bool, model.UmaError) {
	if !exchange.evaluation.Satisfied {
		// nothing to issue for an unsatisfied request
		return true, model.UmaError{}
	}
	exchange.rpt, exchange.reissued = exchange.server.lifecycle.IssueRpt(
		exchange.presentedRpt, exchange.client.ClientId, exchange.request.Identity.User.Id)
	return true, model.UmaError{}
}

func (exchange *resourceSetAuthorise) saveRequestingPartyToken() (bool, model.UmaError) {
	if !exchange.evaluation.Satisfied || exchange.reissued {
		return true, model.UmaError{}
	}
	umaErr := exchange.server.model.SaveRequestingPartyToken(exchange.rpt)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	return true, model.UmaError{}
}

func (exchange *resourceSetAuthorise) sendResponse() (bool, model.UmaError) {
	if exchange.evaluation.Satisfied {
		exchange.response = Response{
			Status:  http.StatusOK,
			Body:    map[string]interface{}{"rpt": exchange.rpt.Token},
			Headers: noStoreHeaders(),
		}
		return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
	}

	requiredClaims := []requiredClaim{}
	for _, unmatched := range exchange.evaluation.Unmatched {
		requiredClaims = append(requiredClaims, requiredClaim{
			Name:             unmatched.Name,
			FriendlyName:     unmatched.FriendlyName,
			ClaimType:        unmatched.ClaimType,
			ClaimTokenFormat: unmatched.ClaimTokenFormat,
			Issuer:           unmatched.Issuer,
		})
	}

	exchange.response = Response{
		Status: http.StatusForbidden,
		Body: map[string]interface{}{
			"error": "need-info",
			"error_details": map[string]interface{}{
				"requesting_party_claims": map[string]interface{}{
					"redirect_user":   true,
					"required_claims": requiredClaims,
					"ticket":          exchange.ticket.Uid,
				},
			},
		},
		Headers: noStoreHeaders(),
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
