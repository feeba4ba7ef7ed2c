package uma

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/pipeline"
)

// CollectClaimsRequest pushes claims about the requesting party onto a
// permission ticket. IdToken is the token asserting the claims, its issuer
// is stamped onto every supplied claim. RedirectUri and State are passed
// back to the client after collection.
type CollectClaimsRequest struct {
	Identity    model.Identity
	Ticket      string
	IdToken     string
	RedirectUri string
	State       string
}

type claimsCollection struct {
	server  *UMAServer
	request CollectClaimsRequest

	client      model.Client
	ticket      model.PermissionTicket
	userDetails []model.SuppliedClaim
	issuer      string
	response    Response
}

// CollectClaims loads the details known about the requesting user, appends
// them to the ticket as supplied claims stamped with the id-token issuer and
// redirects back to the client. A missing user surfaces as
// user_does_not_exist, lookup failures are never ignored.
func (server *UMAServer) CollectClaims(request CollectClaimsRequest) (Response, model.UmaError) {
	exchange := &claimsCollection{server: server, request: request}

	umaErr := pipeline.Run("claimsCollection", []pipeline.Step{
		{Name: "checkClient", Run: exchange.checkClient},
		{Name: "getTicket", Run: exchange.getTicket},
		{Name: "getUserDetails", Run: exchange.getUserDetails},
		{Name: "extractIssuer", Run: exchange.extractIssuer},
		{Name: "attachUserClaims", Run: exchange.attachUserClaims},
		{Name: "sendResponse", Run: exchange.sendResponse},
	})
	return exchange.response, umaErr
}

func (exchange *claimsCollection) checkClient() (bool, model.UmaError) {
	client, umaErr := exchange.server.resolveClient(exchange.request.Identity)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.client = client
	return true, model.UmaError{}
}

func (exchange *claimsCollection) getTicket() (bool, model.UmaError) {
	ticket, umaErr := exchange.server.getTicket(exchange.request.Ticket)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.ticket = ticket
	return true, model.UmaError{}
}

func (exchange *claimsCollection) getUserDetails() (bool, model.UmaError) {
	userDetails, umaErr := exchange.server.model.LoadUserDetails(exchange.request.Identity.User.Id)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.userDetails = userDetails
	return true, model.UmaError{}
}

// extractIssuer parses the presented id token with the client secret and
// takes its iss claim as the issuer of the collected claims.
func (exchange *claimsCollection) extractIssuer() (bool, model.UmaError) {
	if exchange.request.IdToken == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "Claims collection request was missing one or more required fields")
	}

	registeredClaims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(exchange.request.IdToken, &registeredClaims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(exchange.client.ClientSecret), nil
	})
	if err != nil {
		logger.Debugf("Was not able to parse the id token. Err: %v", err)
		return false, model.NewUmaError(model.InvalidToken, "The id token provided is invalid")
	}
	exchange.issuer = registeredClaims.Issuer
	return true, model.UmaError{}
}

func (exchange *claimsCollection) attachUserClaims() (bool, model.UmaError) {
	ticket, umaErr := exchange.server.lifecycle.AppendSuppliedClaims(exchange.ticket, exchange.userDetails, exchange.issuer)
	if umaErr != (model.UmaError{}) {
		return false, umaErr
	}
	exchange.ticket = ticket
	return true, model.UmaError{}
}

func (exchange *claimsCollection) sendResponse() (bool, model.UmaError) {
	redirectUri := exchange.request.RedirectUri
	if redirectUri == "" {
		redirectUri = exchange.client.ClaimsRedirectUri
	}
	if redirectUri == "" {
		return false, model.NewUmaError(model.MissingRequiredFields, "No redirect uri available for claims collection")
	}

	location := redirectUri + "?authorization_state=claims_submitted"
	if exchange.request.State != "" {
		location = location + "&state=" + exchange.request.State
	}

	headers := noStoreHeaders()
	headers["Location"] = location
	exchange.response = Response{
		Status:  http.StatusFound,
		Headers: headers,
	}
	return exchange.server.config.ContinueAfterResponse(), model.UmaError{}
}
