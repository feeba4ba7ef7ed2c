package http

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/uma"
)

var logger = logging.Log()

// UmaController translates the http surface into workflow requests. The
// bearer-token layer in front of it is expected to have validated the
// caller already and to expose the identity through the X-Client-Id and
// X-User-Id headers.
type UmaController struct {
	server *uma.UMAServer
}

func NewUmaController(server *uma.UMAServer) *UmaController {
	return &UmaController{server: server}
}

func identityFromRequest(c *gin.Context) model.Identity {
	return model.Identity{
		ClientId: c.GetHeader("X-Client-Id"),
		User:     model.User{Id: c.GetHeader("X-User-Id")},
	}
}

type resourceSetBody struct {
	Name    string `json:"name"`
	IconUri string `json:"icon_uri"`
	Type    string `json:"type"`
	Scopes  string `json:"scopes"`
	Uri     string `json:"uri"`
}

type claimRequirementBody struct {
	Id               string   `json:"id"`
	Name             string   `json:"name"`
	FriendlyName     string   `json:"friendlyName"`
	ClaimType        string   `json:"claimType"`
	ClaimTokenFormat string   `json:"claimTokenFormat"`
	Issuer           []string `json:"issuer"`
	Value            string   `json:"value"`
}

type policyBody struct {
	Id             string                 `json:"id"`
	Name           string                 `json:"name"`
	Scopes         string                 `json:"scopes"`
	ClaimsRequired []claimRequirementBody `json:"claimsRequired"`
}

type permissionBody struct {
	ResourceSetId string `json:"resource_set_id"`
	Scopes        string `json:"scopes"`
}

type authorizeBody struct {
	Ticket string `json:"ticket"`
	Rpt    string `json:"rpt"`
}

type claimsCollectionBody struct {
	Ticket  string `json:"ticket"`
	IdToken string `json:"id_token"`
}

func (controller *UmaController) RegisterResourceSet(c *gin.Context) {
	var body resourceSetBody
	if !readBody(c, &body) {
		return
	}
	response, umaErr := controller.server.RegisterResourceSet(uma.RegisterResourceSetRequest{
		Identity: identityFromRequest(c),
		Name:     body.Name,
		IconUri:  body.IconUri,
		Type:     body.Type,
		Scopes:   body.Scopes,
		Uri:      body.Uri,
	})
	render(c, response, umaErr)
}

func (controller *UmaController) ReadResourceSet(c *gin.Context) {
	response, umaErr := controller.server.ReadResourceSet(uma.ReadResourceSetRequest{
		Identity: identityFromRequest(c),
		Id:       c.Param("id"),
	})
	render(c, response, umaErr)
}

func (controller *UmaController) UpdateResourceSet(c *gin.Context) {
	var body resourceSetBody
	if !readBody(c, &body) {
		return
	}
	response, umaErr := controller.server.UpdateResourceSet(uma.UpdateResourceSetRequest{
		Identity: identityFromRequest(c),
		Id:       c.Param("id"),
		Name:     body.Name,
		IconUri:  body.IconUri,
		Type:     body.Type,
		Scopes:   body.Scopes,
		Uri:      body.Uri,
	})
	render(c, response, umaErr)
}

func (controller *UmaController) DeleteResourceSet(c *gin.Context) {
	response, umaErr := controller.server.DeleteResourceSet(uma.DeleteResourceSetRequest{
		Identity: identityFromRequest(c),
		Id:       c.Param("id"),
	})
	render(c, response, umaErr)
}

func (controller *UmaController) CreatePolicy(c *gin.Context) {
	var body policyBody
	if !readBody(c, &body) {
		return
	}
	claimsRequired := []uma.ClaimRequirementInput{}
	for _, claim := range body.ClaimsRequired {
		claimsRequired = append(claimsRequired, uma.ClaimRequirementInput{
			Id:               claim.Id,
			Name:             claim.Name,
			FriendlyName:     claim.FriendlyName,
			ClaimType:        claim.ClaimType,
			ClaimTokenFormat: claim.ClaimTokenFormat,
			Issuer:           claim.Issuer,
			Value:            claim.Value,
		})
	}
	response, umaErr := controller.server.CreatePolicy(uma.CreatePolicyRequest{
		Identity:       identityFromRequest(c),
		ResourceSetId:  c.Param("rsid"),
		Id:             body.Id,
		Name:           body.Name,
		Scopes:         body.Scopes,
		ClaimsRequired: claimsRequired,
	})
	render(c, response, umaErr)
}

func (controller *UmaController) RegisterPermission(c *gin.Context) {
	var body permissionBody
	if !readBody(c, &body) {
		return
	}
	response, umaErr := controller.server.RegisterPermission(uma.RegisterPermissionRequest{
		Identity:      identityFromRequest(c),
		ResourceSetId: body.ResourceSetId,
		Scopes:        body.Scopes,
	})
	render(c, response, umaErr)
}

func (controller *UmaController) Authorize(c *gin.Context) {
	var body authorizeBody
	if !readBody(c, &body) {
		return
	}
	response, umaErr := controller.server.Authorize(uma.AuthorizeRequest{
		Identity: identityFromRequest(c),
		Ticket:   body.Ticket,
		Rpt:      body.Rpt,
	})
	render(c, response, umaErr)
}

func (controller *UmaController) CollectClaims(c *gin.Context) {
	var body claimsCollectionBody
	if !readBody(c, &body) {
		return
	}
	response, umaErr := controller.server.CollectClaims(uma.CollectClaimsRequest{
		Identity:    identityFromRequest(c),
		Ticket:      body.Ticket,
		IdToken:     body.IdToken,
		RedirectUri: c.Query("redirect_uri"),
		State:       c.Query("state"),
	})
	render(c, response, umaErr)
}

func readBody(c *gin.Context, target interface{}) bool {
	bodyData, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		logger.Debugf("Was not able to read the body, return error %v.", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Error: "invalid_request", ErrorDescription: "Unable to read body"})
		return false
	}
	err = json.Unmarshal(bodyData, target)
	if err != nil {
		logger.Debugf("Was not able to unmarshal request body: %s", string(bodyData))
		c.AbortWithStatusJSON(http.StatusBadRequest, model.ProblemDetails{Error: "invalid_request", ErrorDescription: "Unable to unmarshal body"})
		return false
	}
	return true
}

// render writes the workflow result. Typed errors are rendered with their
// uniform status, internal causes are logged but never exposed.
func render(c *gin.Context, response uma.Response, umaErr model.UmaError) {
	if umaErr != (model.UmaError{}) {
		if umaErr.Kind == model.ServerError {
			logger.Warnf("Request failed with an internal error: %s - %v", umaErr.Message, umaErr.GetRoot())
			c.AbortWithStatusJSON(umaErr.Status, model.ProblemDetails{Error: string(umaErr.Kind), ErrorDescription: "Internal server error"})
			return
		}
		c.AbortWithStatusJSON(umaErr.Status, model.ProblemDetails{Error: string(umaErr.Kind), ErrorDescription: umaErr.Message})
		return
	}

	for name, value := range response.Headers {
		c.Header(name, value)
	}
	if response.Body == nil {
		c.AbortWithStatus(response.Status)
		return
	}
	c.AbortWithStatusJSON(response.Status, response.Body)
}
