package model

import "time"

// Client is the immutable reference data of a registered OAuth2 client.
// Bearer-token authentication happens outside of this module, the client
// is only resolved again to get access to its redirect configuration.
type Client struct {
	ClientId          string `json:"clientId"`
	ClientSecret      string `json:"clientSecret,omitempty"`
	RedirectUri       string `json:"redirectUri,omitempty"`
	ClaimsRedirectUri string `json:"claimsRedirectUri,omitempty"`
}

// ResourceSet as registered by a resource owner. The owner is set at
// registration time and never changes afterwards, policies are appended
// through the policy-creation workflow.
type ResourceSet struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	IconUri  string   `json:"iconUri,omitempty"`
	Type     string   `json:"type,omitempty"`
	Scopes   []string `json:"scopes"`
	Uri      string   `json:"uri,omitempty"`
	Owner    string   `json:"owner"`
	Policies []Policy `json:"policies"`
}

// Policy belongs to exactly one resource set. Policies are appended to the
// resource sets policy list and are never deleted on their own.
type Policy struct {
	Id             string             `json:"id"`
	Name           string             `json:"name"`
	Scopes         []string           `json:"scopes"`
	ClaimsRequired []ClaimRequirement `json:"claimsRequired"`
}

// ClaimRequirement declares a claim a requesting party has to supply to
// satisfy a policy. Immutable once created. The value is matched against
// supplied claims but is not part of the projection returned to requesting
// parties.
type ClaimRequirement struct {
	Id               string   `json:"id"`
	Name             string   `json:"name"`
	FriendlyName     string   `json:"friendlyName,omitempty"`
	ClaimType        string   `json:"claimType,omitempty"`
	ClaimTokenFormat string   `json:"claimTokenFormat,omitempty"`
	Issuer           []string `json:"issuer"`
	Value            string   `json:"value,omitempty"`
}

// SuppliedClaim is a claim asserted about the requesting party during claims
// collection. Supplied claims are appended to the ticket and never removed.
type SuppliedClaim struct {
	Issuer []string `json:"issuer"`
	Name   string   `json:"name"`
	Value  string   `json:"value"`
}

// Permission references the resource set and scopes a ticket was requested
// for, together with the claims collected so far.
type Permission struct {
	ResourceSetId  string          `json:"resourceSetId"`
	Scopes         []string        `json:"scopes"`
	ClaimsSupplied []SuppliedClaim `json:"claimsSupplied"`
}

// PermissionTicket is the short-lived handle a requesting party presents to
// the authorization workflow.
type PermissionTicket struct {
	Uid        string     `json:"uid"`
	Permission Permission `json:"permission"`
	Expiration time.Time  `json:"expiration"`
}

// RequestingPartyToken is minted once the supplied claims satisfy a policy
// on the requested resource set. A nil expiry means the token never expires.
type RequestingPartyToken struct {
	Token    string     `json:"token"`
	ClientId string     `json:"clientId"`
	Expires  *time.Time `json:"expires"`
	User     string     `json:"user"`
}

// User is the already-authenticated requesting identity.
type User struct {
	Id string `json:"id"`
}

// Identity is the validated client/user context every workflow receives from
// the (external) bearer-token layer.
type Identity struct {
	ClientId string `json:"clientId"`
	User     User   `json:"user"`
}

// ProblemDetails is the error body rendered to callers.
type ProblemDetails struct {
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description,omitempty"`
	ErrorDetails     interface{} `json:"error_details,omitempty"`
}
