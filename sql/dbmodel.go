package sql

import "time"

type Client struct {
	ID                string
	ClientSecret      string
	RedirectUri       string
	ClaimsRedirectUri string
}

type ResourceSet struct {
	ID       string
	Name     string
	IconUri  string
	Type     string
	Scopes   string
	Uri      string
	Owner    string
	Policies []Policy `ref:"id" fk:"resource_set" auto:"true"`
}

type Policy struct {
	ID             string
	Name           string
	Scopes         string
	ClaimsRequired []ClaimRequirement `ref:"id" fk:"policy" auto:"true"`

	// ref to the resource set
	ResourceSetRef ResourceSet `ref:"resource_set" fk:"id" auto:"true"`
	ResourceSet    string
}

type ClaimRequirement struct {
	ID               string
	Name             string
	FriendlyName     string
	ClaimType        string
	ClaimTokenFormat string
	Issuer           string
	Value            string

	// ref to the policy
	PolicyRef Policy `ref:"policy" fk:"id" auto:"true"`
	Policy    string
}

type PermissionTicket struct {
	Uid            string `db:",primary"`
	ResourceSet    string
	Scopes         string
	Expiration     time.Time
	ClaimsSupplied []SuppliedClaim `ref:"uid" fk:"ticket" auto:"true"`
}

type SuppliedClaim struct {
	ID     int
	Issuer string
	Name   string
	Value  string

	// ref to the ticket
	TicketRef PermissionTicket `ref:"ticket" fk:"uid" auto:"true"`
	Ticket    string
}

type RequestingPartyToken struct {
	Token    string `db:",primary"`
	ClientId string
	Expires  *time.Time
	User     string
}

type UserDetail struct {
	ID     int
	UserId string
	Issuer string
	Name   string
	Value  string
}
