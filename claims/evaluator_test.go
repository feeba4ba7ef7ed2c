package claims

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"github.com/atricore/uma-authz/logging"
	"github.com/atricore/uma-authz/model"
)

func getRequirement(name string, value string, issuer ...string) model.ClaimRequirement {
	return model.ClaimRequirement{Id: "req-" + name, Name: name, Value: value, Issuer: issuer}
}

func getSuppliedClaim(name string, value string, issuer ...string) model.SuppliedClaim {
	return model.SuppliedClaim{Name: name, Value: value, Issuer: issuer}
}

func getPolicy(id string, claimsRequired ...model.ClaimRequirement) model.Policy {
	return model.Policy{Id: id, Name: id, Scopes: []string{"read"}, ClaimsRequired: claimsRequired}
}

func TestEvaluate(t *testing.T) {
	logging.Log().SetLevel(log.DebugLevel)

	type test struct {
		testName          string
		testPolicies      []model.Policy
		testClaims        []model.SuppliedClaim
		expectedSatisfied bool
		expectedUnmatched []model.ClaimRequirement
	}

	emailRequirement := getRequirement("email", "a@b.com", "idp1")
	roleRequirement := getRequirement("role", "admin", "idp1")

	tests := []test{
		{"Deny when no policy exists.",
			[]model.Policy{},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1")},
			false, []model.ClaimRequirement{}},
		{"Allow when a policy has no required claims.",
			[]model.Policy{getPolicy("open")},
			[]model.SuppliedClaim{},
			true, []model.ClaimRequirement{}},
		{"Allow when the supplied claim matches name, value and issuer.",
			[]model.Policy{getPolicy("email-policy", emailRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1")},
			true, []model.ClaimRequirement{}},
		{"Allow when the supplied issuers are a superset of the required ones.",
			[]model.Policy{getPolicy("email-policy", emailRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1", "idp2")},
			true, []model.ClaimRequirement{}},
		{"Deny when the supplied issuers miss a required one.",
			[]model.Policy{getPolicy("email-policy", getRequirement("email", "a@b.com", "idp1", "idp2"))},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1")},
			false, []model.ClaimRequirement{getRequirement("email", "a@b.com", "idp1", "idp2")}},
		{"Deny when the value differs.",
			[]model.Policy{getPolicy("email-policy", emailRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("email", "x@y.com", "idp1")},
			false, []model.ClaimRequirement{emailRequirement}},
		{"Deny when the name differs.",
			[]model.Policy{getPolicy("email-policy", emailRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("mail", "a@b.com", "idp1")},
			false, []model.ClaimRequirement{emailRequirement}},
		{"Deny when only one of two requirements is matched.",
			[]model.Policy{getPolicy("strict", emailRequirement, roleRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1")},
			false, []model.ClaimRequirement{roleRequirement}},
		{"Allow when the second policy is satisfied.",
			[]model.Policy{getPolicy("strict", emailRequirement, roleRequirement), getPolicy("email-only", emailRequirement)},
			[]model.SuppliedClaim{getSuppliedClaim("email", "a@b.com", "idp1")},
			true, []model.ClaimRequirement{}},
		{"Accumulate unmatched requirements of all tried policies.",
			[]model.Policy{getPolicy("email-policy", emailRequirement), getPolicy("role-policy", roleRequirement)},
			[]model.SuppliedClaim{},
			false, []model.ClaimRequirement{emailRequirement, roleRequirement}},
		{"Accumulate shared requirements without deduplication.",
			[]model.Policy{getPolicy("first", emailRequirement), getPolicy("second", emailRequirement)},
			[]model.SuppliedClaim{},
			false, []model.ClaimRequirement{emailRequirement, emailRequirement}},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestEvaluate +++++++++++++++++ Running test: %s", tc.testName)

			result := Evaluate(tc.testPolicies, tc.testClaims)

			if result.Satisfied != tc.expectedSatisfied {
				t.Errorf("%s: Evaluation returned the wrong decision. Expected: %v, Actual: %v", tc.testName, tc.expectedSatisfied, result.Satisfied)
			}
			if diff := cmp.Diff(tc.expectedUnmatched, result.Unmatched); diff != "" {
				t.Errorf("%s: Unexpected unmatched requirements. Diff: %s", tc.testName, diff)
			}
			if result.Satisfied && len(result.Unmatched) != 0 {
				t.Errorf("%s: A satisfied result should not carry unmatched requirements.", tc.testName)
			}
		})
	}
}
