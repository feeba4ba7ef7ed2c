package uma

import (
	"net/http"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/atricore/uma-authz/model"
)

func getEmailClaimInput() ClaimRequirementInput {
	return ClaimRequirementInput{Id: "claim-1", Name: "email", Issuer: []string{"idp1"}, Value: "a@b.com"}
}

func TestCreatePolicy(t *testing.T) {
	type test struct {
		testName      string
		testRequest   CreatePolicyRequest
		expectedError model.UmaError
	}

	tests := []test{
		{"Successfully create a policy.",
			CreatePolicyRequest{Identity: testIdentity("user-1"), ResourceSetId: "rs-1", Id: "policy-2", Name: "email-policy", Scopes: "read", ClaimsRequired: []ClaimRequirementInput{getEmailClaimInput()}},
			model.UmaError{}},
		{"Fail when the requesting user is not the owner.",
			CreatePolicyRequest{Identity: testIdentity("user-2"), ResourceSetId: "rs-1", Id: "policy-2", Name: "email-policy", Scopes: "read", ClaimsRequired: []ClaimRequirementInput{getEmailClaimInput()}},
			model.NewUmaError(model.NotOwner, "Unauthorized resource set request from bad user")},
		{"Fail for an unknown resource set.",
			CreatePolicyRequest{Identity: testIdentity("user-1"), ResourceSetId: "unknown", Id: "policy-2", Name: "email-policy", Scopes: "read", ClaimsRequired: []ClaimRequirementInput{getEmailClaimInput()}},
			model.NewUmaError(model.InvalidResourceSetRequested, "Resource set unknown not found")},
		{"Fail without a policy id.",
			CreatePolicyRequest{Identity: testIdentity("user-1"), ResourceSetId: "rs-1", Name: "email-policy", Scopes: "read", ClaimsRequired: []ClaimRequirementInput{getEmailClaimInput()}},
			model.NewUmaError(model.MissingRequiredFields, "Policy creation request was missing one or more required fields")},
		{"Fail without required claims.",
			CreatePolicyRequest{Identity: testIdentity("user-1"), ResourceSetId: "rs-1", Id: "policy-2", Name: "email-policy", Scopes: "read"},
			model.NewUmaError(model.MissingRequiredFields, "Policy creation request was missing one or more required fields")},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestCreatePolicy +++++++++++++++++ Running test: %s", tc.testName)
			server, repo := getTestServer(defaultTestConfig())
			repo.SaveResourceSet(getStoredResourceSet())

			response, umaErr := server.CreatePolicy(tc.testRequest)

			if umaErr.Status != tc.expectedError.Status || umaErr.Kind != tc.expectedError.Kind {
				t.Errorf("%s: Received an unexpected error. Expected: %v, Actual: %v", tc.testName, tc.expectedError, umaErr)
			}
			storedResourceSet, _ := repo.GetResourceSet("rs-1")
			if tc.expectedError != (model.UmaError{}) {
				if len(storedResourceSet.Policies) != 1 {
					t.Errorf("%s: No policy should be appended on failure, but got %d.", tc.testName, len(storedResourceSet.Policies))
				}
				return
			}

			if response.Status != http.StatusCreated {
				t.Errorf("%s: Policy creation should return a 201, but got %v.", tc.testName, response.Status)
			}
			createdPolicy, ok := response.Body.(model.Policy)
			if !ok || createdPolicy.Id != tc.testRequest.Id {
				t.Errorf("%s: The response should carry the created policy, but got %v.", tc.testName, response.Body)
			}

			if len(storedResourceSet.Policies) != 2 {
				t.Errorf("%s: The policy should be appended, but got %d policies.", tc.testName, len(storedResourceSet.Policies))
			}
			appendedPolicy := storedResourceSet.Policies[1]
			if appendedPolicy.Id != tc.testRequest.Id || len(appendedPolicy.ClaimsRequired) != 1 {
				t.Errorf("%s: The appended policy does not match the request: %v.", tc.testName, appendedPolicy)
			}
		})
	}

	t.Run("Generate ids for claims without one.", func(t *testing.T) {
		log.Info("TestCreatePolicy +++++++++++++++++ Running test: Generate ids for claims without one.")
		server, repo := getTestServer(defaultTestConfig())
		repo.SaveResourceSet(getStoredResourceSet())

		_, umaErr := server.CreatePolicy(CreatePolicyRequest{
			Identity:       testIdentity("user-1"),
			ResourceSetId:  "rs-1",
			Id:             "policy-2",
			Name:           "email-policy",
			Scopes:         "read",
			ClaimsRequired: []ClaimRequirementInput{{Name: "email", Issuer: []string{"idp1"}, Value: "a@b.com"}},
		})
		if umaErr != (model.UmaError{}) {
			t.Errorf("Policy creation should succeed, but got %v.", umaErr)
		}

		storedResourceSet, _ := repo.GetResourceSet("rs-1")
		if storedResourceSet.Policies[1].ClaimsRequired[0].Id == "" {
			t.Errorf("A claim without an id should get a generated one.")
		}
	})
}
