package uma

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"github.com/atricore/uma-authz/model"
)

func TestRegisterPermission(t *testing.T) {
	type test struct {
		testName       string
		testRequest    RegisterPermissionRequest
		expectedError  model.UmaError
		expectedScopes []string
	}

	tests := []test{
		{"Successfully register a permission.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), ResourceSetId: "rs-1", Scopes: "read"},
			model.UmaError{}, []string{"read"}},
		{"Register a permission without owning the resource set.",
			RegisterPermissionRequest{Identity: testIdentity("user-2"), ResourceSetId: "rs-1", Scopes: "read"},
			model.UmaError{}, []string{"read"}},
		{"Silently drop restricted scopes.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), ResourceSetId: "rs-1", Scopes: "restricted_scope_1 read"},
			model.UmaError{}, []string{"read"}},
		{"Fail when only restricted scopes are requested.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), ResourceSetId: "rs-1", Scopes: "restricted_scope_1"},
			model.NewUmaError(model.InvalidScope, "Requested scope is not allowed"), nil},
		{"Fail for an unknown resource set.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), ResourceSetId: "unknown", Scopes: "read"},
			model.NewUmaError(model.InvalidResourceSetRequested, "Resource set unknown not found"), nil},
		{"Fail without a resource set id.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), Scopes: "read"},
			model.NewUmaError(model.MissingRequiredFields, "Permission request was missing one or more required fields"), nil},
		{"Fail without scopes.",
			RegisterPermissionRequest{Identity: testIdentity("party-1"), ResourceSetId: "rs-1"},
			model.NewUmaError(model.MissingRequiredFields, "Permission request was missing one or more required fields"), nil},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			log.Infof("TestRegisterPermission +++++++++++++++++ Running test: %s", tc.testName)
			server, repo := getTestServer(defaultTestConfig())
			repo.SaveResourceSet(getStoredResourceSet())

			response, umaErr := server.RegisterPermission(tc.testRequest)

			if umaErr.Status != tc.expectedError.Status || umaErr.Kind != tc.expectedError.Kind {
				t.Errorf("%s: Received an unexpected error. Expected: %v, Actual: %v", tc.testName, tc.expectedError, umaErr)
			}
			if tc.expectedError != (model.UmaError{}) {
				return
			}

			if response.Status != http.StatusCreated {
				t.Errorf("%s: Permission registration should return a 201, but got %v.", tc.testName, response.Status)
			}
			body := response.Body.(map[string]interface{})
			ticketUid, ok := body["ticket"].(string)
			if !ok || ticketUid == "" {
				t.Errorf("%s: The response should carry the ticket uid, but got %v.", tc.testName, body)
			}

			storedTicket, storeErr := repo.GetPermissionTicket(ticketUid)
			if storeErr != (model.UmaError{}) {
				t.Errorf("%s: The ticket should have been persisted, but got %v.", tc.testName, storeErr)
			}
			if storedTicket.Permission.ResourceSetId != "rs-1" {
				t.Errorf("%s: The ticket should reference the resource set, but got %v.", tc.testName, storedTicket.Permission)
			}
			if diff := cmp.Diff(tc.expectedScopes, storedTicket.Permission.Scopes); diff != "" {
				t.Errorf("%s: Unexpected scopes on the ticket. Diff: %s", tc.testName, diff)
			}
			if !storedTicket.Expiration.Equal(testTime.Add(defaultTestConfig().ticketLifetime)) {
				t.Errorf("%s: The ticket should expire after the configured lifetime, but got %v.", tc.testName, storedTicket.Expiration)
			}
		})
	}
}
