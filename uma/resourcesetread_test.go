package uma

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"

	"github.com/atricore/uma-authz/model"
)

func TestReadResourceSet(t *testing.T) {
	server, repo := getTestServer(defaultTestConfig())
	repo.SaveResourceSet(model.ResourceSet{
		Id:     "rs-1",
		Name:   "pic",
		Type:   "photo",
		Scopes: []string{"read"},
		Uri:    "https://resources.org/pic",
		Owner:  "user-1",
		Policies: []model.Policy{
			{Id: "policy-1", Name: "email-policy", Scopes: []string{"read"}},
		},
	})

	log.Info("TestReadResourceSet +++++++++++++++++ Running test: Return the projection of the resource set.")
	response, umaErr := server.ReadResourceSet(ReadResourceSetRequest{Identity: testIdentity("user-2"), Id: "rs-1"})
	if umaErr != (model.UmaError{}) {
		t.Errorf("Reading should succeed, but got %v.", umaErr)
	}
	if response.Status != http.StatusOK {
		t.Errorf("Reading should return a 200, but got %v.", response.Status)
	}

	expectedBody := map[string]interface{}{
		"id":      "rs-1",
		"name":    "pic",
		"iconUri": "",
		"type":    "photo",
		"scopes":  []string{"read"},
		"uri":     "https://resources.org/pic",
	}
	if diff := cmp.Diff(expectedBody, response.Body); diff != "" {
		t.Errorf("Did not receive the expected projection. Diff: %s", diff)
	}

	body := response.Body.(map[string]interface{})
	if _, ok := body["owner"]; ok {
		t.Errorf("The owner must not be part of the projection.")
	}
	if _, ok := body["policies"]; ok {
		t.Errorf("Policies must not be part of the projection.")
	}

	log.Info("TestReadResourceSet +++++++++++++++++ Running test: Return a not found for an unknown id.")
	_, umaErr = server.ReadResourceSet(ReadResourceSetRequest{Identity: testIdentity("user-2"), Id: "unknown"})
	if umaErr.Status != http.StatusNotFound || umaErr.Kind != model.InvalidResourceSetRequested {
		t.Errorf("An unknown resource set should be a not found, but got %v.", umaErr)
	}

	log.Info("TestReadResourceSet +++++++++++++++++ Running test: Fail without an id.")
	_, umaErr = server.ReadResourceSet(ReadResourceSetRequest{Identity: testIdentity("user-2")})
	if umaErr.Kind != model.MissingRequiredFields {
		t.Errorf("A missing id should be missing_required_fields, but got %v.", umaErr)
	}
}
