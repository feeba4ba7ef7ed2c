package uma

import (
	"net/http"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/atricore/uma-authz/model"
)

func TestDeleteResourceSet(t *testing.T) {
	server, repo := getTestServer(defaultTestConfig())
	repo.SaveResourceSet(getStoredResourceSet())

	log.Info("TestDeleteResourceSet +++++++++++++++++ Running test: Return a not found for an unknown id.")
	_, umaErr := server.DeleteResourceSet(DeleteResourceSetRequest{Identity: testIdentity("user-1"), Id: "unknown"})
	if umaErr.Status != http.StatusNotFound || umaErr.Kind != model.InvalidResourceSetRequested {
		t.Errorf("Deleting an unknown resource set should be a not found, but got %v.", umaErr)
	}

	log.Info("TestDeleteResourceSet +++++++++++++++++ Running test: Successfully delete the resource set.")
	response, umaErr := server.DeleteResourceSet(DeleteResourceSetRequest{Identity: testIdentity("user-1"), Id: "rs-1"})
	if umaErr != (model.UmaError{}) {
		t.Errorf("Deleting should succeed, but got %v.", umaErr)
	}
	if response.Status != http.StatusNoContent {
		t.Errorf("Deleting should return a 204, but got %v.", response.Status)
	}
	if response.Body != nil {
		t.Errorf("A 204 must not carry a body, but got %v.", response.Body)
	}

	if _, umaErr := repo.GetResourceSet("rs-1"); umaErr.Status != http.StatusNotFound {
		t.Errorf("The resource set should be gone, but got %v.", umaErr)
	}

	log.Info("TestDeleteResourceSet +++++++++++++++++ Running test: Return a not found on repeated deletion.")
	_, umaErr = server.DeleteResourceSet(DeleteResourceSetRequest{Identity: testIdentity("user-1"), Id: "rs-1"})
	if umaErr.Status != http.StatusNotFound {
		t.Errorf("Repeated deletion should be a not found, but got %v.", umaErr)
	}
}
