package uma

import (
	"time"

	"github.com/atricore/uma-authz/model"
	"github.com/atricore/uma-authz/storage"
)

type fixedClock struct {
	fixedTime time.Time
}

func (c fixedClock) Now() time.Time {
	return c.fixedTime
}

type testConfig struct {
	ticketLifetime        time.Duration
	rptLifetime           time.Duration
	rptExpires            bool
	restrictedScopes      []string
	continueAfterResponse bool
}

func (c testConfig) TicketLifetime() time.Duration {
	return c.ticketLifetime
}

func (c testConfig) RptLifetime() (time.Duration, bool) {
	return c.rptLifetime, c.rptExpires
}

func (c testConfig) RestrictedScopes() []string {
	return c.restrictedScopes
}

func (c testConfig) ContinueAfterResponse() bool {
	return c.continueAfterResponse
}

func defaultTestConfig() testConfig {
	return testConfig{
		ticketLifetime:   60 * time.Second,
		rptLifetime:      3600 * time.Second,
		rptExpires:       true,
		restrictedScopes: []string{"restricted_scope_1", "restricted_scope_2"},
	}
}

var testTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func getTestServer(cfg testConfig) (*UMAServer, *storage.InMemoryRepo) {
	repo := storage.NewInMemoryRepo()
	repo.AddClient(model.Client{ClientId: "client", ClientSecret: "secret", ClaimsRedirectUri: "https://client.org/claims"})
	return NewUMAServerWithClock(repo, cfg, fixedClock{fixedTime: testTime}), repo
}

func testIdentity(userId string) model.Identity {
	return model.Identity{ClientId: "client", User: model.User{Id: userId}}
}
