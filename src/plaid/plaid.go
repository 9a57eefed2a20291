package plaid

import (
	"github.com/plaid/plaid-go/v41/plaid"
)

// environments maps the PLAID_ENV setting to a plaid host. config.Load
// rejects anything not listed here before a client is ever built, so an
// unknown value only happens in tests and falls back to sandbox.
var environments = map[string]plaid.Environment{
	"sandbox":    plaid.Sandbox,
	"production": plaid.Production,
}

func NewClient(clientID, secret, env string) *plaid.APIClient {
	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)

	host, ok := environments[env]
	if !ok {
		host = plaid.Sandbox
	}
	configuration.UseEnvironment(host)

	return plaid.NewAPIClient(configuration)
}
