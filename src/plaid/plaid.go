// Package plaid builds the upstream API client used by the sync and webhook
// handlers.
package plaid

import (
	"fmt"

	"fintrack-server/src/config"

	"github.com/plaid/plaid-go/v41/plaid"
)

var environments = map[string]plaid.Environment{
	"sandbox":    plaid.Sandbox,
	"production": plaid.Production,
}

// NewClient builds an API client for the configured environment. Only
// sandbox and production are recognized; anything else is a configuration
// error, never a silent default to sandbox.
func NewClient(cfg config.Config) (*plaid.APIClient, error) {
	env, ok := environments[cfg.PlaidEnv]
	if !ok {
		return nil, fmt.Errorf("unknown plaid environment %q", cfg.PlaidEnv)
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.PlaidClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.PlaidSecret)
	configuration.UseEnvironment(env)
	return plaid.NewAPIClient(configuration), nil
}
