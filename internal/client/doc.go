// Package client is the REST client of the terminal endpoint.
//
// It wraps resty over a retryablehttp transport, so idempotent calls such
// as Health and ListTerminals ride out an endpoint that is still starting.
// JSON is encoded with sonic.
//
// Example Usage:
//
//	c, err := client.New(client.Config{BaseURL: "http://localhost:8000"}, log)
//	if err := c.WaitHealthy(ctx); err != nil { ... }
//	terms, err := c.ListTerminals(ctx)
package client
