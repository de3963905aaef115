package services

import (
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
)

// ServiceHTTP is embedded by services that call external APIs; each call
// site picks its own retry budget.
type ServiceHTTP struct{}

func (service *ServiceHTTP) httpClient(retries int) *httpclient.Client {
	return httpclient.NewClient(
		httpclient.WithHTTPTimeout(10*time.Second),
		httpclient.WithRetryCount(retries),
	)
}
