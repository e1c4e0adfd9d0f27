package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Admin user search and the post-write index calls are the only
// Elasticsearch consumers, so the transport stays small and the
// timeouts short enough that a slow cluster cannot stall a request.
const (
	esDialTimeout   = 5 * time.Second
	esHeaderTimeout = 5 * time.Second
)

// NewESClient builds the client for the users index. Username and
// password may be empty when the cluster runs without security.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   8,
			ResponseHeaderTimeout: esHeaderTimeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: esDialTimeout}).DialContext,
		},
	})
}
