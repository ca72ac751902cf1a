package search

import (
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/config"
)

// NewClient builds an Elasticsearch client from cfg. It returns (nil, nil)
// when no address is configured, which disables teacher search.
func NewClient(cfg config.SearchConfig) (*elasticsearch.Client, error) {
	addrs := cfg.Addresses()
	if len(addrs) == 0 {
		return nil, nil
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.ResponseHeaderTimeout = 5 * time.Second
	transport.DialContext = (&net.Dialer{Timeout: 5 * time.Second}).DialContext

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Transport:  transport,
		MaxRetries: 2,
	})
	if err != nil {
		return nil, oops.Code("SEARCH_CONNECT").With("addresses", addrs).Wrap(err)
	}
	return es, nil
}
