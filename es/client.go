package es

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/elastic/go-elasticsearch/v7"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const _buflen = 1024

// Document type of the knowledge-base entries
const DocType = "kb_document"

type EsClient struct {
	es  *elasticsearch.Client
	log *zap.Logger
	out io.Writer
}

type Config struct {
	// Address of the domain, https://host:443 for AWS
	Address string

	// Transport signs the requests, http.DefaultTransport when nil
	Transport http.RoundTripper

	// Logger, a no-op logger when nil
	Logger *zap.Logger

	// Out receives the "Ignoring ..." notices, stdout when nil
	Out io.Writer
}

// connect to elasticsearch database
func NewEsClient(cfg Config) (*EsClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{
			cfg.Address,
		},
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create elasticsearch client")
	}

	c := &EsClient{es: es, log: cfg.Logger, out: cfg.Out}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c, nil
}

// Info returns the decoded root endpoint of the cluster.
func (c *EsClient) Info(ctx context.Context) (map[string]interface{}, error) {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "info")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, parseError(res)
	}

	var info map[string]interface{}
	if err := jsoniter.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode info")
	}
	return info, nil
}
