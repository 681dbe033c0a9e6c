package es

import (
	"bytes"
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type acknowledgement struct {
	Acknowledged       bool `json:"acknowledged"`
	ShardsAcknowledged bool `json:"shards_acknowledged"`
}

// create an es index with the knowledge-base mappings, true once both
// the index and its shards are acknowledged. An existing index is
// reported and gives false without error.
func (c *EsClient) CreateIndex(ctx context.Context, index string) (bool, error) {
	def, err := jsoniter.Marshal(KBDocumentIndex())
	if err != nil {
		return false, errors.Wrap(err, "encode index definition")
	}

	res, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(def)),
	)
	if err != nil {
		return false, errors.Wrapf(err, "create index %s", index)
	}
	defer res.Body.Close()

	if res.IsError() {
		err := parseError(res)
		if IsErrorType(err, IndexAlreadyExists, ResourceAlreadyExists) {
			fmt.Fprintln(c.out, "EsClient.CreateIndex: Ignoring "+IndexAlreadyExists)
			return false, nil
		}
		return false, err
	}

	var ack acknowledgement
	if err := jsoniter.NewDecoder(res.Body).Decode(&ack); err != nil {
		return false, errors.Wrap(err, "decode create response")
	}
	c.log.Info("index created", zap.String("index", index),
		zap.Bool("acknowledged", ack.Acknowledged))
	return ack.Acknowledged && ack.ShardsAcknowledged, nil
}

// delete an es index. A missing index is reported and gives false
// without error.
func (c *EsClient) DeleteIndex(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Delete(
		[]string{index},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return false, errors.Wrapf(err, "delete index %s", index)
	}
	defer res.Body.Close()

	if res.IsError() {
		err := parseError(res)
		if IsErrorType(err, IndexNotFound) {
			fmt.Fprintln(c.out, "EsClient.DeleteIndex: Ignoring "+IndexNotFound)
			return false, nil
		}
		return false, err
	}

	var ack acknowledgement
	if err := jsoniter.NewDecoder(res.Body).Decode(&ack); err != nil {
		return false, errors.Wrap(err, "decode delete response")
	}
	c.log.Info("index deleted", zap.String("index", index))
	return ack.Acknowledged, nil
}

// wipe old indices, missing ones are skipped
func (c *EsClient) WipeIndices(ctx context.Context, indices []string) error {
	res, err := c.es.Indices.Delete(indices,
		c.es.Indices.Delete.WithContext(ctx),
		c.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return errors.Wrap(err, "wipe indices")
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseError(res)
	}
	return nil
}
