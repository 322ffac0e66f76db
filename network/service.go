// Package network talks to a chain API server: it fetches spendable
// outputs, broadcasts signed transactions and pushes content to the
// server's content store.
package network

import (
	"context"
	"encoding/json"

	"github.com/nulsworld/libnuls-go/tx"
)

// Service is the set of remote operations transaction building needs.
type Service interface {
	// FetchUnspentOutputs returns the spendable outputs of address.
	FetchUnspentOutputs(ctx context.Context, address string) (*OutputSet, error)

	// Broadcast submits a signed serialized transaction and returns the
	// server's acknowledgement, usually the transaction hash.
	Broadcast(ctx context.Context, rawTx []byte) (string, error)

	ContentPusher
}

// ContentPusher stores a JSON document and returns its content reference.
type ContentPusher interface {
	PushContent(ctx context.Context, content []byte) (string, error)
}

// OutputSet is the spendable balance of an address.
type OutputSet struct {
	TotalAvailable uint64              `json:"total_available"`
	Outputs        []*tx.UnspentOutput `json:"outputs"`
}

// Alias is a registered address alias.
type Alias struct {
	Address string `json:"address"`
	Alias   string `json:"alias"`
}

// ViewCall is a read-only contract method invocation.
type ViewCall struct {
	ContractAddress string     `json:"contractAddress"`
	MethodName      string     `json:"methodName"`
	Args            [][]string `json:"args"`
}

// Aggregate holds the decoded values of an address aggregate, keyed by
// aggregate key.
type Aggregate map[string]json.RawMessage
