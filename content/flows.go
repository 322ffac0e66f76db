package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/network"
	"github.com/nulsworld/libnuls-go/tx"
)

// OutputFetcher lists the spendable outputs of an address.
type OutputFetcher interface {
	FetchUnspentOutputs(ctx context.Context, address string) (*network.OutputSet, error)
}

// AggregateFetcher reads address aggregates.
type AggregateFetcher interface {
	FetchAggregate(ctx context.Context, address string, keys ...string) (network.Aggregate, error)
}

// Builder prepares unsigned remark transactions. Outputs and Content are
// often the same network.Service; Content may also be a local
// storage.FileStore when working offline.
type Builder struct {
	Outputs OutputFetcher
	Content network.ContentPusher
}

// NewBuilder returns a Builder that does everything through svc.
func NewBuilder(svc network.Service) *Builder {
	return &Builder{Outputs: svc, Content: svc}
}

// Post is a document published with KindPost.
type Post struct {
	Type  string
	Body  string
	Title string
	Ref   string
}

type postDoc struct {
	Type    string      `json:"type"`
	Content postContent `json:"content"`
	Ref     string      `json:"ref,omitempty"`
}

type postContent struct {
	Body  string `json:"body"`
	Title string `json:"title,omitempty"`
}

type aggregateDoc struct {
	Key     string `json:"key"`
	Content any    `json:"content"`
}

// PrepareRemarkTx builds an unsigned transfer from from to itself that
// carries remark and pays only the fee.
func (b *Builder) PrepareRemarkTx(ctx context.Context, from address.Address, remark string) (*tx.Transaction, error) {
	if b.Outputs == nil {
		return nil, fmt.Errorf("%w: output fetcher", ErrNilParam)
	}
	set, err := b.Outputs.FetchUnspentOutputs(ctx, from.String())
	if err != nil {
		return nil, fmt.Errorf("content: fetch outputs: %w", err)
	}
	if set == nil {
		return nil, fmt.Errorf("%w: output set", ErrNilParam)
	}
	pool := append([]*tx.UnspentOutput(nil), set.Outputs...)
	return tx.BuildTransfer(&tx.TransferParams{
		From:    from,
		Remark:  remark,
		Unspent: &pool,
	})
}

// push stores doc and returns the remark referencing it.
func (b *Builder) push(ctx context.Context, kind Kind, doc any) (Remark, error) {
	if b.Content == nil {
		return Remark{}, fmt.Errorf("%w: content pusher", ErrNilParam)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return Remark{}, fmt.Errorf("content: encode document: %w", err)
	}
	ref, err := b.Content.PushContent(ctx, data)
	if err != nil {
		return Remark{}, fmt.Errorf("content: push document: %w", err)
	}
	if ref == "" {
		return Remark{}, ErrEmptyRef
	}
	log.Debugf("Pushed %d byte document as %s", len(data), ref)
	return NewRemark(kind, ref), nil
}

// CreatePost pushes post and returns an unsigned transaction whose remark
// references it.
func (b *Builder) CreatePost(ctx context.Context, from address.Address, post Post) (*tx.Transaction, error) {
	remark, err := b.push(ctx, KindPost, postDoc{
		Type:    post.Type,
		Content: postContent{Body: post.Body, Title: post.Title},
		Ref:     post.Ref,
	})
	if err != nil {
		return nil, err
	}
	return b.PrepareRemarkTx(ctx, from, remark.String())
}

// SubmitAggregate pushes {key, content} and returns an unsigned transaction
// whose remark references it. content must marshal to JSON.
func (b *Builder) SubmitAggregate(ctx context.Context, from address.Address, key string, content any) (*tx.Transaction, error) {
	remark, err := b.push(ctx, KindAggregate, aggregateDoc{Key: key, Content: content})
	if err != nil {
		return nil, err
	}
	return b.PrepareRemarkTx(ctx, from, remark.String())
}

// FetchProfile returns the raw "profile" aggregate of addr, or nil when the
// address has none.
func FetchProfile(ctx context.Context, f AggregateFetcher, addr string) (json.RawMessage, error) {
	agg, err := f.FetchAggregate(ctx, addr, "profile")
	if err != nil {
		return nil, err
	}
	profile, ok := agg["profile"]
	if !ok || string(profile) == "null" {
		return nil, nil
	}
	return profile, nil
}
