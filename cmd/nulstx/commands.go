package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/content"
	"github.com/nulsworld/libnuls-go/journal"
	"github.com/nulsworld/libnuls-go/storage"
	"github.com/nulsworld/libnuls-go/tx"
	"github.com/nulsworld/libnuls-go/wallet"
)

var errUsage = errors.New("wrong number of arguments")

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) journalPath() string { return filepath.Join(a.cfg.DataDir, "journal.db") }

func (a *app) contentDir() string { return filepath.Join(a.cfg.DataDir, "content") }

// decodeCommand prints a serialized transaction as JSON.
type decodeCommand struct {
	app    *app
	Verify bool `long:"verify" description:"Fail unless the transaction carries a valid signature"`
}

func (c *decodeCommand) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode <hex>", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	t, err := tx.Parse(raw)
	if err != nil {
		return err
	}
	if c.Verify {
		if err := t.VerifySignature(c.app.cfg.Digest()); err != nil {
			return err
		}
	}
	plain, err := t.ToPlain()
	if err != nil {
		return err
	}
	return c.app.printJSON(plain)
}

// addressCommand derives the address of a key or checks an address.
type addressCommand struct {
	app   *app
	Check bool `long:"check" description:"Treat the argument as an address and verify its checksum"`
}

type addressInfo struct {
	Address     string `json:"address"`
	Hex         string `json:"hex"`
	ChainID     uint16 `json:"chain_id"`
	AddressType uint8  `json:"address_type"`
}

func (c *addressCommand) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: address <key|address>", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}

	var addr address.Address
	var err error
	if c.Check {
		addr, err = address.Validate(args[0])
	} else {
		addr, err = deriveAddress(args[0], c.app.cfg.AddressParams())
	}
	if err != nil {
		return err
	}
	return c.app.printJSON(addressInfo{
		Address:     addr.String(),
		Hex:         addr.Hex(),
		ChainID:     addr.ChainID(),
		AddressType: addr.Type(),
	})
}

// deriveAddress accepts a 32-byte private key or a 33-byte compressed
// public key in hex.
func deriveAddress(s string, p address.Params) (address.Address, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return address.Address{}, fmt.Errorf("invalid hex: %w", err)
	}
	switch len(b) {
	case wallet.PrivateKeyLen:
		return wallet.NewKeyring(p).ImportHex(s)
	case 33:
		pub, err := ec.PublicKeyFromBytes(b)
		if err != nil {
			return address.Address{}, fmt.Errorf("invalid public key: %w", err)
		}
		return address.FromPubKey(pub, p)
	default:
		return address.Address{}, fmt.Errorf("expected a 32-byte private key or 33-byte public key, got %d bytes", len(b))
	}
}

// feeCommand estimates the fee of a transaction shape.
type feeCommand struct {
	app     *app
	Type    uint16 `long:"type" default:"2" description:"Transaction type"`
	Inputs  int    `long:"inputs" default:"1" description:"Number of inputs"`
	Outputs int    `long:"outputs" default:"1" description:"Number of outputs"`
	Remark  string `long:"remark" description:"Remark text"`
}

type feeEstimate struct {
	Type string `json:"type"`
	Size int    `json:"size"`
	Fee  uint64 `json:"fee"`
}

func (c *feeCommand) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: fee takes options only", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	if c.Inputs < 0 || c.Outputs < 0 {
		return errors.New("input and output counts must not be negative")
	}
	payload, err := tx.NewPayload(tx.Type(c.Type))
	if err != nil {
		return err
	}
	t, err := tx.New(payload, c.Remark)
	if err != nil {
		return err
	}
	t.Inputs = make([]*tx.Coin, c.Inputs)
	t.Outputs = make([]*tx.Coin, c.Outputs)
	return c.app.printJSON(feeEstimate{
		Type: t.Type.String(),
		Size: t.EstimatedSize(),
		Fee:  t.CalculateFee(),
	})
}

// publishOptions are shared by the commands that publish content.
type publishOptions struct {
	Key    string `long:"key" env:"NULS_PRIVATE_KEY" description:"Hex private key of the publishing address"`
	Local  bool   `long:"local" description:"Store the document in the local content store instead of the API server"`
	DryRun bool   `long:"dry-run" description:"Sign and journal the transaction without broadcasting it"`
}

type publishResult struct {
	Hash        string `json:"hash"`
	Remark      string `json:"remark"`
	Status      string `json:"status"`
	BroadcastID string `json:"broadcast_id,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// publish builds a transaction with build and signs, journals and, unless
// DryRun is set, broadcasts it.
func (a *app) publish(o *publishOptions, build func(context.Context, *content.Builder, address.Address) (*tx.Transaction, error)) error {
	if o.Key == "" {
		return errors.New("a private key is required (--key or NULS_PRIVATE_KEY)")
	}
	keys := wallet.NewKeyring(a.cfg.AddressParams())
	from, err := keys.ImportHex(o.Key)
	if err != nil {
		return err
	}

	svc, err := a.apiClient()
	if err != nil {
		return err
	}
	builder := content.NewBuilder(svc)
	if o.Local {
		store, err := storage.NewFileStore(a.contentDir(), storage.WithCompression(storage.CompressGZIP))
		if err != nil {
			return err
		}
		builder.Content = store
	}

	jnl, err := journal.OpenBoltStore(a.journalPath())
	if err != nil {
		return err
	}
	defer jnl.Close()

	ctx := context.Background()
	t, err := build(ctx, builder, from)
	if err != nil {
		return err
	}

	pub := &content.Publisher{Keys: keys, Journal: jnl, Network: svc, Mode: a.cfg.Digest()}
	var rec *journal.Record
	if o.DryRun {
		rec, err = pub.Prepare(t, from)
	} else {
		rec, err = pub.Publish(ctx, t, from)
	}
	if err != nil {
		return err
	}

	res := publishResult{
		Hash:        rec.Hash.String(),
		Remark:      string(t.Remark),
		Status:      rec.Status.String(),
		BroadcastID: rec.BroadcastID,
	}
	if o.DryRun {
		res.Raw = hex.EncodeToString(rec.Raw)
	}
	return a.printJSON(res)
}

// postCommand publishes a post.
type postCommand struct {
	app *app
	publishOptions
	Type  string `long:"type" default:"note" description:"Post type"`
	Title string `long:"title" description:"Post title"`
	Ref   string `long:"ref" description:"Reference to another post"`
}

func (c *postCommand) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: post <body>", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	post := content.Post{Type: c.Type, Body: args[0], Title: c.Title, Ref: c.Ref}
	return c.app.publish(&c.publishOptions, func(ctx context.Context, b *content.Builder, from address.Address) (*tx.Transaction, error) {
		return b.CreatePost(ctx, from, post)
	})
}

// aggregateCommand publishes a JSON value under an aggregate key.
type aggregateCommand struct {
	app *app
	publishOptions
}

func (c *aggregateCommand) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: aggregate <key> <json>", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	value := json.RawMessage(args[1])
	if !json.Valid(value) {
		return errors.New("aggregate value is not valid JSON")
	}
	return c.app.publish(&c.publishOptions, func(ctx context.Context, b *content.Builder, from address.Address) (*tx.Transaction, error) {
		return b.SubmitAggregate(ctx, from, args[0], value)
	})
}

// profileCommand prints the profile aggregate of an address.
type profileCommand struct {
	app *app
}

func (c *profileCommand) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: profile <address>", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	svc, err := c.app.apiClient()
	if err != nil {
		return err
	}
	profile, err := content.FetchProfile(context.Background(), svc, args[0])
	if err != nil {
		return err
	}
	if profile == nil {
		profile = json.RawMessage("null")
	}
	return c.app.printJSON(profile)
}

// resendCommand rebroadcasts pending journal records.
type resendCommand struct {
	app *app
}

func (c *resendCommand) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: resend takes no arguments", errUsage)
	}
	if err := c.app.load(); err != nil {
		return err
	}
	svc, err := c.app.apiClient()
	if err != nil {
		return err
	}
	jnl, err := journal.OpenBoltStore(c.app.journalPath())
	if err != nil {
		return err
	}
	defer jnl.Close()

	pub := &content.Publisher{Journal: jnl, Network: svc, Mode: c.app.cfg.Digest()}
	n, err := pub.Resend(context.Background())
	log.Infof("Rebroadcast %d pending transactions", n)
	if err != nil {
		return err
	}
	return c.app.printJSON(map[string]int{"sent": n})
}
