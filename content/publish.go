package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nulsworld/libnuls-go/address"
	"github.com/nulsworld/libnuls-go/journal"
	"github.com/nulsworld/libnuls-go/tx"
)

// Signer signs a transaction with the key of signer. wallet.Keyring
// implements it.
type Signer interface {
	Sign(t *tx.Transaction, signer address.Address, mode tx.DigestMode) error
}

// Broadcaster submits signed transactions. network.Service implements it.
type Broadcaster interface {
	Broadcast(ctx context.Context, rawTx []byte) (string, error)
}

// Publisher signs transactions, journals the signed bytes and broadcasts
// them. Journal and Network are optional: without a journal nothing is
// recorded, without a network Prepare still works but Send fails with
// ErrOffline.
type Publisher struct {
	Keys    Signer
	Journal journal.Store
	Network Broadcaster
	Mode    tx.DigestMode
}

// Prepare signs t as from and journals it. The returned record holds the
// serialized transaction.
func (p *Publisher) Prepare(t *tx.Transaction, from address.Address) (*journal.Record, error) {
	if p.Keys == nil {
		return nil, fmt.Errorf("%w: signer", ErrNilParam)
	}
	if err := p.Keys.Sign(t, from, p.Mode); err != nil {
		return nil, fmt.Errorf("content: sign: %w", err)
	}
	rec, err := journal.NewRecord(t, p.Mode)
	if err != nil {
		return nil, fmt.Errorf("content: serialize: %w", err)
	}
	if p.Journal != nil {
		if err := p.Journal.Put(rec); err != nil {
			return nil, fmt.Errorf("content: journal: %w", err)
		}
	}
	log.Debugf("Prepared %s transaction %s (%d bytes)", rec.Type, rec.Hash, len(rec.Raw))
	return rec, nil
}

// Send broadcasts a prepared record. The outcome is applied to rec and
// stored in the journal. A record that was already broadcast is not sent
// again.
func (p *Publisher) Send(ctx context.Context, rec *journal.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	if rec.Status == journal.StatusBroadcast {
		return fmt.Errorf("%w: %s", journal.ErrAlreadyBroadcast, rec.Hash)
	}
	if p.Network == nil {
		return ErrOffline
	}

	id, err := p.Network.Broadcast(ctx, rec.Raw)
	if err != nil {
		log.Warnf("Broadcast of %s failed: %v", rec.Hash, err)
		rec.RecordFailure(err.Error(), time.Now().UTC())
		if p.Journal != nil {
			if jerr := p.Journal.MarkFailed(rec.Hash, err.Error()); jerr != nil {
				log.Errorf("Unable to journal failed broadcast of %s: %v", rec.Hash, jerr)
			}
		}
		return err
	}

	rec.RecordBroadcast(id, time.Now().UTC())
	if p.Journal != nil {
		if err := p.Journal.MarkBroadcast(rec.Hash, id); err != nil {
			return fmt.Errorf("content: journal broadcast: %w", err)
		}
	}
	log.Infof("Broadcast %s transaction %s", rec.Type, rec.Hash)
	return nil
}

// Publish signs, journals and broadcasts t. When only the broadcast
// fails, the journaled record is returned along with the error.
func (p *Publisher) Publish(ctx context.Context, t *tx.Transaction, from address.Address) (*journal.Record, error) {
	rec, err := p.Prepare(t, from)
	if err != nil {
		return nil, err
	}
	if err := p.Send(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Resend broadcasts every pending journal record, oldest first, and
// returns how many the network accepted. It stops at the first context
// error; other failures are journaled and skipped.
func (p *Publisher) Resend(ctx context.Context) (int, error) {
	if p.Journal == nil {
		return 0, fmt.Errorf("%w: journal", ErrNilParam)
	}
	pending, err := p.Journal.ListPending()
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := p.Send(ctx, rec); err != nil {
			if errors.Is(err, ErrOffline) {
				return sent, err
			}
			errs = append(errs, fmt.Errorf("%s: %w", rec.Hash, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}
