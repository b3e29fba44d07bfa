package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/laplace/pkg/collective"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPollInterval is the BLPOP timeout between abort checks.
// Redis blocking commands have a resolution of one second, so it is also the minimum.
const DefaultPollInterval = time.Second

// RunTTL bounds how long mailboxes and the abort key of a run survive after
// their last write, so a reused run ID eventually starts clean.
const RunTTL = time.Hour

// DefaultPrefix is the key prefix used when WithPrefix is not given.
const DefaultPrefix = "laplace:"

// Transport implements ports.Transport for one rank using Redis lists.
// Each (source, destination, tag) triple is a list: Send is RPUSH, Receive is BLPOP.
type Transport struct {
	client *backend.Client
	prefix string
	rank   int
	size   int
	poll   time.Duration
}

var _ ports.Transport = (*Transport)(nil)

type Option func(*Transport)

// WithPrefix sets the key prefix shared by every worker of the run.
func WithPrefix(prefix string) Option {
	return func(t *Transport) {
		t.prefix = prefix
	}
}

// WithPollInterval sets how long a Receive blocks in Redis before re-checking for an abort.
// Values below DefaultPollInterval are raised to it.
func WithPollInterval(d time.Duration) Option {
	return func(t *Transport) {
		t.poll = max(d, DefaultPollInterval)
	}
}

// Dial creates a Redis client.
func Dial(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewTransport creates the endpoint of rank in the run identified by runID.
// Every worker of the run must use the same runID and size. A run ID should be
// fresh for every run: keys of an earlier run with the same ID only expire after RunTTL.
func NewTransport(client *backend.Client, runID string, rank, size int, opts ...Option) (*Transport, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: group size %d", domain.ErrInvalidConfig, size)
	}
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrInvalidRank, rank, size)
	}
	t := &Transport{
		client: client,
		prefix: DefaultPrefix,
		rank:   rank,
		size:   size,
		poll:   DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.prefix = t.prefix + runID + ":"
	return t, nil
}

// NewGroup creates the full process group endpoint of rank.
func NewGroup(client *backend.Client, runID string, rank, size int, opts ...Option) (ports.ProcessGroup, error) {
	t, err := NewTransport(client, runID, rank, size, opts...)
	if err != nil {
		return nil, err
	}
	return collective.New(t), nil
}

// PollInterval is the BLPOP timeout in effect.
func (t *Transport) PollInterval() time.Duration { return t.poll }

func (t *Transport) Rank() int { return t.rank }

func (t *Transport) Size() int { return t.size }

func (t *Transport) mailboxKey(src, dst, tag int) string {
	return fmt.Sprintf("%smsg:%d:%d:%d", t.prefix, src, dst, tag)
}

func (t *Transport) abortKey() string {
	return t.prefix + "abort"
}

// Send appends the encoded payload to the destination mailbox.
func (t *Transport) Send(ctx context.Context, buf []float64, dest, tag int) error {
	if err := t.check(ctx, dest); err != nil {
		return err
	}
	key := t.mailboxKey(t.rank, dest, tag)
	pipe := t.client.TxPipeline()
	pipe.RPush(ctx, key, encode(buf))
	pipe.Expire(ctx, key, RunTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis send to %d: %w", dest, err)
	}
	return nil
}

// Receive pops the next payload from the source mailbox, polling for an abort in between.
func (t *Transport) Receive(ctx context.Context, buf []float64, source, tag int) error {
	if err := t.check(ctx, source); err != nil {
		return err
	}
	key := t.mailboxKey(source, t.rank, tag)

	for {
		res, err := t.client.BLPop(ctx, t.poll, key).Result()
		switch {
		case errors.Is(err, backend.Nil):
			if err := t.aborted(ctx); err != nil {
				return err
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("redis receive from %d: %w", source, err)
		}

		msg, err := decode(res[1])
		if err != nil {
			return err
		}
		if len(msg) != len(buf) {
			return fmt.Errorf("%w: got %d values from %d, want %d", domain.ErrCountMismatch, len(msg), source, len(buf))
		}
		copy(buf, msg)
		return nil
	}
}

// Abort records the cause under the run's abort key. Every worker notices it on
// its next call or poll.
func (t *Transport) Abort(ctx context.Context, cause error) error {
	msg := "aborted"
	if cause != nil {
		msg = cause.Error()
	}
	if err := t.client.SetNX(ctx, t.abortKey(), fmt.Sprintf("rank %d: %s", t.rank, msg), RunTTL).Err(); err != nil {
		return fmt.Errorf("redis abort: %w", err)
	}
	return nil
}

func (t *Transport) aborted(ctx context.Context) error {
	cause, err := t.client.Get(ctx, t.abortKey()).Result()
	switch {
	case errors.Is(err, backend.Nil):
		return nil
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("redis abort check: %w", err)
	}
	return fmt.Errorf("%w: %s", domain.ErrAborted, cause)
}

func (t *Transport) check(ctx context.Context, peer int) error {
	if peer < 0 || peer >= t.size {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrInvalidRank, peer, t.size)
	}
	return t.aborted(ctx)
}

func encode(buf []float64) []byte {
	out := make([]byte, 8*len(buf))
	for i, v := range buf {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(v))
	}
	return out
}

func decode(s string) ([]float64, error) {
	if len(s)%8 != 0 {
		return nil, fmt.Errorf("redis payload of %d bytes is not a float64 vector", len(s))
	}
	raw := []byte(s)
	out := make([]float64, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return out, nil
}
