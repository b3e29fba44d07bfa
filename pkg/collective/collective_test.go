package collective

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a single-rank transport that logs every call and serves
// receives from a preloaded inbox.
type recorder struct {
	rank, size int
	inbox      map[string][]float64
	calls      []string
	sent       map[string][]float64
}

func newRecorder(rank, size int) *recorder {
	return &recorder{rank: rank, size: size, inbox: map[string][]float64{}, sent: map[string][]float64{}}
}

func key(peer, tag int) string { return fmt.Sprintf("%d/%d", peer, tag) }

func (r *recorder) Rank() int { return r.rank }
func (r *recorder) Size() int { return r.size }

func (r *recorder) Send(_ context.Context, buf []float64, dest, tag int) error {
	r.calls = append(r.calls, "send "+key(dest, tag))
	r.sent[key(dest, tag)] = append([]float64(nil), buf...)
	return nil
}

func (r *recorder) Receive(_ context.Context, buf []float64, source, tag int) error {
	r.calls = append(r.calls, "recv "+key(source, tag))
	msg, ok := r.inbox[key(source, tag)]
	if !ok {
		return fmt.Errorf("no message from %s", key(source, tag))
	}
	copy(buf, msg)
	return nil
}

func (r *recorder) Abort(context.Context, error) error {
	r.calls = append(r.calls, "abort")
	return nil
}

var _ ports.Transport = (*recorder)(nil)

func TestReduce_RootReceivesInRankOrder(t *testing.T) {
	rec := newRecorder(2, 4)
	rec.inbox[key(0, TagReduce)] = []float64{4}
	rec.inbox[key(1, TagReduce)] = []float64{9}
	rec.inbox[key(3, TagReduce)] = []float64{1}

	got, err := New(rec).Reduce(context.Background(), 7, ports.OpMax, 2)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got)
	assert.Equal(t, []string{"recv 0/-2", "recv 1/-2", "recv 3/-2"}, rec.calls)
}

func TestReduce_NonRootSendsOwnValue(t *testing.T) {
	rec := newRecorder(3, 4)
	got, err := New(rec).Reduce(context.Background(), 2.5, ports.OpSum, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
	assert.Equal(t, []float64{2.5}, rec.sent[key(0, TagReduce)])
}

func TestBroadcast_RootSendsToEveryOtherRank(t *testing.T) {
	rec := newRecorder(1, 3)
	require.NoError(t, New(rec).Broadcast(context.Background(), []float64{5, 6}, 1))
	assert.Equal(t, []string{"send 0/-1", "send 2/-1"}, rec.calls)
	assert.Equal(t, []float64{5, 6}, rec.sent[key(2, TagBroadcast)])
}

func TestBroadcast_NonRootReceives(t *testing.T) {
	rec := newRecorder(2, 3)
	rec.inbox[key(0, TagBroadcast)] = []float64{8}
	buf := []float64{0}
	require.NoError(t, New(rec).Broadcast(context.Background(), buf, 0))
	assert.Equal(t, 8.0, buf[0])
}

func TestBarrier_UsesItsOwnTag(t *testing.T) {
	rec := newRecorder(1, 2)
	rec.inbox[key(0, TagBarrier)] = []float64{0}
	require.NoError(t, New(rec).Barrier(context.Background()))
	assert.Equal(t, []string{"send 0/-3", "recv 0/-3"}, rec.calls)
}

func TestUserTraffic_Validation(t *testing.T) {
	rec := newRecorder(0, 2)
	g := New(rec)
	ctx := context.Background()

	assert.ErrorIs(t, g.Send(ctx, []float64{1}, 1, TagBarrier), domain.ErrReservedTag)
	assert.ErrorIs(t, g.Receive(ctx, []float64{1}, 1, -7), domain.ErrReservedTag)
	assert.ErrorIs(t, g.Send(ctx, []float64{1}, 2, 0), domain.ErrInvalidRank)
	_, err := g.Reduce(ctx, 1, ports.OpMax, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidRank)
	assert.Empty(t, rec.calls)

	require.NoError(t, g.Send(ctx, []float64{1}, 1, 0))
	require.NoError(t, g.Abort(ctx, nil))
	assert.Equal(t, []string{"send 1/0", "abort"}, rec.calls)
}

func TestReduce_RejectsUnknownOperator(t *testing.T) {
	for _, rank := range []int{0, 1} {
		rec := newRecorder(rank, 2)
		_, err := New(rec).Reduce(context.Background(), 1, ports.ReduceOp(9), 0)
		assert.ErrorIs(t, err, domain.ErrUnknownReduceOp, "rank %d", rank)
		assert.Empty(t, rec.calls, "rank %d", rank)
	}
}
