package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/trace"
)

func writeSession(t *testing.T, s *Store, id string, events []trace.Event) {
	t.Helper()
	createTestSession(t, s, id)
	for _, ev := range events {
		require.NoError(t, s.WriteEvent(context.Background(), id, ev))
	}
}

func TestVerify_Clean(t *testing.T) {
	s := createTestStore(t)
	writeSession(t, s, "s-1", sampleEvents())

	v, err := s.Verify(context.Background(), "s-1")
	require.NoError(t, err)
	assert.True(t, v.OK())
	assert.Equal(t, 3, v.Events)
	assert.Equal(t, int64(3), v.LastSeq)
}

func TestVerify_DetectsTampering(t *testing.T) {
	s := createTestStore(t)
	writeSession(t, s, "s-1", sampleEvents())

	_, err := s.db.Exec(`UPDATE events SET name = 'LM_END' WHERE seq = 2`)
	require.NoError(t, err)

	v, err := s.Verify(context.Background(), "s-1")
	require.NoError(t, err)
	assert.False(t, v.OK())
	assert.Equal(t, []int64{2}, v.Mismatched)
}

func TestVerify_DetectsGaps(t *testing.T) {
	s := createTestStore(t)
	events := sampleEvents()
	writeSession(t, s, "s-1", []trace.Event{events[0], events[2]})

	v, err := s.Verify(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, v.Gaps)
	assert.Empty(t, v.Mismatched)
}

func TestVerify_UnknownSession(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Verify(context.Background(), "missing")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeSession(t, s, "a", sampleEvents())
	writeSession(t, s, "b", sampleEvents())

	changed := sampleEvents()
	changed[1].Code = []byte{0x00}
	writeSession(t, s, "c", changed)
	writeSession(t, s, "d", sampleEvents()[:2])

	d, err := s.Compare(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, d.Equivalent(), "same events under different sessions are equivalent")

	d, err = s.Compare(ctx, "a", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.Seq)
	assert.Contains(t, d.Left, `"code":"26"`)
	assert.Contains(t, d.Right, `"code":"00"`)

	d, err = s.Compare(ctx, "a", "d")
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Seq)
	assert.Empty(t, d.Right)
}
