package idempotency

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		code int32
		want bool
	}{
		{504, true},
		{500, true},
		{412, true},
		{402, true},
		{200, false},
		{201, false},
		{400, false},
		{404, false},
		{409, false},
		{425, false},
		{502, false},
		{503, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("code_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.code))
		})
	}
}

func TestRecord_Eligible(t *testing.T) {
	pending := &Record{Status: PENDING_REC}
	assert.True(t, pending.Eligible())

	retryable := &Record{Status: COMPLETED_REC, ResponseCode: 500}
	assert.True(t, retryable.Eligible())

	final := &Record{Status: COMPLETED_REC, ResponseCode: 201}
	assert.False(t, final.Eligible())
}

func TestFilterEligible(t *testing.T) {
	records := []*Record{
		{RecordID: 1, Status: PENDING_REC},
		{RecordID: 2, Status: COMPLETED_REC, ResponseCode: 201},
		{RecordID: 3, Status: COMPLETED_REC, ResponseCode: 402},
		{RecordID: 4, Status: COMPLETED_REC, ResponseCode: 504},
		{RecordID: 5, Status: COMPLETED_REC, ResponseCode: 404},
	}

	kept := FilterEligible(records)
	require.Len(t, kept, 3)
	assert.EqualValues(t, 1, kept[0].RecordID)
	assert.EqualValues(t, 3, kept[1].RecordID)
	assert.EqualValues(t, 4, kept[2].RecordID)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte(`{"amount":100}`))
	b := Fingerprint([]byte(`{"amount":100}`))
	c := Fingerprint([]byte(`{"amount":200}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestGuard_FirstSubmission(t *testing.T) {
	g := NewGuard(NewMemStore())

	cached, err := g.Check("k1", "h1")
	require.NoError(t, err)
	assert.Nil(t, cached)

	h, err := g.Begin("k1", "h1", []byte("req"))
	require.NoError(t, err)
	require.NotNil(t, h)

	require.NoError(t, g.Complete(h, []byte("resp"), 201))
}

func TestGuard_ReplayFinalResponse(t *testing.T) {
	// P4: completed with a non-retryable code is replayed verbatim.
	g := NewGuard(NewMemStore())

	h, err := g.Begin("k3", "h3", []byte("req"))
	require.NoError(t, err)
	require.NoError(t, g.Complete(h, []byte(`{"ref":"RC-1"}`), 201))

	cached, err := g.Check("k3", "h3")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.EqualValues(t, 201, cached.Code)
	assert.Equal(t, []byte(`{"ref":"RC-1"}`), cached.Body)

	// No fresh attempt is possible either.
	_, err = g.Begin("k3", "h3", []byte("req"))
	assert.Equal(t, ErrAlreadyCompleted, err)
}

func TestGuard_RetryableCompletionAllowsFreshAttempt(t *testing.T) {
	// P5: completed with 500 is eligible for a fresh attempt.
	g := NewGuard(NewMemStore())

	h, err := g.Begin("k2", "h2", []byte("req"))
	require.NoError(t, err)
	require.NoError(t, g.Complete(h, []byte("boom"), 500))

	cached, err := g.Check("k2", "h2")
	require.NoError(t, err)
	assert.Nil(t, cached, "retryable completion must not be replayed")

	h2, err := g.Begin("k2", "h2", []byte("req"))
	require.NoError(t, err)
	require.NoError(t, g.Complete(h2, []byte("ok"), 201))

	cached, err = g.Check("k2", "h2")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.EqualValues(t, 201, cached.Code)
}

func TestGuard_PaymentRequiredIsRetryable(t *testing.T) {
	g := NewGuard(NewMemStore())

	h, err := g.Begin("k402", "h402", []byte("req"))
	require.NoError(t, err)
	require.NoError(t, g.Complete(h, []byte("insufficient funds"), 402))

	cached, err := g.Check("k402", "h402")
	require.NoError(t, err)
	assert.Nil(t, cached)

	_, err = g.Begin("k402", "h402", []byte("req"))
	assert.NoError(t, err)
}

func TestGuard_DuplicateInFlight(t *testing.T) {
	g := NewGuard(NewMemStore())

	_, err := g.Begin("k1", "h1", []byte("req"))
	require.NoError(t, err)

	// A concurrent duplicate of the same (key, hash) pair.
	_, err = g.Begin("k1", "h1", []byte("req"))
	assert.Equal(t, ErrDuplicateInFlight, err)

	_, err = g.Check("k1", "h1")
	assert.Equal(t, ErrDuplicateInFlight, err)
}

func TestGuard_DifferentHashSameKeyIndependent(t *testing.T) {
	// Same key with a different payload hash is not a collision.
	g := NewGuard(NewMemStore())

	_, err := g.Begin("k1", "h1", []byte("req1"))
	require.NoError(t, err)

	h2, err := g.Begin("k1", "h2", []byte("req2"))
	require.NoError(t, err)
	require.NotNil(t, h2)
}

func TestGuard_ReclaimRace(t *testing.T) {
	// Two retries of a retryable completion: only one takes over.
	store := NewMemStore()
	g := NewGuard(store)

	h, err := g.Begin("k1", "h1", []byte("req"))
	require.NoError(t, err)
	require.NoError(t, g.Complete(h, []byte("boom"), 504))

	_, err = g.Begin("k1", "h1", []byte("req"))
	require.NoError(t, err)

	_, err = g.Begin("k1", "h1", []byte("req"))
	assert.Equal(t, ErrDuplicateInFlight, err)
}
