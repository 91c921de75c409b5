package game

import (
	"bytes"
	"encoding/gob"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// TestSerializeDeserialize verifies basic serialization roundtrip
func TestSerializeDeserialize(t *testing.T) {
	snapshot := labeled("after-step", "Writing", "Oars")

	data, err := SerializeSnapshot(snapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	decoded, err := DeserializeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Label, decoded.Label)
	assert.Equal(t, snapshot.PlayerOrder, decoded.PlayerOrder)
	assert.Equal(t, snapshot.Players["alice"].Hand, decoded.Players["alice"].Hand)
	assert.Equal(t, snapshot.DrawPiles, decoded.DrawPiles)
}

func TestSerializeKeepsChecksum(t *testing.T) {
	for _, snapshot := range []*state.Snapshot{
		labeled("s1", "Writing"),
		// Empty zones decode as nil slices and must hash the same.
		labeled("empty"),
	} {
		snapshot.Timestamp = time.Now()
		want, err := snapshot.ComputeChecksum()
		require.NoError(t, err)

		data, err := SerializeSnapshot(snapshot)
		require.NoError(t, err)
		decoded, err := DeserializeSnapshot(data)
		require.NoError(t, err)
		got, err := decoded.ComputeChecksum()
		require.NoError(t, err)
		assert.Equal(t, want.Hash, got.Hash, snapshot.Label)
	}
}

// TestDeserializeRejectsTamperedSnapshot verifies that a record whose content
// no longer matches its stored checksum is refused
func TestDeserializeRejectsTamperedSnapshot(t *testing.T) {
	record, err := newSnapshotRecord(labeled("s1", "Writing"))
	require.NoError(t, err)
	record.Snapshot.DrawPiles[1] = []string{"Tools", "Oars"}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(record))

	_, err = DeserializeSnapshot(buf.Bytes())
	assert.ErrorContains(t, err, "checksum mismatch")

	_, err = DeserializeSnapshot([]byte("not gob"))
	assert.Error(t, err)
}
