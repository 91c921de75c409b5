package game

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/innovationgame/innovation-server-go/internal/game/state"
)

// snapshotRecord is a snapshot as written to a replay file, stored with
// the checksum it had when it was recorded.
type snapshotRecord struct {
	Snapshot *state.Snapshot
	Checksum state.Checksum
}

func newSnapshotRecord(s *state.Snapshot) (*snapshotRecord, error) {
	sum, err := s.ComputeChecksum()
	if err != nil {
		return nil, err
	}
	return &snapshotRecord{Snapshot: s, Checksum: *sum}, nil
}

// verify returns the snapshot if it still matches its stored checksum.
func (r *snapshotRecord) verify() (*state.Snapshot, error) {
	if r.Snapshot == nil {
		return nil, fmt.Errorf("record has no snapshot")
	}
	ok, err := r.Snapshot.VerifyChecksum(&r.Checksum)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("checksum mismatch for %q", r.Snapshot.Label)
	}
	return r.Snapshot, nil
}

// SerializeSnapshot encodes a snapshot and its checksum with gob.
func SerializeSnapshot(s *state.Snapshot) ([]byte, error) {
	record, err := newSnapshotRecord(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(record); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeSnapshot decodes bytes written by SerializeSnapshot and
// rejects a snapshot whose content no longer matches its checksum.
func DeserializeSnapshot(data []byte) (*state.Snapshot, error) {
	var record snapshotRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return record.verify()
}
