package storage

import (
	"testing"

	"fairtix-engine/config"
	"fairtix-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditAppendAndRange(t *testing.T) {
	store := NewLevelDB(config.LevelDBConfig{Path: t.TempDir()})
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(&models.AuditRecord{
			Op:    models.AuditOpTicketMinted,
			Actor: "alice",
			At:    1700000000 + int64(i),
		}))
	}

	assert.Equal(t, uint64(5), store.LastSeq())

	recs, err := store.Range(1, 10)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	// append order is sequence order
	for i, rec := range recs {
		assert.Equal(t, uint64(i+1), rec.Seq)
		assert.NotEmpty(t, rec.Id)
	}

	recs, err = store.Range(4, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(4), recs[0].Seq)

	recs, err = store.Range(1, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestAuditSeqSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store := NewLevelDB(config.LevelDBConfig{Path: dir})
	require.NoError(t, store.Append(&models.AuditRecord{Op: models.AuditOpDeposit, Actor: "a", At: 1}))
	require.NoError(t, store.Append(&models.AuditRecord{Op: models.AuditOpDeposit, Actor: "b", At: 2}))
	require.NoError(t, store.Close())

	store = NewLevelDB(config.LevelDBConfig{Path: dir})
	defer store.Close()
	assert.Equal(t, uint64(2), store.LastSeq())

	require.NoError(t, store.Append(&models.AuditRecord{Op: models.AuditOpDeposit, Actor: "c", At: 3}))
	assert.Equal(t, uint64(3), store.LastSeq())
}
