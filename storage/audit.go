package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"fairtix-engine/config"
	"fairtix-engine/models"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// AuditStore is the append-only audit feed over LevelDB. Records are keyed
// by a big-endian sequence number so iteration order is append order.
type AuditStore struct {
	db   *leveldb.DB
	lock sync.Mutex
	seq  uint64
}

func NewLevelDB(cfg config.LevelDBConfig) *AuditStore {
	db, err := leveldb.OpenFile(cfg.Path, nil)
	if err != nil {
		panic(err)
	}

	store := &AuditStore{db: db}

	iter := db.NewIterator(&util.Range{}, nil)
	if iter.Last() {
		store.seq = binary.BigEndian.Uint64(iter.Key())
	}
	iter.Release()

	return store
}

func (s *AuditStore) Append(rec *models.AuditRecord) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.seq++
	rec.Seq = s.seq
	if rec.Id == "" {
		rec.Id = uuid.New().String()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit append err: %s op: %s", err.Error(), rec.Op)
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, s.seq)

	if err := s.db.Put(key, data, nil); err != nil {
		return fmt.Errorf("audit append err: %s op: %s", err.Error(), rec.Op)
	}

	return nil
}

// Range returns up to limit records starting at sequence from (1-based).
func (s *AuditStore) Range(from uint64, limit int) ([]*models.AuditRecord, error) {
	if from == 0 {
		from = 1
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	start := make([]byte, 8)
	binary.BigEndian.PutUint64(start, from)

	recs := make([]*models.AuditRecord, 0)
	iter := s.db.NewIterator(&util.Range{Start: start}, nil)
	defer iter.Release()

	for iter.Next() {
		rec := &models.AuditRecord{}
		if err := json.Unmarshal(iter.Value(), rec); err != nil {
			return nil, fmt.Errorf("audit range err: %s", err.Error())
		}
		recs = append(recs, rec)
		if len(recs) >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("audit range err: %s", err.Error())
	}

	return recs, nil
}

func (s *AuditStore) LastSeq() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.seq
}

func (s *AuditStore) Close() error {
	return s.db.Close()
}
