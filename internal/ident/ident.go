package ident

import (
	"time"

	"github.com/google/uuid"
	hashids "github.com/speps/go-hashids/v2"
)

// Origin says where a record's identifier was minted. Lookups and the
// cloud-sync selection dispatch on this tag instead of guessing from the
// shape of the id string.
type Origin string

const (
	// OriginLocal marks records created in this process (demo mode or a
	// venue appended before any database insert succeeded).
	OriginLocal Origin = "local"
	// OriginRemote marks records whose id was assigned by the database.
	OriginRemote Origin = "remote"
)

// NewRemoteID returns a database-shaped id for rows minted outside the
// database (e.g. imported backups that carried no remote id).
func NewRemoteID() string {
	return uuid.NewString()
}

// IsRemoteShaped reports whether id parses as a UUID. Kept only for
// classifying ids arriving in backup documents, where no origin tag was
// recorded; runtime code carries the Origin tag instead.
func IsRemoteShaped(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Generator mints short opaque ids for locally-created records. The ids are
// deliberately not UUID-shaped so an exported document remains readable and
// an import into an older client still classifies them as unsynced.
type Generator struct {
	h   *hashids.HashID
	seq int64
}

func NewGenerator(salt string) (*Generator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &Generator{h: h, seq: time.Now().UnixNano() % 1_000_000}, nil
}

// Next returns a new local id. Not safe for concurrent use; the catalog
// serializes all calls behind its own lock.
func (g *Generator) Next() string {
	g.seq++
	id, err := g.h.EncodeInt64([]int64{g.seq, time.Now().Unix()})
	if err != nil {
		// EncodeInt64 only fails on negative input, which cannot happen here.
		return uuid.NewString()
	}
	return id
}
