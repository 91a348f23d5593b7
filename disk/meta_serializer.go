package disk

import "encoding/json"

// meta is the allocator state persisted to the sidecar meta file on Close. Page zero
// must stay allocatable so no page in the db file itself is reserved for it.
type meta struct {
	LastPageID PageID   `json:"last_page_id"`
	FreePages  []PageID `json:"free_pages"`
}

type IMetaSerializer interface {
	encodeMeta(m meta) []byte
	readMeta(b []byte) (meta, error)
}

// json serializer implementation
type jsonSerializer struct{}

func (r jsonSerializer) encodeMeta(m meta) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

func (r jsonSerializer) readMeta(b []byte) (meta, error) {
	var m meta
	if err := json.Unmarshal(b, &m); err != nil {
		return meta{}, err
	}
	return m, nil
}
