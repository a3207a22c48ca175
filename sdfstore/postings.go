package sdfstore

import (
	"encoding/binary"
)

// AppendConformerPosting appends a conformer's 16-byte ALID to the posting
// list for cid, opening a new page whenever the last page already holds
// pageSize entries. Pages are append-only and never compacted or split, so
// each call is amortized O(1); the CID's page-count header is updated in
// place.
func (tx *Tx) AppendConformerPosting(cid int64, alid [16]byte, pageSize uint32) error {
	headers := tx.bucket(bucketCIDToConfHeaders)
	pages := tx.bucket(bucketCIDToConfPages)

	key := cidKey(cid)
	var pageCount uint32
	if raw := headers.Get(key); raw != nil {
		pageCount = binary.LittleEndian.Uint32(raw)
	}

	if pageCount == 0 {
		return tx.openNewPostingPage(cid, alid, 1, headers, pages)
	}

	lastPageNo := pageCount - 1
	lastPageKey := postingPageKey(cid, lastPageNo)
	existing := pages.Get(lastPageKey)
	entries := uint32(len(existing)) / 16
	if entries < pageSize {
		next := append(append([]byte(nil), existing...), alid[:]...)
		return pages.Put(lastPageKey, next)
	}

	return tx.openNewPostingPage(cid, alid, pageCount+1, headers, pages)
}

func (tx *Tx) openNewPostingPage(cid int64, alid [16]byte, newPageCount uint32, headers, pages interface {
	Put(key, value []byte) error
}) error {
	pageNo := newPageCount - 1
	if err := pages.Put(postingPageKey(cid, pageNo), alid[:]); err != nil {
		return err
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, newPageCount)
	return headers.Put(cidKey(cid), buf)
}

// ConformerPageCount returns the number of posting-list pages stored for
// cid, or 0 if the CID has no known conformers.
func (tx *Tx) ConformerPageCount(cid int64) uint32 {
	raw := tx.bucket(bucketCIDToConfHeaders).Get(cidKey(cid))
	if raw == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(raw)
}

// ConformerPage returns the concatenated ALID bytes stored on page pageNo
// (0-based) of cid's posting list.
func (tx *Tx) ConformerPage(cid int64, pageNo uint32) []byte {
	raw := tx.bucket(bucketCIDToConfPages).Get(postingPageKey(cid, pageNo))
	if raw == nil {
		return nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// IterateConformerALIDs calls fn once per ALID in cid's posting list, in
// page order then append order within a page (which is source-file byte
// order). It stops early if fn returns false.
func (tx *Tx) IterateConformerALIDs(cid int64, fn func(alid [16]byte) bool) {
	pageCount := tx.ConformerPageCount(cid)
	for pageNo := uint32(0); pageNo < pageCount; pageNo++ {
		page := tx.ConformerPage(cid, pageNo)
		for off := 0; off+16 <= len(page); off += 16 {
			var alid [16]byte
			copy(alid[:], page[off:off+16])
			if !fn(alid) {
				return
			}
		}
	}
}
