package pages

import "encoding/binary"

type LSN uint64

const ZeroLSN LSN = 0

// LSNSize is the length of the lsn header at the start of every page image.
const LSNSize = 8

func PutLSN(dest []byte, r LSN) {
	binary.BigEndian.PutUint64(dest, uint64(r))
}

func ReadLSN(src []byte) LSN {
	return LSN(binary.BigEndian.Uint64(src))
}
