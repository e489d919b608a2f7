package favicon

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type icoImage struct {
	size int
	png  []byte
}

const (
	icoHeaderLen = 6
	icoEntryLen  = 16
)

// encodeICO packs PNG images into an ICO container. Sizes above 255 are
// written as 0, which the format reads as 256.
func encodeICO(images []icoImage) ([]byte, error) {
	if len(images) == 0 || len(images) > 0xffff {
		return nil, fmt.Errorf("ico: %d images", len(images))
	}
	var buf bytes.Buffer
	le := binary.LittleEndian

	header := make([]byte, icoHeaderLen)
	le.PutUint16(header[2:], 1)
	le.PutUint16(header[4:], uint16(len(images)))
	buf.Write(header)

	offset := icoHeaderLen + icoEntryLen*len(images)
	for _, img := range images {
		if img.size <= 0 || img.size > 256 {
			return nil, fmt.Errorf("ico: unsupported size %d", img.size)
		}
		entry := make([]byte, icoEntryLen)
		dim := byte(img.size)
		if img.size == 256 {
			dim = 0
		}
		entry[0] = dim
		entry[1] = dim
		le.PutUint16(entry[4:], 1)
		le.PutUint16(entry[6:], 32)
		le.PutUint32(entry[8:], uint32(len(img.png)))
		le.PutUint32(entry[12:], uint32(offset))
		buf.Write(entry)
		offset += len(img.png)
	}
	for _, img := range images {
		buf.Write(img.png)
	}
	return buf.Bytes(), nil
}
