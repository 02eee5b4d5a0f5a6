package journal

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
	zstdDecoderErr  error
)

func getZstdDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil)
	})
	return zstdDecoder, zstdDecoderErr
}

// Decompress expands a Data object's payload according to its
// ObjectHeader flags. Only Zstd is supported (spec §6.1: "only Zstd
// must be decompressible by this engine's consumers"); XZ and LZ4
// payloads are rejected rather than silently passed through compressed.
func Decompress(flags uint8, payload []byte) ([]byte, error) {
	switch {
	case flags&CompressedXZ != 0:
		return nil, fmt.Errorf("XZ-compressed object payload not supported")
	case flags&CompressedLZ4 != 0:
		return nil, fmt.Errorf("LZ4-compressed object payload not supported")
	case flags&CompressedZstd != 0:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		return dec.DecodeAll(payload, nil)
	default:
		return payload, nil
	}
}
