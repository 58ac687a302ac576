// Copyright 2026 The Weft Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compression tags for Response.HistoryCompression. Protocol
// constants — changing them breaks deployed clients.
const (
	// CompressionNone indicates the payload is raw bytes.
	CompressionNone = "none"

	// CompressionZstd indicates zstd at the default level. Terminal
	// scrollback is text-heavy and typically compresses 3-5x.
	CompressionZstd = "zstd"
)

// encoder and decoder are shared across calls. zstd.Encoder and
// zstd.Decoder are safe for concurrent EncodeAll/DecodeAll use.
var encoder *zstd.Encoder
var decoder *zstd.Decoder

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("ipc: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("ipc: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressHistory compresses a tail payload, returning the encoded
// bytes and the compression tag. Falls back to CompressionNone when
// compression does not shrink the payload, so small or
// already-compressed histories are never inflated.
func CompressHistory(data []byte) ([]byte, string) {
	if len(data) == 0 {
		return nil, CompressionNone
	}
	compressed := encoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return data, CompressionNone
	}
	return compressed, CompressionZstd
}

// DecompressHistory reverses CompressHistory given the payload and
// its compression tag.
func DecompressHistory(data []byte, compression string) ([]byte, error) {
	switch compression {
	case "", CompressionNone:
		return data, nil
	case CompressionZstd:
		decoded, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress zstd history: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unknown history compression %q", compression)
	}
}
