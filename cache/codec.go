package cache

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/tsalign/series"
)

// Codec transforms payloads on their way into and out of a Store.
type Codec interface {
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// Codec names accepted by NewCodec.
const (
	CodecIdentity = "none"
	CodecSnappy   = "snappy"
	CodecZstd     = "zstd"
)

// NewCodec returns the codec called name. level (1..4) only applies to zstd.
func NewCodec(name string, level int) (Codec, error) {
	switch name {
	case CodecIdentity, "":
		return Identity{}, nil
	case CodecSnappy:
		return Snappy{}, nil
	case CodecZstd:
		return NewZstd(level)
	default:
		return nil, fmt.Errorf("codec %q: %w", name, series.ErrUnsupportedMethod)
	}
}

// Identity stores payloads as is.
type Identity struct{}

func (Identity) Name() string                      { return CodecIdentity }
func (Identity) Encode(src []byte) ([]byte, error) { return src, nil }
func (Identity) Decode(src []byte) ([]byte, error) { return src, nil }

// Snappy favours speed over ratio.
type Snappy struct{}

func (Snappy) Name() string                      { return CodecSnappy }
func (Snappy) Encode(src []byte) ([]byte, error) { return snappy.Encode(nil, src), nil }

func (Snappy) Decode(src []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("snappy decode: %w", err)
	}

	return out, nil
}

// Zstd holds one encoder and one decoder; EncodeAll/DecodeAll are safe for
// concurrent use.
type Zstd struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd maps level 1..4 to fastest, default, better and best compression;
// any other level uses the default.
func NewZstd(level int) (*Zstd, error) {
	encLevel := zstd.SpeedDefault
	switch level {
	case 1:
		encLevel = zstd.SpeedFastest
	case 3:
		encLevel = zstd.SpeedBetterCompression
	case 4:
		encLevel = zstd.SpeedBestCompression
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	return &Zstd{encoder: enc, decoder: dec}, nil
}

func (z *Zstd) Name() string { return CodecZstd }

func (z *Zstd) Encode(src []byte) ([]byte, error) {
	return z.encoder.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

func (z *Zstd) Decode(src []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}

	return out, nil
}

// Close releases the encoder and decoder.
func (z *Zstd) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}
