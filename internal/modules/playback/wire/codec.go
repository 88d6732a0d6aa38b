// Package wire encodes and decodes the binary queue-synchronization messages
// exchanged with remote controllers.
//
// The messages are protobuf-encoded. The schema is small and fixed, so the
// codec is written directly against the protobuf wire format instead of
// generated code; this keeps presence tracking for optional fields and the
// unknown-enum fallback explicit and auditable.
//
//	Container:    1=context_id(string) 2=typ(sint32) 3=mix(sint32)
//	              4=smart_tracklist(string) 5=top_tracks(sint32)
//	ContextLog:   1=context_id(string) 2=listening_context(string)
//	Context:      1=container(message) 2=log(message)
//	Track:        1=id(string) 2=context_index(uint32) 3=media_type(sint32)
//	List:         1=id(string) 2=contexts(repeated message)
//	              3=tracks(repeated message) 4=tracks_order(packed uint32)
//	              5=shuffled(bool) 6=timestamp(uint64)
//	CurrentIndex: 1=id(string) 2=index(uint32) 3=timestamp(uint64)
//
// Enum fields use zigzag encoding with -1 reserved for values the peer does
// not recognize. Unknown field numbers are skipped, and unknown enum values
// decode to the Unrecognized variant, never failing the message.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/klovach/resound/internal/modules/playback/domain"
)

// ErrMalformed is returned when a message cannot be decoded: a truncated
// varint, a length prefix past the end of the buffer, and similar structural
// damage. Decoding has no side effects, so callers simply drop the message.
var ErrMalformed = errors.New("malformed message")

// List is a decoded queue-list update: a complete snapshot of the queue.
type List struct {
	ID        string
	Contexts  []domain.Context
	Tracks    []domain.Track
	Order     []uint32
	Shuffled  bool
	Timestamp uint64
}

// CurrentIndex is a decoded playback-position update.
type CurrentIndex struct {
	ID        string
	Index     uint32
	Timestamp uint64
}

func fieldErr(msg string, num protowire.Number) error {
	return fmt.Errorf("%s: field %d: %w", msg, num, ErrMalformed)
}

// DecodeList decodes a queue-list message.
func DecodeList(b []byte) (*List, error) {
	l := &List{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("queue list: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			l.ID = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			ctx, err := decodeContext(v)
			if err != nil {
				return nil, err
			}
			l.Contexts = append(l.Contexts, ctx)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			t, err := decodeTrack(v)
			if err != nil {
				return nil, err
			}
			l.Tracks = append(l.Tracks, t)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			// Packed order entries.
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			for len(v) > 0 {
				e, n := protowire.ConsumeVarint(v)
				if n < 0 {
					return nil, fieldErr("queue list order", num)
				}
				l.Order = append(l.Order, uint32(e))
				v = v[n:]
			}
			b = b[n:]
		case num == 4 && typ == protowire.VarintType:
			// Unpacked encoding of the same field.
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fieldErr("queue list order", num)
			}
			l.Order = append(l.Order, uint32(v))
			b = b[n:]
		case num == 5 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			l.Shuffled = v != 0
			b = b[n:]
		case num == 6 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			l.Timestamp = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fieldErr("queue list", num)
			}
			b = b[n:]
		}
	}
	return l, nil
}

// DecodeCurrentIndex decodes a playback-position message.
func DecodeCurrentIndex(b []byte) (*CurrentIndex, error) {
	c := &CurrentIndex{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("current index: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fieldErr("current index", num)
			}
			c.ID = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fieldErr("current index", num)
			}
			c.Index = uint32(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fieldErr("current index", num)
			}
			c.Timestamp = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fieldErr("current index", num)
			}
			b = b[n:]
		}
	}
	return c, nil
}

func decodeContext(b []byte) (domain.Context, error) {
	var ctx domain.Context
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ctx, fmt.Errorf("context: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return ctx, fieldErr("context", num)
			}
			c, err := decodeContainer(v)
			if err != nil {
				return ctx, err
			}
			ctx.Container = c
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return ctx, fieldErr("context", num)
			}
			l, err := decodeContextLog(v)
			if err != nil {
				return ctx, err
			}
			ctx.Log = l
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return ctx, fieldErr("context", num)
			}
			b = b[n:]
		}
	}
	return ctx, nil
}

func decodeContainer(b []byte) (domain.Container, error) {
	var c domain.Container
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return c, fmt.Errorf("container: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			c.ContextID = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			c.Type = domain.ContainerTypeFromWire(int32(protowire.DecodeZigZag(v)))
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			mix := domain.MixTypeFromWire(int32(protowire.DecodeZigZag(v)))
			c.Mix = &mix
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			c.SmartTracklistMethod = &v
			b = b[n:]
		case num == 5 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			tt := domain.TopTracksTypeFromWire(int32(protowire.DecodeZigZag(v)))
			c.TopTracks = &tt
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return c, fieldErr("container", num)
			}
			b = b[n:]
		}
	}
	return c, nil
}

func decodeContextLog(b []byte) (domain.ContextLog, error) {
	var l domain.ContextLog
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return l, fmt.Errorf("context log: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return l, fieldErr("context log", num)
			}
			l.ContextID = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return l, fieldErr("context log", num)
			}
			l.ListeningContext = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return l, fieldErr("context log", num)
			}
			b = b[n:]
		}
	}
	return l, nil
}

func decodeTrack(b []byte) (domain.Track, error) {
	var t domain.Track
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return t, fmt.Errorf("track: invalid tag: %w", ErrMalformed)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return t, fieldErr("track", num)
			}
			t.ID = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return t, fieldErr("track", num)
			}
			t.ContextIndex = int(v)
			b = b[n:]
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return t, fieldErr("track", num)
			}
			t.MediaType = domain.MediaTypeFromWire(int32(protowire.DecodeZigZag(v)))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return t, fieldErr("track", num)
			}
			b = b[n:]
		}
	}
	return t, nil
}
