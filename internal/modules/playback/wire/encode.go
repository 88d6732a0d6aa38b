package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/klovach/resound/internal/modules/playback/domain"
)

// EncodeList encodes a queue-list message.
func EncodeList(l *List) []byte {
	var b []byte
	if l.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, l.ID)
	}
	for _, ctx := range l.Contexts {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeContext(ctx))
	}
	for _, t := range l.Tracks {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTrack(t))
	}
	if len(l.Order) > 0 {
		var packed []byte
		for _, e := range l.Order {
			packed = protowire.AppendVarint(packed, uint64(e))
		}
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if l.Shuffled {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if l.Timestamp != 0 {
		b = protowire.AppendTag(b, 6, protowire.VarintType)
		b = protowire.AppendVarint(b, l.Timestamp)
	}
	return b
}

// EncodeCurrentIndex encodes a playback-position message.
func EncodeCurrentIndex(c *CurrentIndex) []byte {
	var b []byte
	if c.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, c.ID)
	}
	if c.Index != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.Index))
	}
	if c.Timestamp != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, c.Timestamp)
	}
	return b
}

func encodeContext(ctx domain.Context) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeContainer(ctx.Container))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeContextLog(ctx.Log))
	return b
}

func encodeContainer(c domain.Container) []byte {
	var b []byte
	if c.ContextID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, c.ContextID)
	}
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.Type)))
	if c.Mix != nil {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*c.Mix)))
	}
	if c.SmartTracklistMethod != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, *c.SmartTracklistMethod)
	}
	if c.TopTracks != nil {
		b = protowire.AppendTag(b, 5, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*c.TopTracks)))
	}
	return b
}

func encodeContextLog(l domain.ContextLog) []byte {
	var b []byte
	if l.ContextID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, l.ContextID)
	}
	if l.ListeningContext != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, l.ListeningContext)
	}
	return b
}

func encodeTrack(t domain.Track) []byte {
	var b []byte
	if t.ID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, t.ID)
	}
	if t.ContextIndex != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.ContextIndex))
	}
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(t.MediaType)))
	return b
}
