package rdb

import (
	"fmt"

	"github.com/kvengine/store/internal/buf"
	"github.com/kvengine/store/values"
)

// ValueTypeOf returns the wire type tag for an in-memory entry value (spec
// §4.2 "Value encoding dispatch"). Concrete container types dispatch to
// their own tag; anything else is rejected since C2 only knows how to
// encode the shapes enumerated in the data model.
func ValueTypeOf(v any) (ValueType, error) {
	switch v.(type) {
	case []byte:
		return TypeString, nil
	case int64:
		return TypeString, nil // integers are stored as their string encoding
	case float64:
		return TypeString, nil
	case *values.List:
		return TypeListQuicklist2, nil
	case *values.Set:
		return TypeSet, nil
	case *values.Hash:
		return TypeHash, nil
	case *values.ZSet:
		return TypeZSet2, nil
	case *values.Stream:
		return TypeStreamListpacks3, nil
	case *values.Extension:
		return TypeExtension, nil
	default:
		return 0, fmt.Errorf("rdb: unencodable value type %T", v)
	}
}

// EncodeValue appends the payload for value (the type tag itself is
// written separately by the caller, since it must precede the key per
// spec §4.2 "File layout" step 4: "a single byte value-type tag, the key
// as a string, and the value").
func EncodeValue(b *buf.Builder, value any, compress bool) error {
	switch v := value.(type) {
	case []byte:
		appendString(b, v, compress)
	case int64:
		appendString(b, []byte(fmt.Sprintf("%d", v)), compress)
	case float64:
		appendString(b, []byte(fmt.Sprintf("%.17g", v)), compress)
	case *values.List:
		appendLength(b, uint64(len(v.Elems)))
		for _, e := range v.Elems {
			appendString(b, e, compress)
		}
	case *values.Set:
		appendLength(b, uint64(len(v.Members)))
		for m := range v.Members {
			appendString(b, []byte(m), compress)
		}
	case *values.Hash:
		appendLength(b, uint64(len(v.Fields)))
		for _, f := range v.Fields {
			appendString(b, f.Field, compress)
			appendString(b, f.Value, compress)
		}
	case *values.ZSet:
		appendLength(b, uint64(len(v.Members)))
		for _, m := range v.Members {
			appendString(b, m.Member, compress)
			appendBinaryFloat(b, m.Score)
		}
	case *values.Stream:
		encodeStream(b, v, compress)
	case *values.Extension:
		appendLength(b, v.ModuleID)
		appendLength(b, uint64(len(v.Payload)))
		b.AppendRaw(v.Payload)
	default:
		return fmt.Errorf("rdb: unencodable value type %T", value)
	}
	return nil
}

func encodeStream(b *buf.Builder, s *values.Stream, compress bool) {
	appendLength(b, uint64(len(s.Entries)))
	for _, e := range s.Entries {
		b.AppendLE64(e.ID.Ms)
		b.AppendLE64(e.ID.Seq)
		appendLength(b, uint64(len(e.Fields)))
		for _, f := range e.Fields {
			appendString(b, f.Field, compress)
			appendString(b, f.Value, compress)
		}
	}
	b.AppendLE64(s.LastID.Ms)
	b.AppendLE64(s.LastID.Seq)
	b.AppendLE64(s.MaxDeletedID.Ms)
	b.AppendLE64(s.MaxDeletedID.Seq)
	b.AppendLE64(s.EntriesAdded)

	appendLength(b, uint64(len(s.Groups)))
	for _, g := range s.Groups {
		appendString(b, []byte(g.Name), compress)
		b.AppendLE64(g.LastID.Ms)
		b.AppendLE64(g.LastID.Seq)
		appendLength(b, uint64(len(g.PendingIDs)))
		for _, id := range g.PendingIDs {
			b.AppendLE64(id.Ms)
			b.AppendLE64(id.Seq)
		}
	}
}

// DecodeValue reads the payload for the given wire type, returning the
// equivalent in-memory representation.
func DecodeValue(d *buf.Decoder, typ ValueType) (any, error) {
	switch typ {
	case TypeString:
		return readString(d)

	case TypeListQuicklist2, TypeList:
		n, err := readLength(d)
		if err != nil {
			return nil, err
		}
		l := &values.List{Elems: make([][]byte, 0, n.Value)}
		for i := uint64(0); i < n.Value; i++ {
			e, err := readString(d)
			if err != nil {
				return nil, err
			}
			l.Elems = append(l.Elems, e)
		}
		return l, nil

	case TypeSet, TypeSetIntset, TypeSetListpack:
		n, err := readLength(d)
		if err != nil {
			return nil, err
		}
		s := values.NewSet()
		for i := uint64(0); i < n.Value; i++ {
			m, err := readString(d)
			if err != nil {
				return nil, err
			}
			s.Add(m)
		}
		return s, nil

	case TypeHash, TypeHashZiplist, TypeHashListpack, TypeHashZipmap:
		n, err := readLength(d)
		if err != nil {
			return nil, err
		}
		h := &values.Hash{}
		for i := uint64(0); i < n.Value; i++ {
			f, err := readString(d)
			if err != nil {
				return nil, err
			}
			v, err := readString(d)
			if err != nil {
				return nil, err
			}
			h.Set(f, v)
		}
		return h, nil

	case TypeZSet, TypeZSet2, TypeZSetZiplist, TypeZSetListpack:
		n, err := readLength(d)
		if err != nil {
			return nil, err
		}
		z := &values.ZSet{}
		for i := uint64(0); i < n.Value; i++ {
			m, err := readString(d)
			if err != nil {
				return nil, err
			}
			score, err := readBinaryFloat(d)
			if err != nil {
				return nil, err
			}
			z.Add(m, score)
		}
		return z, nil

	case TypeStreamListpacks, TypeStreamListpacks2, TypeStreamListpacks3:
		return decodeStream(d)

	case TypeExtension:
		modID, err := readLength(d)
		if err != nil {
			return nil, err
		}
		plen, err := readLength(d)
		if err != nil {
			return nil, err
		}
		payload, err := d.Raw(int(plen.Value))
		if err != nil {
			return nil, err
		}
		return &values.Extension{ModuleID: modID.Value, Payload: append([]byte(nil), payload...)}, nil

	default:
		return nil, fmt.Errorf("rdb: %w: type %d", ErrUnknownOpcode, typ)
	}
}

func decodeStream(d *buf.Decoder) (*values.Stream, error) {
	s := &values.Stream{}

	n, err := readLength(d)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < n.Value; i++ {
		var e values.StreamEntry
		if e.ID.Ms, err = d.LE64(); err != nil {
			return nil, err
		}
		if e.ID.Seq, err = d.LE64(); err != nil {
			return nil, err
		}
		fn, err := readLength(d)
		if err != nil {
			return nil, err
		}
		for j := uint64(0); j < fn.Value; j++ {
			field, err := readString(d)
			if err != nil {
				return nil, err
			}
			val, err := readString(d)
			if err != nil {
				return nil, err
			}
			e.Fields = append(e.Fields, values.HashField{Field: field, Value: val})
		}
		s.Entries = append(s.Entries, e)
	}

	var err2 error
	if s.LastID.Ms, err2 = d.LE64(); err2 != nil {
		return nil, err2
	}
	if s.LastID.Seq, err2 = d.LE64(); err2 != nil {
		return nil, err2
	}
	if s.MaxDeletedID.Ms, err2 = d.LE64(); err2 != nil {
		return nil, err2
	}
	if s.MaxDeletedID.Seq, err2 = d.LE64(); err2 != nil {
		return nil, err2
	}
	if s.EntriesAdded, err2 = d.LE64(); err2 != nil {
		return nil, err2
	}

	gn, err := readLength(d)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < gn.Value; i++ {
		var g values.ConsumerGroup
		name, err := readString(d)
		if err != nil {
			return nil, err
		}
		g.Name = string(name)
		if g.LastID.Ms, err = d.LE64(); err != nil {
			return nil, err
		}
		if g.LastID.Seq, err = d.LE64(); err != nil {
			return nil, err
		}
		pn, err := readLength(d)
		if err != nil {
			return nil, err
		}
		for j := uint64(0); j < pn.Value; j++ {
			var id values.StreamID
			if id.Ms, err = d.LE64(); err != nil {
				return nil, err
			}
			if id.Seq, err = d.LE64(); err != nil {
				return nil, err
			}
			g.PendingIDs = append(g.PendingIDs, id)
		}
		s.Groups = append(s.Groups, g)
	}

	return s, nil
}
