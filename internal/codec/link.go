package codec

import (
	"net/url"
	"strings"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/formation"
	"github.com/eonil4/kingdom-clash-planner-sub000/internal/unit"
)

// Query keys of a share link.
const (
	QueryFormation = "formation"
	QueryUnits     = "units"
)

// Link encodes both collections as share-link query values. Empty blobs are
// left out.
func (c *Codec) Link(units []unit.Unit, f *formation.Formation) url.Values {
	q := url.Values{}
	if s := c.EncodeFormation(f); s != "" {
		q.Set(QueryFormation, s)
	}
	if s := c.EncodeUnits(units); s != "" {
		q.Set(QueryUnits, s)
	}
	return q
}

// ParseLink decodes the blobs of a share link. A link without a formation
// still yields a default formation.
func (c *Codec) ParseLink(q url.Values) ([]unit.Unit, *formation.Formation) {
	return c.DecodeUnits(q.Get(QueryUnits)), c.DecodeFormation(q.Get(QueryFormation))
}

// LinkQuery extracts the query values from a full share URL, a bare query
// string, or a query string with a leading "?".
//
// url.ParseQuery drops any pair holding a raw ";", which hand-edited links
// routinely contain, so pairs are split here and each side is unescaped on
// a best-effort basis.
func LinkQuery(raw string) url.Values {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	q := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		q.Add(unescape(k), unescape(v))
	}
	return q
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

// Normalize decodes and re-encodes both blobs of a share link. A missing or
// empty blob stays missing.
func (c *Codec) Normalize(q url.Values) url.Values {
	out := url.Values{}
	if s := q.Get(QueryFormation); s != "" {
		out.Set(QueryFormation, c.EncodeFormation(c.DecodeFormation(s)))
	}
	if s := q.Get(QueryUnits); s != "" {
		if units := c.EncodeUnits(c.DecodeUnits(s)); units != "" {
			out.Set(QueryUnits, units)
		}
	}
	return out
}
