package store

import (
	"context"
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/ttct/internal/domain"
)

// BuildSnapshot assembles every saved section of a request into one JSON
// document:
//
//	{"requestId":"...","status":"draft","sections":{"1":{...payload...}}}
//
// The result is pretty-printed with sorted keys so two snapshots of the same
// data compare equal line by line.
func BuildSnapshot(ctx context.Context, s Store, requestID string) ([]byte, error) {
	req, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	out := []byte(`{}`)
	if out, err = sjson.SetBytes(out, "requestId", req.ID); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "title", req.Title); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "status", req.Status.String()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "sections", []byte(`{}`)); err != nil {
		return nil, err
	}

	for _, id := range domain.SectionIDs() {
		p, err := s.LoadSectionData(ctx, requestID, id)
		if err != nil {
			return nil, fmt.Errorf("load section %s: %w", id, err)
		}
		if p == nil {
			continue
		}
		// savedAt is left out so an unchanged re-save doesn't show up as a diff
		raw, err := Payload{SectionID: p.SectionID, Fields: p.Fields, Complete: p.Complete}.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "sections."+id, raw); err != nil {
			return nil, err
		}
	}

	return Pretty(out), nil
}

// Pretty formats JSON with sorted keys and two-space indentation.
func Pretty(raw []byte) []byte {
	return pretty.PrettyOptions(raw, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: true,
	})
}
