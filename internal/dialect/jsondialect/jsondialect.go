// Package jsondialect implements the JSON-dialect ("LSJ") codec over the
// shared tree model (spec §4.5, §6). Reading tolerates both the legacy
// list-of-regions shape and the current map-of-regions shape; writing
// always emits the map shape with region keys in stable (sorted) order.
package jsondialect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/treedoc"
)

// Reserved keys within a region or node body; anything else is opaque
// pass-through preserved in treedoc.Region.Extra (DESIGN.md Open Question 2).
const (
	keyNode      = "node"
	keyAttribute = "attribute"
	keyID        = "id"
)

type wireAttribute struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Value  string `json:"value"`
	Handle string `json:"handle,omitempty"`
}

type wireNode struct {
	ID         string          `json:"id"`
	Attributes []wireAttribute `json:"attribute,omitempty"`
	Children   []wireNode      `json:"node,omitempty"`
}

type wireRegionBody struct {
	Nodes []wireNode `json:"node,omitempty"`
}

type wireHeader struct {
	Version string `json:"version,omitempty"`
}

type wireSave struct {
	Header  wireHeader      `json:"header"`
	Regions json.RawMessage `json:"regions"`
}

type wireRoot struct {
	Save wireSave `json:"save"`
}

// Parse reads a JSON-dialect document from content.
func Parse(content []byte) (treedoc.Document, error) {
	const op = "jsondialect.Parse"
	content, err := stripBOM(content)
	if err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
	}

	var root wireRoot
	if err := json.Unmarshal(content, &root); err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
	}

	doc := treedoc.Document{
		FormatTag: treedoc.FormatJSON,
		RootTag:   "save",
		Version:   root.Save.Header.Version,
	}

	regions, err := parseRegions(root.Save.Regions)
	if err != nil {
		return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
	}
	doc.Regions = regions
	return doc, nil
}

// parseRegions handles both shapes named in spec §4.5: a JSON object keyed
// by region id (current), or a JSON array of {"id": ..., ...} (legacy).
func parseRegions(raw json.RawMessage) ([]treedoc.Region, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		return parseRegionsMap(raw)
	case '[':
		return parseRegionsList(raw)
	default:
		return nil, fmt.Errorf("regions: unexpected JSON value")
	}
}

func parseRegionsMap(raw json.RawMessage) ([]treedoc.Region, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("regions map: %w", err)
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	regions := make([]treedoc.Region, 0, len(ids))
	for _, id := range ids {
		region, err := parseRegionBody(id, m[id])
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func parseRegionsList(raw json.RawMessage) ([]treedoc.Region, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("regions list: %w", err)
	}
	regions := make([]treedoc.Region, 0, len(list))
	for _, item := range list {
		var withID struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &withID); err != nil {
			return nil, fmt.Errorf("region entry: %w", err)
		}
		region, err := parseRegionBody(withID.ID, item)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func parseRegionBody(id string, raw json.RawMessage) (treedoc.Region, error) {
	var body wireRegionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return treedoc.Region{}, fmt.Errorf("region %q: %w", id, err)
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return treedoc.Region{}, fmt.Errorf("region %q: %w", id, err)
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range generic {
		switch k {
		case keyNode, keyID:
			continue
		default:
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	region := treedoc.Region{ID: id, Extra: extra, Nodes: make([]treedoc.Node, 0, len(body.Nodes))}
	for _, n := range body.Nodes {
		region.Nodes = append(region.Nodes, fromWireNode(n))
	}
	return region, nil
}

func fromWireNode(n wireNode) treedoc.Node {
	node := treedoc.Node{
		ID:         n.ID,
		Attributes: make([]treedoc.Attribute, 0, len(n.Attributes)),
		Children:   make([]treedoc.Node, 0, len(n.Children)),
	}
	for _, a := range n.Attributes {
		node.Attributes = append(node.Attributes, treedoc.Attribute{
			ID: a.ID, Type: a.Type, Value: a.Value, Handle: a.Handle,
		})
	}
	for _, c := range n.Children {
		node.Children = append(node.Children, fromWireNode(c))
	}
	return node
}

// Write emits doc in the JSON dialect's current (map-of-regions) shape,
// 2-space indented, with region keys in stable sorted order.
func Write(doc treedoc.Document) ([]byte, error) {
	const op = "jsondialect.Write"

	regionsMap := make(map[string]json.RawMessage, len(doc.Regions))
	for _, r := range doc.Regions {
		body, err := regionBodyJSON(r)
		if err != nil {
			return nil, bgerr.New(op, bgerr.KindIO, err)
		}
		regionsMap[r.ID] = body
	}

	// Build ordered-key JSON manually: encoding/json marshals maps with
	// sorted keys already, so a plain map here gives us the stable order
	// spec §6 requires without extra bookkeeping.
	regionsJSON, err := json.Marshal(regionsMap)
	if err != nil {
		return nil, bgerr.New(op, bgerr.KindIO, err)
	}

	root := wireRoot{
		Save: wireSave{
			Header:  wireHeader{Version: doc.Version},
			Regions: regionsJSON,
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		return nil, bgerr.New(op, bgerr.KindIO, err)
	}
	return buf.Bytes(), nil
}

func regionBodyJSON(r treedoc.Region) (json.RawMessage, error) {
	nodes := make([]wireNode, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		nodes = append(nodes, toWireNode(n))
	}

	merged := make(map[string]json.RawMessage, len(r.Extra)+1)
	for k, v := range r.Extra {
		merged[k] = v
	}
	if len(nodes) > 0 {
		nodesJSON, err := json.Marshal(nodes)
		if err != nil {
			return nil, err
		}
		merged[keyNode] = nodesJSON
	}
	return json.Marshal(merged)
}

func toWireNode(n treedoc.Node) wireNode {
	out := wireNode{
		ID:         n.ID,
		Attributes: make([]wireAttribute, 0, len(n.Attributes)),
		Children:   make([]wireNode, 0, len(n.Children)),
	}
	for _, a := range n.Attributes {
		out.Attributes = append(out.Attributes, wireAttribute{
			ID: a.ID, Type: a.Type, Value: a.Value, Handle: a.Handle,
		})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toWireNode(c))
	}
	return out
}

// stripBOM strips a leading UTF-8/UTF-16 byte-order mark from content of
// unknown provenance, same guard dialect/textual applies before its XML
// decoder runs.
func stripBOM(content []byte) ([]byte, error) {
	r := transform.NewReader(bytes.NewReader(content), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return io.ReadAll(r)
}
