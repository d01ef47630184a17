// Package textual implements the textual (XML-dialect, "LSX") codec over
// the shared tree model (spec §4.5, §6). Reading tolerates an arbitrary
// root element name and nesting depth; writing always produces 2-space
// indentation, a fixed attribute order, and a leading XML declaration.
package textual

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/treedoc"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// xmlAttribute mirrors treedoc.Attribute with the fixed wire attribute
// order (id, type, value, handle) required by spec §4.5/§6.
type xmlAttribute struct {
	ID     string `xml:"id,attr"`
	Type   string `xml:"type,attr"`
	Value  string `xml:"value,attr"`
	Handle string `xml:"handle,attr,omitempty"`
}

// xmlNode mirrors treedoc.Node; it is recursive to tolerate arbitrary
// nesting depth inside a node (spec §3 invariant).
type xmlNode struct {
	ID         string         `xml:"id,attr"`
	Attributes []xmlAttribute `xml:"attribute"`
	Children   []xmlNode      `xml:"node"`
}

type xmlRegion struct {
	ID    string    `xml:"id,attr"`
	Nodes []xmlNode `xml:"node"`
}

type xmlRegions struct {
	Regions []xmlRegion `xml:"region"`
}

type xmlRoot struct {
	XMLName xml.Name
	Version string      `xml:"version,attr,omitempty"`
	Regions []xmlRegion `xml:"region"`
}

// Parse reads a textual-dialect document from r. The root element's name
// becomes Document.RootTag regardless of what it is; a "version" attribute
// on the root becomes Document.Version when present.
func Parse(r io.Reader) (treedoc.Document, error) {
	const op = "textual.Parse"
	dec := xml.NewDecoder(bomAwareReader(r))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, fmt.Errorf("no root element found"))
		}
		if err != nil {
			return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		var body xmlRegions
		if err := dec.DecodeElement(&body, &start); err != nil {
			return treedoc.Document{}, bgerr.New(op, bgerr.KindInvalidFormat, err)
		}

		doc := treedoc.Document{
			FormatTag: treedoc.FormatTextual,
			RootTag:   start.Name.Local,
			Version:   attrValue(start.Attr, "version"),
			Regions:   make([]treedoc.Region, 0, len(body.Regions)),
		}
		for _, r := range body.Regions {
			doc.Regions = append(doc.Regions, fromXMLRegion(r))
		}
		return doc, nil
	}
}

// ParseBytes is a convenience wrapper around Parse for in-memory content.
func ParseBytes(content []byte) (treedoc.Document, error) {
	return Parse(bytes.NewReader(content))
}

// bomAwareReader strips a leading UTF-8/UTF-16 byte-order mark from mod
// authors' files of unknown provenance, decoding to plain UTF-8 so the
// XML decoder never trips over it.
func bomAwareReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func fromXMLRegion(r xmlRegion) treedoc.Region {
	region := treedoc.Region{ID: r.ID, Nodes: make([]treedoc.Node, 0, len(r.Nodes))}
	for _, n := range r.Nodes {
		region.Nodes = append(region.Nodes, fromXMLNode(n))
	}
	return region
}

func fromXMLNode(n xmlNode) treedoc.Node {
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
		node.Children = append(node.Children, fromXMLNode(c))
	}
	return node
}

// Write emits doc as a textual-dialect document: XML declaration, 2-space
// indentation, and the fixed (id, type, value, handle) attribute order.
func Write(w io.Writer, doc treedoc.Document) error {
	const op = "textual.Write"
	if _, err := io.WriteString(w, xmlDeclaration); err != nil {
		return bgerr.New(op, bgerr.KindIO, err)
	}

	rootTag := doc.RootTag
	if rootTag == "" {
		rootTag = "save"
	}
	root := xmlRoot{
		XMLName: xml.Name{Local: rootTag},
		Version: doc.Version,
		Regions: make([]xmlRegion, 0, len(doc.Regions)),
	}
	for _, r := range doc.Regions {
		root.Regions = append(root.Regions, toXMLRegion(r))
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return bgerr.New(op, bgerr.KindIO, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return bgerr.New(op, bgerr.KindIO, err)
	}
	return nil
}

// WriteString is a convenience wrapper returning the written document as a string.
func WriteString(doc treedoc.Document) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toXMLRegion(r treedoc.Region) xmlRegion {
	out := xmlRegion{ID: r.ID, Nodes: make([]xmlNode, 0, len(r.Nodes))}
	for _, n := range r.Nodes {
		out.Nodes = append(out.Nodes, toXMLNode(n))
	}
	return out
}

func toXMLNode(n treedoc.Node) xmlNode {
	out := xmlNode{
		ID:         n.ID,
		Attributes: make([]xmlAttribute, 0, len(n.Attributes)),
		Children:   make([]xmlNode, 0, len(n.Children)),
	}
	for _, a := range n.Attributes {
		out.Attributes = append(out.Attributes, xmlAttribute{
			ID: a.ID, Type: a.Type, Value: a.Value, Handle: a.Handle,
		})
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toXMLNode(c))
	}
	return out
}
