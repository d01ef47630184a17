// Package formatdetect classifies a file by extension and/or magic bytes
// (spec §4.4). Detection never throws: every input resolves to some Kind,
// with Unknown as the final fallback.
package formatdetect

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"path/filepath"
	"strings"
)

// Kind is the detected file family.
type Kind int

const (
	// Unknown is the final fallback when no rule matches.
	Unknown Kind = iota
	// Textual is the XML-dialect tree document (.lsx, .xml).
	Textual
	// JSON is the JSON-dialect tree document (.lsj, .json).
	JSON
	// Binary is the binary-serialized tree document (.lsf, .lsfx, .lsbs, .lsbc).
	Binary
	// Localization is the localization string table (.loca).
	Localization
	// Texture is the game's texture container (.dds).
	Texture
	// Model is the game's 3D model container (.gr2).
	Model
	// Shader is a compiled shader variant (.bshd, .shd).
	Shader
	// Package is the compressed archive format (.pak).
	Package
	// PlainText is unstructured text with no recognized dialect (.txt).
	PlainText
)

func (k Kind) String() string {
	switch k {
	case Textual:
		return "textual"
	case JSON:
		return "json"
	case Binary:
		return "binary"
	case Localization:
		return "localization"
	case Texture:
		return "texture"
	case Model:
		return "model"
	case Shader:
		return "shader"
	case Package:
		return "package"
	case PlainText:
		return "plaintext"
	default:
		return "unknown"
	}
}

// extensionRules is rule 1: recognized extensions (order is irrelevant
// here since keys are unique, but kept as a single table for readability).
var extensionRules = map[string]Kind{
	".lsx":  Textual,
	".lsj":  JSON,
	".lsf":  Binary,
	".lsfx": Binary,
	".lsbs": Binary,
	".lsbc": Binary,
	".loca": Localization,
	".dds":  Texture,
	".gr2":  Model,
	".bshd": Shader,
	".shd":  Shader,
	".pak":  Package,
	".xml":  Textual,
	".json": JSON,
	".txt":  PlainText,
}

// magicSignature is rule 2: a fixed-offset byte pattern checked against the
// start of the content sample.
type magicSignature struct {
	kind   Kind
	offset int
	magic  []byte
}

var magicSignatures = []magicSignature{
	{kind: Binary, offset: 0, magic: []byte("LSOF")},
	{kind: Binary, offset: 0, magic: []byte("LSFW")},
	{kind: Binary, offset: 0, magic: []byte("LSFM")},
	{kind: Texture, offset: 0, magic: []byte("DDS ")},
	{kind: Localization, offset: 0, magic: []byte("LOCA")},
}

// sampleSize is the leading-byte window rule 2's magic signatures fall
// within. Rule 3 uses jsonXMLProbeSize instead.
const sampleSize = 16

// jsonXMLProbeSize bounds how much content rule 3 will try to parse.
const jsonXMLProbeSize = 4096

// Detect classifies path using its content when available. content may be
// nil or shorter than needed; all rules degrade gracefully on short input.
func Detect(path string, content []byte) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := extensionRules[ext]; ok {
		return kind
	}

	if kind := detectMagic(content); kind != Unknown {
		return kind
	}

	if kind := detectBySample(content); kind != Unknown {
		return kind
	}

	return Unknown
}

func detectMagic(content []byte) Kind {
	for _, sig := range magicSignatures {
		end := sig.offset + len(sig.magic)
		if len(content) >= end && bytes.Equal(content[sig.offset:end], sig.magic) {
			return sig.kind
		}
	}
	return Unknown
}

// detectBySample implements rule 3: try JSON then XML on a bounded sample.
func detectBySample(content []byte) Kind {
	if len(content) == 0 {
		return Unknown
	}
	sample := content
	if len(sample) > jsonXMLProbeSize {
		sample = sample[:jsonXMLProbeSize]
	}

	jsonDec := json.NewDecoder(bytes.NewReader(sample))
	if _, err := jsonDec.Token(); err == nil {
		return JSON
	}

	// Bare character data ahead of any element or declaration is not XML.
	xmlDec := xml.NewDecoder(bytes.NewReader(sample))
	for {
		tok, err := xmlDec.Token()
		if err != nil {
			return Unknown
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.ProcInst:
			return Textual
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return Unknown
			}
		}
	}
}
