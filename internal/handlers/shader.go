package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var shaderExtensions = []string{".bshd", ".shd"}

const shaderMagicSize = 4

// shaderStageTokens maps a filename token to a human-readable shader stage.
var shaderStageTokens = map[string]string{
	"vs": "vertex",
	"ps": "pixel",
	"cs": "compute",
	"gs": "geometry",
	"hs": "hull",
	"ds": "domain",
}

// shaderAPITokens maps a filename token to a graphics API.
var shaderAPITokens = map[string]string{
	"dx11":   "DirectX 11",
	"dx12":   "DirectX 12",
	"vulkan": "Vulkan",
	"vk":     "Vulkan",
	"gl":     "OpenGL",
}

// ShaderHandler previews a compiled shader variant.
type ShaderHandler struct{}

// NewShaderHandler builds a ShaderHandler.
func NewShaderHandler() *ShaderHandler { return &ShaderHandler{} }

func (h *ShaderHandler) Name() string { return "shader" }

func (h *ShaderHandler) Extensions() []string { return shaderExtensions }

func (h *ShaderHandler) CanHandle(path string) bool {
	ext := extOf(path)
	return ext == ".bshd" || ext == ".shd"
}

func (h *ShaderHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		rec.Err = err.Error()
		return rec, nil
	}

	magic := ""
	if len(content) >= shaderMagicSize {
		magic = fmt.Sprintf("%x", content[:shaderMagicSize])
	}

	stage, api, features := inferShaderFromFilename(filepath.Base(path))

	rec.Metadata["magic"] = magic
	rec.Metadata["stage"] = stage
	rec.Metadata["api"] = api
	if len(features) > 0 {
		rec.Metadata["features"] = strings.Join(features, ",")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shader file: %s (%d bytes)\n", rec.Filename, rec.Size)
	fmt.Fprintf(&b, "Magic: %s\n", valueOrUnknown(magic))
	fmt.Fprintf(&b, "Stage: %s\n", valueOrUnknown(stage))
	fmt.Fprintf(&b, "API: %s\n", valueOrUnknown(api))
	if len(features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(features, ", "))
	}
	rec.Content = b.String()
	return rec, nil
}

// inferShaderFromFilename splits the filename on '_', '-', and '.' and
// classifies each token as a pipeline stage, graphics API, or leftover
// "feature" token (spec §4.7: "infer stage/API/features from filename
// tokens").
func inferShaderFromFilename(filename string) (stage, api string, features []string) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	tokens := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if s, ok := shaderStageTokens[lower]; ok && stage == "" {
			stage = s
			continue
		}
		if a, ok := shaderAPITokens[lower]; ok && api == "" {
			api = a
			continue
		}
		features = append(features, lower)
	}
	return stage, api, features
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
