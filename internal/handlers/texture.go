package handlers

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
)

var textureExtensions = []string{".dds"}

// ddsHeaderFourCCOffset is the offset of the 4-byte pixel-format fourCC
// within a DDS header (spec §4.7: "offset 84").
const (
	ddsHeaderMinSize     = 128
	ddsWidthOffset       = 12
	ddsHeightOffset      = 16
	ddsMipMapCountOffset = 28
	ddsFourCCOffset      = 84
)

// TextureHandler previews the game's DDS-based texture container.
type TextureHandler struct {
	decodeThumbnail ThumbnailDecoder
}

// NewTextureHandler builds a TextureHandler. decoder may be nil; no
// implementation ships in this module (image decoding is out of scope),
// so thumbnails are unavailable unless a caller injects one.
func NewTextureHandler(decoder ThumbnailDecoder) *TextureHandler {
	return &TextureHandler{decodeThumbnail: decoder}
}

func (h *TextureHandler) Name() string { return "texture" }

func (h *TextureHandler) Extensions() []string { return textureExtensions }

func (h *TextureHandler) CanHandle(path string) bool {
	return extOf(path) == ".dds"
}

type textureHeader struct {
	width, height, mipMapCount uint32
	fourCC                     string
}

func parseTextureHeader(content []byte) (textureHeader, bool) {
	if len(content) < ddsHeaderMinSize {
		return textureHeader{}, false
	}
	return textureHeader{
		width:       binary.LittleEndian.Uint32(content[ddsWidthOffset:]),
		height:      binary.LittleEndian.Uint32(content[ddsHeightOffset:]),
		mipMapCount: binary.LittleEndian.Uint32(content[ddsMipMapCountOffset:]),
		fourCC:      string(content[ddsFourCCOffset : ddsFourCCOffset+4]),
	}, true
}

func (h *TextureHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		rec.Err = err.Error()
		return rec, nil
	}

	header, ok := parseTextureHeader(content)
	if !ok {
		rec.Content = placeholderTexture(rec.Filename, rec.Size, "header too short to parse")
		return rec, nil
	}

	rec.Metadata["width"] = fmt.Sprintf("%d", header.width)
	rec.Metadata["height"] = fmt.Sprintf("%d", header.height)
	rec.Metadata["mipmap_count"] = fmt.Sprintf("%d", header.mipMapCount)
	rec.Metadata["pixel_format"] = header.fourCC

	if h.decodeThumbnail != nil {
		thumb, err := h.decodeThumbnail(content)
		if err == nil {
			rec.Thumbnail = thumb
		}
	}

	if rec.Thumbnail == nil {
		rec.Content = placeholderTexture(rec.Filename, rec.Size, "no thumbnail decoder configured")
	} else {
		rec.Content = fmt.Sprintf("Texture %s: %dx%d, %d mip level(s), format %s\n",
			rec.Filename, header.width, header.height, header.mipMapCount, header.fourCC)
	}
	return rec, nil
}

func placeholderTexture(filename string, size int64, reason string) string {
	return fmt.Sprintf("[texture placeholder] %s (%d bytes) -- %s\n", filename, size, reason)
}
