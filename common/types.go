// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// CubeFace indexes the six faces of a cube texture in +X, -X, +Y, -Y, +Z, -Z order.
type CubeFace int

const (
	CubeFacePositiveX CubeFace = iota
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
	CubeFaceCount
)

// CubeTextureStagingData holds the six decoded faces of a cube texture. Every face must share the same square size.
type CubeTextureStagingData struct {
	Faces [CubeFaceCount]*TextureStagingData
}

// Size returns the edge length shared by all faces.
//
// Returns:
//   - uint32: the face width in pixels
//   - error: error if a face is missing or the faces disagree in size
func (c *CubeTextureStagingData) Size() (uint32, error) {
	var size uint32
	for i, face := range c.Faces {
		if face == nil {
			return 0, fmt.Errorf("cube face %d is missing", i)
		}
		if face.Width != face.Height {
			return 0, fmt.Errorf("cube face %d is not square: %dx%d", i, face.Width, face.Height)
		}
		if i == 0 {
			size = face.Width
		} else if face.Width != size {
			return 0, fmt.Errorf("cube face %d is %dpx, expected %dpx", i, face.Width, size)
		}
	}
	return size, nil
}

// FrameSource produces the newest RGBA frame of an embedded media surface.
type FrameSource interface {
	// Frame returns the most recently decoded frame.
	//
	// Returns:
	//   - *image.RGBA: the frame, or nil if nothing has been decoded yet
	Frame() *image.RGBA
}

// DecodeImage decodes a PNG or JPEG stream into tightly packed RGBA pixels.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (*TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageToStaging(img), nil
}

// DecodeImageFile opens and decodes an image file from disk.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (*TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ImageToStaging converts any image into RGBA staging data with a zero origin and a tight stride.
func ImageToStaging(img image.Image) *TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
