package pgs

import "image"

// Materialize decodes an object's RLE data and fits it into the object's
// declared bounds, mapping each palette index to its luma value. Rows beyond
// the declared height and pixels beyond the declared width are clipped;
// missing pixels stay zero. Slightly malformed RLE data is common in the
// wild and must not abort the pipeline.
//
// The result is a single-channel raster: OCR operates on luma only, so
// chroma and alpha are ignored. The luma table is rebuilt on every call
// because palettes change between display sets.
func Materialize(obj *ObjectSegment, pal *PaletteSegment) *image.Gray {
	var luma [256]uint8
	for i, e := range pal.Entries {
		luma[i] = e.Y
	}

	img := image.NewGray(image.Rect(0, 0, obj.Width, obj.Height))
	for y, row := range DecodeRLE(obj.Data) {
		if y >= obj.Height {
			break
		}
		for x, idx := range row {
			if x >= obj.Width {
				break
			}
			img.Pix[y*img.Stride+x] = luma[idx]
		}
	}
	return img
}
