// Package imaging turns encoded raster images into [model.Image] values that
// the document package can embed.
//
// RTF pictures can hold JPEG and PNG data directly. Those are passed
// through unchanged after their header has been read for the pixel size and
// resolution. GIF, BMP, TIFF and WebP images are decoded and re-encoded as
// PNG.
//
//	img, err := imaging.DecodeFile("photo.jpg")
//	if err != nil {
//		return err
//	}
//	pic, err := doc.AddImage(img)
package imaging
