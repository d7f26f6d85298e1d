package imaging

// Resample scales src to width x height using area averaging, writing into
// dst. If the requested size equals the source size, the source is copied
// verbatim (bit-identical).
func Resample(src *Plane, width, height int, dst *Plane) *Plane {
	if width == src.Width && height == src.Height {
		dst.Resize(width, height)
		copy(dst.Pix, src.Pix)
		return dst
	}

	dst.Resize(width, height)
	scaleX := float64(src.Width) / float64(width)
	scaleY := float64(src.Height) / float64(height)

	for dy := 0; dy < height; dy++ {
		sy0 := int(float64(dy) * scaleY)
		sy1 := int(float64(dy+1) * scaleY)
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		if sy1 > src.Height {
			sy1 = src.Height
		}
		for dx := 0; dx < width; dx++ {
			sx0 := int(float64(dx) * scaleX)
			sx1 := int(float64(dx+1) * scaleX)
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}
			if sx1 > src.Width {
				sx1 = src.Width
			}

			var sum int
			var count int
			for sy := sy0; sy < sy1; sy++ {
				base := sy * src.Width
				for sx := sx0; sx < sx1; sx++ {
					sum += int(src.Pix[base+sx])
					count++
				}
			}
			if count == 0 {
				dst.Pix[dy*width+dx] = src.At(sx0, sy0)
				continue
			}
			dst.Pix[dy*width+dx] = byte(sum / count)
		}
	}
	return dst
}

// PyramidDown produces a half-resolution plane from src by 2x2 averaging,
// used for the pattern trainer's preview image.
func PyramidDown(src *Plane, dst *Plane) *Plane {
	w := src.Width / 2
	h := src.Height / 2
	dst.Resize(w, h)
	for y := 0; y < h; y++ {
		sy := y * 2
		for x := 0; x < w; x++ {
			sx := x * 2
			sum := int(src.At(sx, sy)) + int(src.At(sx+1, sy)) + int(src.At(sx, sy+1)) + int(src.At(sx+1, sy+1))
			dst.Pix[y*w+x] = byte(sum / 4)
		}
	}
	return dst
}
