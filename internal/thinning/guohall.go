package thinning

import "image"

// GuoHall is the two-subiteration parallel thinning of Guo and Hall (1989).
// The one-pixel image border is never modified.
type GuoHall struct{}

// Thin implements Thinner.
func (GuoHall) Thin(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	img := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				img[y*w+x] = 1
			}
		}
	}

	marker := make([]uint8, w*h)
	for {
		changed := guoHallIteration(img, marker, w, h, 0)
		changed = guoHallIteration(img, marker, w, h, 1) || changed
		if !changed {
			break
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range img {
		dst.Pix[i] = v * 255
	}
	return dst
}

// guoHallIteration marks deletable pixels against the current image, then
// removes them all at once. It reports whether anything was removed.
func guoHallIteration(img, marker []uint8, w, h, iter int) bool {
	clear(marker)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if img[y*w+x] == 0 {
				continue
			}
			p2 := img[(y-1)*w+x]
			p3 := img[(y-1)*w+x+1]
			p4 := img[y*w+x+1]
			p5 := img[(y+1)*w+x+1]
			p6 := img[(y+1)*w+x]
			p7 := img[(y+1)*w+x-1]
			p8 := img[y*w+x-1]
			p9 := img[(y-1)*w+x-1]

			c := (not(p2) & (p3 | p4)) + (not(p4) & (p5 | p6)) +
				(not(p6) & (p7 | p8)) + (not(p8) & (p9 | p2))
			n1 := (p9 | p2) + (p3 | p4) + (p5 | p6) + (p7 | p8)
			n2 := (p2 | p3) + (p4 | p5) + (p6 | p7) + (p8 | p9)
			n := min(n1, n2)

			var m uint8
			if iter == 0 {
				m = (p6 | p7 | not(p9)) & p8
			} else {
				m = (p2 | p3 | not(p5)) & p4
			}

			if c == 1 && n >= 2 && n <= 3 && m == 0 {
				marker[y*w+x] = 1
			}
		}
	}

	changed := false
	for i, m := range marker {
		if m != 0 {
			img[i] = 0
			changed = true
		}
	}
	return changed
}

func not(v uint8) uint8 { return v ^ 1 }
