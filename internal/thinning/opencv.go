//go:build gocv

package thinning

import (
	"image"

	"github.com/banshee-data/mlography/internal/imageio"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// OpenCVThinner is the name the OpenCV-backed thinner is registered under.
const OpenCVThinner = "opencv"

func init() {
	thinners[OpenCVThinner] = func() Thinner { return OpenCV{Type: contrib.ThinningGuoHall} }
}

// OpenCV thins with the ximgproc contrib module. It is only available in
// binaries built with the gocv tag.
type OpenCV struct {
	Type contrib.ThinningTypes
}

// Thin implements Thinner. If the conversion to or from a Mat fails it falls
// back to GuoHall.
func (o OpenCV) Thin(src *image.Gray) *image.Gray {
	mat, err := gocv.ImageGrayToMatGray(Binarize(src, 0))
	if err != nil {
		logf("opencv: %v, using guohall", err)
		return GuoHall{}.Thin(src)
	}
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	contrib.Thinning(mat, &dst, o.Type)

	img, err := dst.ToImage()
	if err != nil {
		logf("opencv: %v, using guohall", err)
		return GuoHall{}.Thin(src)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return Binarize(imageio.ToGray(img), 0)
	}
	return gray
}
