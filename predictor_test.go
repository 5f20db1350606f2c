package tiffraster

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestReversePredictor(t *testing.T) {
	c := qt.New(t)

	c.Run("worked example", func(c *qt.C) {
		// Two RGB pixels per row, 8 bit.
		buf := []byte{10, 20, 30, 1, 2, 3, 5, 5, 5, 255, 1, 0}
		c.Assert(reversePredictor(buf, 2, 3, 2, 2, 8, false, binary.BigEndian), qt.IsNil)
		c.Assert(buf, qt.DeepEquals, []byte{10, 20, 30, 11, 22, 33, 5, 5, 5, 4, 6, 5})
	})

	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		for _, bits := range []int{8, 16, 32, 64} {
			for _, samples := range []int{1, 2, 3, 4} {
				// Widths that are and are not multiples of the sample count.
				for _, width := range []int{1, 3, 4, 7} {
					for _, planar := range []bool{false, true} {
						name := fmt.Sprintf("%s/%d bits/%d samples/width %d/planar %t", order, bits, samples, width, planar)
						c.Run(name, func(c *qt.C) {
							const rows = 3
							bps := bits / 8
							rng := rand.New(rand.NewSource(int64(bits*samples*width + rows)))
							want := make([]byte, width*rows*samples*bps)
							rng.Read(want)

							got := append([]byte(nil), want...)
							if planar {
								size := width * rows * bps
								for s := range samples {
									applyPredictor(got[s*size:(s+1)*size], 1, width, bps, order)
								}
							} else {
								applyPredictor(got, samples, width, bps, order)
							}
							if width > 1 {
								c.Assert(got, qt.Not(qt.DeepEquals), want)
							}

							c.Assert(reversePredictor(got, predictorHorizontal, samples, width, rows, bits, planar, order), qt.IsNil)
							c.Assert(cmp.Diff(want, got), qt.Equals, "")
						})
					}
				}
			}
		}
	}

	c.Run("none", func(c *qt.C) {
		buf := []byte{1, 2, 3}
		c.Assert(reversePredictor(buf, predictorNone, 1, 3, 1, 8, false, binary.BigEndian), qt.IsNil)
		c.Assert(buf, qt.DeepEquals, []byte{1, 2, 3})
	})

	c.Run("unsupported", func(c *qt.C) {
		buf := make([]byte, 16)
		err := reversePredictor(buf, predictorFloatingPt, 1, 4, 1, 32, false, binary.BigEndian)
		c.Assert(IsUnsupported(err), qt.IsTrue)
		err = reversePredictor(buf, 7, 1, 4, 1, 32, false, binary.BigEndian)
		c.Assert(IsUnsupported(err), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, ".*predictor 7")
		err = reversePredictor(buf, predictorHorizontal, 1, 16, 1, 4, false, binary.BigEndian)
		c.Assert(IsUnsupported(err), qt.IsTrue)
		err = reversePredictor(buf, predictorHorizontal, 1, 4, 1, 24, false, binary.BigEndian)
		c.Assert(IsUnsupported(err), qt.IsTrue)
	})

	c.Run("short buffer", func(c *qt.C) {
		err := reversePredictor(make([]byte, 5), predictorHorizontal, 3, 2, 1, 8, false, binary.BigEndian)
		c.Assert(IsTruncated(err), qt.IsTrue)
	})
}
