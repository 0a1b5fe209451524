// Package segment turns BGR frames into hue masks and mask histories into contours.
//
// Per frame:
//
//	frame (BGR) -> ToHSV -> Masker.Mask(band) -> mask
//
// Per full temporal window:
//
//	masks -> Denoiser.Denoise -> Otsu -> FindContours -> ContourSet
//
// All destination Mats are owned by the caller.
package segment

import (
	"github.com/nowakf/colour-to-shape/internal/hue"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ToHSV converts a BGR frame to full-range HSV, where hue spans 0-255.
func ToHSV(frame gocv.Mat, dst *gocv.Mat) error {
	if frame.Empty() {
		return errors.New("to hsv: empty frame")
	}
	gocv.CvtColor(frame, dst, gocv.ColorBGRToHSVFull)
	if dst.Empty() {
		return errors.New("to hsv: conversion produced no output")
	}
	return nil
}

// Masker produces binary masks of the pixels inside a hue band.
type Masker struct{}

// Mask writes a CV_8U mask into dst: 255 where every channel of hsv lies
// within the band (inclusive), 0 elsewhere. Wrapped bands are the union of
// [Lower, 255] and [0, Upper] on the hue channel.
func (Masker) Mask(hsv gocv.Mat, band hue.Band, dst *gocv.Mat) error {
	if hsv.Empty() {
		return errors.New("mask: empty input")
	}

	if !band.Wrapped {
		return inRange(hsv, band.Lower, band.Upper, dst)
	}

	hi := gocv.NewMat()
	defer hi.Close()
	lo := gocv.NewMat()
	defer lo.Close()

	upperSeam := band.Upper
	upperSeam[0] = 255
	if err := inRange(hsv, band.Lower, upperSeam, &hi); err != nil {
		return err
	}

	lowerSeam := band.Lower
	lowerSeam[0] = 0
	if err := inRange(hsv, lowerSeam, band.Upper, &lo); err != nil {
		return err
	}

	gocv.BitwiseOr(hi, lo, dst)
	if dst.Empty() {
		return errors.New("mask: combine wrapped band produced no output")
	}
	return nil
}

func inRange(src gocv.Mat, lower, upper [3]uint8, dst *gocv.Mat) error {
	lb := gocv.NewScalar(float64(lower[0]), float64(lower[1]), float64(lower[2]), 0)
	ub := gocv.NewScalar(float64(upper[0]), float64(upper[1]), float64(upper[2]), 0)
	gocv.InRangeWithScalar(src, lb, ub, dst)
	if dst.Empty() {
		return errors.New("mask: in range produced no output")
	}
	return nil
}
