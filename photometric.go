package tiffraster

import "fmt"

// Photometric is the value of the PhotometricInterpretation tag.
type Photometric uint16

const (
	PhotometricWhiteIsZero      Photometric = 0
	PhotometricBlackIsZero      Photometric = 1
	PhotometricRGB              Photometric = 2
	PhotometricPalette          Photometric = 3
	PhotometricTransparencyMask Photometric = 4
	PhotometricSeparated        Photometric = 5
	PhotometricYCbCr            Photometric = 6
	PhotometricCIELab           Photometric = 8
	PhotometricICCLab           Photometric = 9
	PhotometricITULab           Photometric = 10
	PhotometricCFA              Photometric = 32803
	PhotometricLogL             Photometric = 32844
	PhotometricLogLuv           Photometric = 32845
	PhotometricLinearRaw        Photometric = 34892

	// PhotometricUnknown is returned when the tag is missing.
	PhotometricUnknown Photometric = 0xffff
)

func (p Photometric) String() string {
	switch p {
	case PhotometricWhiteIsZero:
		return "WhiteIsZero"
	case PhotometricBlackIsZero:
		return "BlackIsZero"
	case PhotometricRGB:
		return "RGB"
	case PhotometricPalette:
		return "Palette"
	case PhotometricTransparencyMask:
		return "TransparencyMask"
	case PhotometricSeparated:
		return "Separated"
	case PhotometricYCbCr:
		return "YCbCr"
	case PhotometricCIELab:
		return "CIELab"
	case PhotometricICCLab:
		return "ICCLab"
	case PhotometricITULab:
		return "ITULab"
	case PhotometricCFA:
		return "CFA"
	case PhotometricLogL:
		return "LogL"
	case PhotometricLogLuv:
		return "LogLuv"
	case PhotometricLinearRaw:
		return "LinearRaw"
	case PhotometricUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Photometric(%d)", uint16(p))
	}
}

// colorBands returns the number of color samples per pixel the
// interpretation requires, 0 for interpretations that are not decoded.
func (p Photometric) colorBands() int {
	switch p {
	case PhotometricWhiteIsZero, PhotometricBlackIsZero, PhotometricPalette:
		return 1
	case PhotometricRGB, PhotometricYCbCr:
		return 3
	case PhotometricSeparated:
		return 4
	}
	return 0
}

// SampleFormat is the value of the SampleFormat tag.
type SampleFormat uint16

const (
	SampleFormatUint         SampleFormat = 1
	SampleFormatInt          SampleFormat = 2
	SampleFormatFloat        SampleFormat = 3
	SampleFormatUndefined    SampleFormat = 4
	SampleFormatComplexInt   SampleFormat = 5
	SampleFormatComplexFloat SampleFormat = 6
)

func (s SampleFormat) String() string {
	switch s {
	case SampleFormatUint:
		return "Uint"
	case SampleFormatInt:
		return "Int"
	case SampleFormatFloat:
		return "Float"
	case SampleFormatUndefined:
		return "Undefined"
	case SampleFormatComplexInt:
		return "ComplexInt"
	case SampleFormatComplexFloat:
		return "ComplexFloat"
	default:
		return fmt.Sprintf("SampleFormat(%d)", uint16(s))
	}
}

// AlphaMode describes how an extra sample is to be interpreted.
type AlphaMode int

const (
	// AlphaNone means the pixel has no alpha channel.
	AlphaNone AlphaMode = iota
	// AlphaAssociated is premultiplied alpha (ExtraSamples 1).
	AlphaAssociated
	// AlphaUnassociated is straight alpha (ExtraSamples 2).
	AlphaUnassociated
)

func (a AlphaMode) String() string {
	switch a {
	case AlphaNone:
		return "None"
	case AlphaAssociated:
		return "Associated"
	case AlphaUnassociated:
		return "Unassociated"
	default:
		return fmt.Sprintf("AlphaMode(%d)", int(a))
	}
}
