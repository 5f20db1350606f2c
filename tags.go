package tiffraster

import "fmt"

// UnknownPrefix is used as prefix for unknown tag names.
const UnknownPrefix = "UnknownTag_"

// Namespace is the tag namespace a directory belongs to.
// The same numeric tag ID means different things in different namespaces.
type Namespace uint8

const (
	// NamespaceImage is the namespace of the main image IFDs and their SubIFDs.
	NamespaceImage Namespace = iota
	// NamespaceEXIF is the namespace of the EXIF private IFD.
	NamespaceEXIF
	// NamespaceGPS is the namespace of the GPS private IFD.
	NamespaceGPS
	// NamespaceInterop is the namespace of the EXIF interoperability IFD.
	NamespaceInterop
)

func (n Namespace) String() string {
	switch n {
	case NamespaceImage:
		return "Image"
	case NamespaceEXIF:
		return "EXIF"
	case NamespaceGPS:
		return "GPS"
	case NamespaceInterop:
		return "Interop"
	default:
		return fmt.Sprintf("Namespace(%d)", uint8(n))
	}
}

// Tag identifies a directory entry.
type Tag struct {
	ID        uint16
	Namespace Namespace
}

// Name returns the human readable name of the tag,
// or UnknownPrefix followed by the hex ID.
func (t Tag) Name() string {
	if s, ok := tagNames[t.Namespace][t.ID]; ok {
		return s
	}
	return fmt.Sprintf("%s0x%x", UnknownPrefix, t.ID)
}

func (t Tag) String() string {
	return t.Name()
}

// ImageTag returns the tag with the given ID in the image namespace.
func ImageTag(id uint16) Tag {
	return Tag{ID: id}
}

// Image namespace tags used by the decoder.
var (
	TagNewSubfileType            = ImageTag(0x00fe)
	TagImageWidth                = ImageTag(0x0100)
	TagImageLength               = ImageTag(0x0101)
	TagBitsPerSample             = ImageTag(0x0102)
	TagCompression               = ImageTag(0x0103)
	TagPhotometricInterpretation = ImageTag(0x0106)
	TagFillOrder                 = ImageTag(0x010a)
	TagImageDescription          = ImageTag(0x010e)
	TagStripOffsets              = ImageTag(0x0111)
	TagSamplesPerPixel           = ImageTag(0x0115)
	TagRowsPerStrip              = ImageTag(0x0116)
	TagStripByteCounts           = ImageTag(0x0117)
	TagXResolution               = ImageTag(0x011a)
	TagYResolution               = ImageTag(0x011b)
	TagPlanarConfiguration       = ImageTag(0x011c)
	TagSoftware                  = ImageTag(0x0131)
	TagPredictor                 = ImageTag(0x013d)
	TagColorMap                  = ImageTag(0x0140)
	TagTileWidth                 = ImageTag(0x0142)
	TagTileLength                = ImageTag(0x0143)
	TagTileOffsets               = ImageTag(0x0144)
	TagTileByteCounts            = ImageTag(0x0145)
	TagSubIFDs                   = ImageTag(0x014a)
	TagInkSet                    = ImageTag(0x014c)
	TagExtraSamples              = ImageTag(0x0152)
	TagSampleFormat              = ImageTag(0x0153)
	TagYCbCrCoefficients         = ImageTag(0x0211)
	TagYCbCrSubSampling          = ImageTag(0x0212)
	TagYCbCrPositioning          = ImageTag(0x0213)
	TagReferenceBlackWhite       = ImageTag(0x0214)
	TagExifIFDPointer            = ImageTag(0x8769)
	TagGPSIFDPointer             = ImageTag(0x8825)
	TagICCProfile                = ImageTag(0x8773)
)

// TagInteropIFDPointer lives in the EXIF namespace.
var TagInteropIFDPointer = Tag{ID: 0xa005, Namespace: NamespaceEXIF}

var (
	fieldsImage = map[uint16]string{0xfe: "NewSubfileType", 0xff: "SubfileType", 0x100: "ImageWidth", 0x101: "ImageLength", 0x102: "BitsPerSample", 0x103: "Compression", 0x106: "PhotometricInterpretation", 0x107: "Threshholding", 0x10a: "FillOrder", 0x10d: "DocumentName", 0x10e: "ImageDescription", 0x10f: "Make", 0x110: "Model", 0x111: "StripOffsets", 0x112: "Orientation", 0x115: "SamplesPerPixel", 0x116: "RowsPerStrip", 0x117: "StripByteCounts", 0x118: "MinSampleValue", 0x119: "MaxSampleValue", 0x11a: "XResolution", 0x11b: "YResolution", 0x11c: "PlanarConfiguration", 0x11d: "PageName", 0x128: "ResolutionUnit", 0x129: "PageNumber", 0x12d: "TransferFunction", 0x131: "Software", 0x132: "DateTime", 0x13b: "Artist", 0x13c: "HostComputer", 0x13d: "Predictor", 0x13e: "WhitePoint", 0x13f: "PrimaryChromaticities", 0x140: "ColorMap", 0x141: "HalftoneHints", 0x142: "TileWidth", 0x143: "TileLength", 0x144: "TileOffsets", 0x145: "TileByteCounts", 0x14a: "SubIFDs", 0x14c: "InkSet", 0x14d: "InkNames", 0x14e: "NumberOfInks", 0x150: "DotRange", 0x151: "TargetPrinter", 0x152: "ExtraSamples", 0x153: "SampleFormat", 0x154: "SMinSampleValue", 0x155: "SMaxSampleValue", 0x156: "TransferRange", 0x200: "JPEGProc", 0x201: "JPEGInterchangeFormat", 0x202: "JPEGInterchangeFormatLength", 0x211: "YCbCrCoefficients", 0x212: "YCbCrSubSampling", 0x213: "YCbCrPositioning", 0x214: "ReferenceBlackWhite", 0x2bc: "XMLPacket", 0x8298: "Copyright", 0x83bb: "IPTCNAA", 0x8649: "PhotoshopSettings", 0x8769: "ExifIFDPointer", 0x8773: "ICCProfile", 0x8825: "GPSInfoIFDPointer"}
	fieldsExif  = map[uint16]string{0x829a: "ExposureTime", 0x829d: "FNumber", 0x8822: "ExposureProgram", 0x8824: "SpectralSensitivity", 0x8827: "ISOSpeedRatings", 0x8828: "OECF", 0x9000: "ExifVersion", 0x9003: "DateTimeOriginal", 0x9004: "DateTimeDigitized", 0x9101: "ComponentsConfiguration", 0x9102: "CompressedBitsPerPixel", 0x9201: "ShutterSpeedValue", 0x9202: "ApertureValue", 0x9203: "BrightnessValue", 0x9204: "ExposureBiasValue", 0x9205: "MaxApertureValue", 0x9206: "SubjectDistance", 0x9207: "MeteringMode", 0x9208: "LightSource", 0x9209: "Flash", 0x920a: "FocalLength", 0x9214: "SubjectArea", 0x927c: "MakerNote", 0x9286: "UserComment", 0x9290: "SubSecTime", 0x9291: "SubSecTimeOriginal", 0x9292: "SubSecTimeDigitized", 0xa000: "FlashpixVersion", 0xa001: "ColorSpace", 0xa002: "PixelXDimension", 0xa003: "PixelYDimension", 0xa004: "RelatedSoundFile", 0xa005: "InteroperabilityIFDPointer", 0xa20b: "FlashEnergy", 0xa20c: "SpatialFrequencyResponse", 0xa20e: "FocalPlaneXResolution", 0xa20f: "FocalPlaneYResolution", 0xa210: "FocalPlaneResolutionUnit", 0xa214: "SubjectLocation", 0xa215: "ExposureIndex", 0xa217: "SensingMethod", 0xa300: "FileSource", 0xa301: "SceneType", 0xa302: "CFAPattern", 0xa401: "CustomRendered", 0xa402: "ExposureMode", 0xa403: "WhiteBalance", 0xa404: "DigitalZoomRatio", 0xa405: "FocalLengthIn35mmFilm", 0xa406: "SceneCaptureType", 0xa407: "GainControl", 0xa408: "Contrast", 0xa409: "Saturation", 0xa40a: "Sharpness", 0xa40b: "DeviceSettingDescription", 0xa40c: "SubjectDistanceRange", 0xa420: "ImageUniqueID", 0xa433: "LensMake", 0xa434: "LensModel"}
	fieldsGPS   = map[uint16]string{0x0: "GPSVersionID", 0x1: "GPSLatitudeRef", 0x2: "GPSLatitude", 0x3: "GPSLongitudeRef", 0x4: "GPSLongitude", 0x5: "GPSAltitudeRef", 0x6: "GPSAltitude", 0x7: "GPSTimeStamp", 0x8: "GPSSatellites", 0x9: "GPSStatus", 0xa: "GPSMeasureMode", 0xb: "GPSDOP", 0xc: "GPSSpeedRef", 0xd: "GPSSpeed", 0xe: "GPSTrackRef", 0xf: "GPSTrack", 0x10: "GPSImgDirectionRef", 0x11: "GPSImgDirection", 0x12: "GPSMapDatum", 0x13: "GPSDestLatitudeRef", 0x14: "GPSDestLatitude", 0x15: "GPSDestLongitudeRef", 0x16: "GPSDestLongitude", 0x17: "GPSDestBearingRef", 0x18: "GPSDestBearing", 0x19: "GPSDestDistanceRef", 0x1a: "GPSDestDistance", 0x1b: "GPSProcessingMethod", 0x1c: "GPSAreaInformation", 0x1d: "GPSDateStamp", 0x1e: "GPSDifferential"}

	fieldsInterop = map[uint16]string{0x1: "InteroperabilityIndex", 0x2: "InteroperabilityVersion"}

	tagNames = map[Namespace]map[uint16]string{
		NamespaceImage:   fieldsImage,
		NamespaceEXIF:    fieldsExif,
		NamespaceGPS:     fieldsGPS,
		NamespaceInterop: fieldsInterop,
	}
)

// childIFDPointers maps tags whose value is the offset of a child IFD
// to the namespace of that child.
var childIFDPointers = map[Tag]Namespace{
	TagSubIFDs:           NamespaceImage,
	TagExifIFDPointer:    NamespaceEXIF,
	TagGPSIFDPointer:     NamespaceGPS,
	TagInteropIFDPointer: NamespaceInterop,
}
