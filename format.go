package sndfile

/*
#include <stdlib.h>
#include <sndfile.h>
*/
import "C"
import (
	"strings"
	"sync"
	"unsafe"
)

// MajorFormat is an audio container format.
type MajorFormat int

const (
	FormatWAV MajorFormat = iota + 1
	FormatAIFF
	FormatAU
	FormatRAW
	FormatPAF
	FormatSVX
	FormatNIST
	FormatVOC
	FormatIRCAM
	FormatW64
	FormatMAT4
	FormatMAT5
	FormatPVF
	FormatXI
	FormatHTK
	FormatSDS
	FormatAVR
	FormatWAVEX
	FormatSD2
	FormatFLAC
	FormatCAF
	FormatWVE
	FormatOGG
	FormatMPC2K
	FormatRF64
)

// SubtypeFormat is the sample encoding inside a container.
type SubtypeFormat int

const (
	SubtypePCMS8 SubtypeFormat = iota + 1
	SubtypePCM16
	SubtypePCM24
	SubtypePCM32
	SubtypePCMU8
	SubtypeFloat
	SubtypeDouble
	SubtypeULaw
	SubtypeALaw
	SubtypeIMAADPCM
	SubtypeMSADPCM
	SubtypeGSM610
	SubtypeVOXADPCM
	SubtypeG721_32
	SubtypeG723_24
	SubtypeG723_40
	SubtypeDWVW12
	SubtypeDWVW16
	SubtypeDWVW24
	SubtypeDWVWN
	SubtypeDPCM8
	SubtypeDPCM16
	SubtypeVorbis
	SubtypeALAC16
	SubtypeALAC20
	SubtypeALAC24
	SubtypeALAC32
)

// Endian is the byte order requested for or reported by a file.
type Endian int

const (
	// EndianFile uses the container's default byte order.
	EndianFile Endian = iota
	EndianLittle
	EndianBig
	EndianCPU
)

type formatEntry[T comparable] struct {
	value T
	flag  int
	name  string
}

var majorTable = []formatEntry[MajorFormat]{
	{FormatWAV, C.SF_FORMAT_WAV, "WAV"},
	{FormatAIFF, C.SF_FORMAT_AIFF, "AIFF"},
	{FormatAU, C.SF_FORMAT_AU, "AU"},
	{FormatRAW, C.SF_FORMAT_RAW, "RAW"},
	{FormatPAF, C.SF_FORMAT_PAF, "PAF"},
	{FormatSVX, C.SF_FORMAT_SVX, "SVX"},
	{FormatNIST, C.SF_FORMAT_NIST, "NIST"},
	{FormatVOC, C.SF_FORMAT_VOC, "VOC"},
	{FormatIRCAM, C.SF_FORMAT_IRCAM, "IRCAM"},
	{FormatW64, C.SF_FORMAT_W64, "W64"},
	{FormatMAT4, C.SF_FORMAT_MAT4, "MAT4"},
	{FormatMAT5, C.SF_FORMAT_MAT5, "MAT5"},
	{FormatPVF, C.SF_FORMAT_PVF, "PVF"},
	{FormatXI, C.SF_FORMAT_XI, "XI"},
	{FormatHTK, C.SF_FORMAT_HTK, "HTK"},
	{FormatSDS, C.SF_FORMAT_SDS, "SDS"},
	{FormatAVR, C.SF_FORMAT_AVR, "AVR"},
	{FormatWAVEX, C.SF_FORMAT_WAVEX, "WAVEX"},
	{FormatSD2, C.SF_FORMAT_SD2, "SD2"},
	{FormatFLAC, C.SF_FORMAT_FLAC, "FLAC"},
	{FormatCAF, C.SF_FORMAT_CAF, "CAF"},
	{FormatWVE, C.SF_FORMAT_WVE, "WVE"},
	{FormatOGG, C.SF_FORMAT_OGG, "OGG"},
	{FormatMPC2K, C.SF_FORMAT_MPC2K, "MPC2K"},
	{FormatRF64, C.SF_FORMAT_RF64, "RF64"},
}

var subtypeTable = []formatEntry[SubtypeFormat]{
	{SubtypePCMS8, C.SF_FORMAT_PCM_S8, "PCM_S8"},
	{SubtypePCM16, C.SF_FORMAT_PCM_16, "PCM_16"},
	{SubtypePCM24, C.SF_FORMAT_PCM_24, "PCM_24"},
	{SubtypePCM32, C.SF_FORMAT_PCM_32, "PCM_32"},
	{SubtypePCMU8, C.SF_FORMAT_PCM_U8, "PCM_U8"},
	{SubtypeFloat, C.SF_FORMAT_FLOAT, "FLOAT"},
	{SubtypeDouble, C.SF_FORMAT_DOUBLE, "DOUBLE"},
	{SubtypeULaw, C.SF_FORMAT_ULAW, "ULAW"},
	{SubtypeALaw, C.SF_FORMAT_ALAW, "ALAW"},
	{SubtypeIMAADPCM, C.SF_FORMAT_IMA_ADPCM, "IMA_ADPCM"},
	{SubtypeMSADPCM, C.SF_FORMAT_MS_ADPCM, "MS_ADPCM"},
	{SubtypeGSM610, C.SF_FORMAT_GSM610, "GSM610"},
	{SubtypeVOXADPCM, C.SF_FORMAT_VOX_ADPCM, "VOX_ADPCM"},
	{SubtypeG721_32, C.SF_FORMAT_G721_32, "G721_32"},
	{SubtypeG723_24, C.SF_FORMAT_G723_24, "G723_24"},
	{SubtypeG723_40, C.SF_FORMAT_G723_40, "G723_40"},
	{SubtypeDWVW12, C.SF_FORMAT_DWVW_12, "DWVW_12"},
	{SubtypeDWVW16, C.SF_FORMAT_DWVW_16, "DWVW_16"},
	{SubtypeDWVW24, C.SF_FORMAT_DWVW_24, "DWVW_24"},
	{SubtypeDWVWN, C.SF_FORMAT_DWVW_N, "DWVW_N"},
	{SubtypeDPCM8, C.SF_FORMAT_DPCM_8, "DPCM_8"},
	{SubtypeDPCM16, C.SF_FORMAT_DPCM_16, "DPCM_16"},
	{SubtypeVorbis, C.SF_FORMAT_VORBIS, "VORBIS"},
	{SubtypeALAC16, C.SF_FORMAT_ALAC_16, "ALAC_16"},
	{SubtypeALAC20, C.SF_FORMAT_ALAC_20, "ALAC_20"},
	{SubtypeALAC24, C.SF_FORMAT_ALAC_24, "ALAC_24"},
	{SubtypeALAC32, C.SF_FORMAT_ALAC_32, "ALAC_32"},
}

var endianTable = []formatEntry[Endian]{
	{EndianFile, C.SF_ENDIAN_FILE, "FILE"},
	{EndianLittle, C.SF_ENDIAN_LITTLE, "LITTLE"},
	{EndianBig, C.SF_ENDIAN_BIG, "BIG"},
	{EndianCPU, C.SF_ENDIAN_CPU, "CPU"},
}

func lookupValue[T comparable](table []formatEntry[T], v T) (formatEntry[T], bool) {
	for _, e := range table {
		if e.value == v {
			return e, true
		}
	}
	return formatEntry[T]{}, false
}

func lookupFlag[T comparable](table []formatEntry[T], flag int) (T, bool) {
	for _, e := range table {
		if e.flag == flag {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

func lookupName[T comparable](table []formatEntry[T], name string) (T, bool) {
	for _, e := range table {
		if strings.EqualFold(e.name, name) {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

func (m MajorFormat) String() string {
	if e, ok := lookupValue(majorTable, m); ok {
		return e.name
	}
	return "UNKNOWN"
}

func (s SubtypeFormat) String() string {
	if e, ok := lookupValue(subtypeTable, s); ok {
		return e.name
	}
	return "UNKNOWN"
}

func (e Endian) String() string {
	if en, ok := lookupValue(endianTable, e); ok {
		return en.name
	}
	return "UNKNOWN"
}

// Format is a fully resolved container, encoding and byte order.
type Format struct {
	Major   MajorFormat
	Subtype SubtypeFormat
	Endian  Endian
}

func (f Format) String() string {
	return f.Major.String() + "/" + f.Subtype.String() + "/" + f.Endian.String()
}

// Flags assembles the libsndfile format bit-flags for f.
// It returns false if any component is not a known value.
func (f Format) Flags() (int, bool) {
	major, ok1 := lookupValue(majorTable, f.Major)
	subtype, ok2 := lookupValue(subtypeTable, f.Subtype)
	endian, ok3 := lookupValue(endianTable, f.Endian)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return major.flag | subtype.flag | endian.flag, true
}

// FormatFromFlags decodes libsndfile format bit-flags.
// It returns false if any of the three fields is not recognised.
func FormatFromFlags(flags int) (Format, bool) {
	major, ok1 := lookupFlag(majorTable, flags&C.SF_FORMAT_TYPEMASK)
	subtype, ok2 := lookupFlag(subtypeTable, flags&C.SF_FORMAT_SUBMASK)
	endian, ok3 := lookupFlag(endianTable, flags&C.SF_FORMAT_ENDMASK)
	if !ok1 || !ok2 || !ok3 {
		return Format{}, false
	}
	return Format{Major: major, Subtype: subtype, Endian: endian}, true
}

// MajorInfo describes a container supported by the linked libsndfile.
type MajorInfo struct {
	Name      string
	Extension string
}

// SubtypeInfo describes an encoding supported by the linked libsndfile.
type SubtypeInfo struct {
	Name string
}

type formatInfo struct {
	flag      int
	name      string
	extension string
}

// queryFormats walks one of libsndfile's format catalogues.
func queryFormats(countCmd, itemCmd C.int) []formatInfo {
	var n C.int
	C.sf_command(nil, countCmd, unsafe.Pointer(&n), C.int(unsafe.Sizeof(n)))
	out := make([]formatInfo, 0, int(n))
	for i := C.int(0); i < n; i++ {
		info := C.SF_FORMAT_INFO{format: i}
		if C.sf_command(nil, itemCmd, unsafe.Pointer(&info), C.int(unsafe.Sizeof(info))) != 0 {
			continue
		}
		fi := formatInfo{flag: int(info.format)}
		if info.name != nil {
			fi.name = C.GoString(info.name)
		}
		if info.extension != nil {
			fi.extension = C.GoString(info.extension)
		}
		out = append(out, fi)
	}
	return out
}

var majorCatalog = sync.OnceValue(func() map[MajorFormat]MajorInfo {
	out := make(map[MajorFormat]MajorInfo)
	for _, fi := range queryFormats(C.SFC_GET_FORMAT_MAJOR_COUNT, C.SFC_GET_FORMAT_MAJOR) {
		if m, ok := lookupFlag(majorTable, fi.flag&C.SF_FORMAT_TYPEMASK); ok {
			out[m] = MajorInfo{Name: fi.name, Extension: fi.extension}
		}
	}
	return out
})

var subtypeCatalog = sync.OnceValue(func() map[SubtypeFormat]SubtypeInfo {
	out := make(map[SubtypeFormat]SubtypeInfo)
	for _, fi := range queryFormats(C.SFC_GET_FORMAT_SUBTYPE_COUNT, C.SFC_GET_FORMAT_SUBTYPE) {
		if s, ok := lookupFlag(subtypeTable, fi.flag&C.SF_FORMAT_SUBMASK); ok {
			out[s] = SubtypeInfo{Name: fi.name}
		}
	}
	return out
})

// MajorFormats returns every container the linked libsndfile supports.
// The catalogue is queried once; the returned map is a copy.
func MajorFormats() map[MajorFormat]MajorInfo {
	src := majorCatalog()
	out := make(map[MajorFormat]MajorInfo, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// SubtypeFormats returns every encoding the linked libsndfile supports.
// The catalogue is queried once; the returned map is a copy.
func SubtypeFormats() map[SubtypeFormat]SubtypeInfo {
	src := subtypeCatalog()
	out := make(map[SubtypeFormat]SubtypeInfo, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// MajorFormatFromExtension finds the container whose file extension is ext.
// A leading dot is ignored and the match is case insensitive. Extensions
// libsndfile does not report, such as "aif" or "oga", are not recognised.
func MajorFormatFromExtension(ext string) (MajorFormat, bool) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return 0, false
	}
	// Several containers share an extension (WAV and WAVEX both report "wav"),
	// so walk the fixed table to make the answer deterministic.
	catalog := majorCatalog()
	for _, e := range majorTable {
		if info, ok := catalog[e.value]; ok && strings.EqualFold(info.Extension, ext) {
			return e.value, true
		}
	}
	return 0, false
}

// ParseMajorFormat parses a container name such as "wav" or "FLAC".
func ParseMajorFormat(name string) (MajorFormat, bool) {
	return lookupName(majorTable, name)
}

// ParseSubtypeFormat parses an encoding name such as "PCM_24" or "vorbis".
func ParseSubtypeFormat(name string) (SubtypeFormat, bool) {
	return lookupName(subtypeTable, name)
}

// ParseEndian parses a byte order name such as "file" or "little".
func ParseEndian(name string) (Endian, bool) {
	return lookupName(endianTable, name)
}

var defaultSubtypes = map[MajorFormat]SubtypeFormat{
	FormatWAV:   SubtypePCM16,
	FormatAIFF:  SubtypePCM16,
	FormatAU:    SubtypePCM16,
	FormatPAF:   SubtypePCM16,
	FormatSVX:   SubtypePCM16,
	FormatNIST:  SubtypePCM16,
	FormatVOC:   SubtypePCM16,
	FormatIRCAM: SubtypePCM16,
	FormatW64:   SubtypePCM16,
	FormatMAT4:  SubtypeDouble,
	FormatMAT5:  SubtypeDouble,
	FormatPVF:   SubtypePCM16,
	FormatXI:    SubtypeDPCM16,
	FormatHTK:   SubtypePCM16,
	FormatSDS:   SubtypePCM16,
	FormatAVR:   SubtypePCM16,
	FormatWAVEX: SubtypePCM16,
	FormatSD2:   SubtypePCM16,
	FormatFLAC:  SubtypePCM16,
	FormatCAF:   SubtypePCM16,
	FormatWVE:   SubtypeALaw,
	FormatOGG:   SubtypeVorbis,
	FormatMPC2K: SubtypePCM16,
	FormatRF64:  SubtypePCM16,
}

// DefaultSubtype returns the customary encoding for a container.
// RAW has no default.
func DefaultSubtype(m MajorFormat) (SubtypeFormat, bool) {
	s, ok := defaultSubtypes[m]
	return s, ok
}

// CheckFormat reports whether libsndfile accepts the given parameters for writing.
func CheckFormat(channels, samplerate int, f Format) bool {
	flags, ok := f.Flags()
	if !ok || channels <= 0 || samplerate <= 0 {
		return false
	}
	info := C.SF_INFO{
		samplerate: C.int(samplerate),
		channels:   C.int(channels),
		format:     C.int(flags),
	}
	return C.sf_format_check(&info) == C.SF_TRUE
}
