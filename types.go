package rsc

import (
	"path/filepath"
	"strings"

	"github.com/meigma/rsc/internal/wire"
)

// ResourceType identifies the kind of asset stored in a resource entry.
//
// On disk the type shares a byte with the encrypted flag: bits 0-6 hold the
// type code and bit 7 is the flag.
type ResourceType uint8

// Assigned resource type codes. 0x4, 0x7, 0x8 and values from 0xF upward are
// not assigned.
const (
	TypeUnknown            ResourceType = 0x0
	TypeSequencer          ResourceType = 0x1 // .mid, .midi, .mod, .s3m, .xm, .it, .oxm
	TypeAudio              ResourceType = 0x2 // .wav, .ogg, .raw, .wma, .aiff
	TypeSpriteSheet        ResourceType = 0x3 // .dmi
	TypeBitmap             ResourceType = 0x5 // .bmp
	TypeLosslessImage      ResourceType = 0x6 // .png
	TypeArchive            ResourceType = 0x9 // .zip
	TypeResource           ResourceType = 0xA // .rsc
	TypeLossyImage         ResourceType = 0xB // .jpg, .jpeg
	TypeDynamicSpriteSheet ResourceType = 0xC // .ddmi
	TypeAnimatedImage      ResourceType = 0xD // .gif
	TypeFont               ResourceType = 0xE // .ttf
)

const (
	typeMask      = 0x7f
	encryptedFlag = 0x80
)

var typeNames = map[ResourceType]string{
	TypeUnknown:            "unknown",
	TypeSequencer:          "sequencer",
	TypeAudio:              "audio",
	TypeSpriteSheet:        "sprite-sheet",
	TypeBitmap:             "bitmap",
	TypeLosslessImage:      "lossless-image",
	TypeArchive:            "archive",
	TypeResource:           "resource",
	TypeLossyImage:         "lossy-image",
	TypeDynamicSpriteSheet: "dynamic-sprite-sheet",
	TypeAnimatedImage:      "animated-image",
	TypeFont:               "font",
}

// Valid reports whether t is an assigned type code.
func (t ResourceType) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// String returns the human-readable name of the type.
func (t ResourceType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unassigned"
}

// ParseResourceType validates a type code. The encrypted flag bit must
// already be masked off.
//
// In strict mode an unassigned code fails with ErrInvalidType. Otherwise it
// maps to TypeUnknown.
func ParseResourceType(code byte, strict bool) (ResourceType, error) {
	return wire.ParseEnum(code, ResourceType.Valid, TypeUnknown, strict)
}

var typesByExt = map[string]ResourceType{
	".mid":  TypeSequencer,
	".midi": TypeSequencer,
	".mod":  TypeSequencer,
	".s3m":  TypeSequencer,
	".xm":   TypeSequencer,
	".it":   TypeSequencer,
	".oxm":  TypeSequencer,
	".wav":  TypeAudio,
	".ogg":  TypeAudio,
	".raw":  TypeAudio,
	".wma":  TypeAudio,
	".aiff": TypeAudio,
	".dmi":  TypeSpriteSheet,
	".bmp":  TypeBitmap,
	".png":  TypeLosslessImage,
	".zip":  TypeArchive,
	".rsc":  TypeResource,
	".jpg":  TypeLossyImage,
	".jpeg": TypeLossyImage,
	".ddmi": TypeDynamicSpriteSheet,
	".gif":  TypeAnimatedImage,
	".ttf":  TypeFont,
}

// TypeForPath infers the resource type from the extension of path.
// Unrecognized extensions yield TypeUnknown.
func TypeForPath(path string) ResourceType {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := typesByExt[ext]; ok {
		return t
	}
	return TypeUnknown
}
