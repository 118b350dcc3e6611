package tables

// ObjectType is an MPEG-4 audio object type.
// Values above 31 come from the escape coding of AudioSpecificConfig
// (31 followed by a 6-bit extension, giving 32 + extension).
//
// Source: ISO/IEC 14496-3 Table 1.17
type ObjectType uint8

// Audio object types referenced by the LATM front-end.
const (
	ObjectTypeNull        ObjectType = 0
	ObjectTypeMain        ObjectType = 1
	ObjectTypeLC          ObjectType = 2  // Most common - Low Complexity
	ObjectTypeSSR         ObjectType = 3  // Scalable Sample Rate
	ObjectTypeLTP         ObjectType = 4  // Long Term Prediction
	ObjectTypeSBR         ObjectType = 5  // Spectral Band Replication (explicit signalling)
	ObjectTypeScalable    ObjectType = 6  // AAC Scalable
	ObjectTypeTwinVQ      ObjectType = 7  // TwinVQ
	ObjectTypeCELP        ObjectType = 8  // CELP
	ObjectTypeHVXC        ObjectType = 9  // HVXC
	ObjectTypeERLC        ObjectType = 17 // Error Resilient LC
	ObjectTypeERLTP       ObjectType = 19 // Error Resilient LTP
	ObjectTypeERScalable  ObjectType = 20 // Error Resilient Scalable
	ObjectTypeERTwinVQ    ObjectType = 21 // Error Resilient TwinVQ
	ObjectTypeERBSAC      ObjectType = 22 // Error Resilient BSAC
	ObjectTypeERLD        ObjectType = 23 // Error Resilient Low Delay
	ObjectTypePS          ObjectType = 29 // Parametric Stereo
	ObjectTypeEscape      ObjectType = 31 // Escape value, extension follows
	ObjectTypeEscapeFirst ObjectType = 32 // First object type reachable through the escape
)

// IsGeneralAudio reports whether the object type carries a GASpecificConfig.
//
// Source: ISO/IEC 14496-3 Table 1.15 (AudioSpecificConfig syntax)
func (t ObjectType) IsGeneralAudio() bool {
	switch t {
	case ObjectTypeMain, ObjectTypeLC, ObjectTypeSSR, ObjectTypeLTP,
		ObjectTypeScalable, ObjectTypeTwinVQ,
		ObjectTypeERLC, ObjectTypeERLTP, ObjectTypeERScalable,
		ObjectTypeERTwinVQ, ObjectTypeERBSAC, ObjectTypeERLD:
		return true
	default:
		return false
	}
}

// HasLayerNr reports whether GASpecificConfig carries a 3-bit layer number.
func (t ObjectType) HasLayerNr() bool {
	return t == ObjectTypeScalable || t == ObjectTypeERScalable
}
