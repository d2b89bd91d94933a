package core

// DeviceType indicates the kind of Spotify Connect device.
type DeviceType string

const (
	DeviceTypeComputer   DeviceType = "computer"
	DeviceTypeSmartphone DeviceType = "smartphone"
	DeviceTypeSpeaker    DeviceType = "speaker"
	DeviceTypeTV         DeviceType = "tv"
	DeviceTypeCastAudio  DeviceType = "cast_audio"
	DeviceTypeUnknown    DeviceType = "unknown"
)

// Device represents a playback device.
type Device struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	IsActive     bool       `json:"is_active"`
	IsRestricted bool       `json:"is_restricted"`
	Volume       int        `json:"volume"`
}

// Icon returns a short glyph for the device type.
func (d Device) Icon() string {
	switch d.Type {
	case DeviceTypeComputer:
		return "💻"
	case DeviceTypeSmartphone:
		return "📱"
	case DeviceTypeSpeaker, DeviceTypeCastAudio:
		return "🔊"
	case DeviceTypeTV:
		return "📺"
	default:
		return "🎵"
	}
}

// PickDevice returns the active device, falling back to the first one.
// It returns nil when devices is empty.
func PickDevice(devices []Device) *Device {
	for i := range devices {
		if devices[i].IsActive {
			return &devices[i]
		}
	}
	if len(devices) > 0 {
		return &devices[0]
	}
	return nil
}
