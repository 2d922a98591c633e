package scsi

import "fmt"

type SenseKey byte

const (
	SenseKeyNoSense        SenseKey = 0x00
	SenseKeyRecoveredError SenseKey = 0x01
	SenseKeyNotReady       SenseKey = 0x02
	SenseKeyMediumError    SenseKey = 0x03
	SenseKeyHardwareError  SenseKey = 0x04
	SenseKeyIllegalRequest SenseKey = 0x05
	SenseKeyUnitAttention  SenseKey = 0x06
	SenseKeyDataProtect    SenseKey = 0x07
	SenseKeyBlankCheck     SenseKey = 0x08
	SenseKeyVendorSpecific SenseKey = 0x09
	SenseKeyCopyAborted    SenseKey = 0x0a
	SenseKeyAbortedCommand SenseKey = 0x0b
	SenseKeyVolumeOverflow SenseKey = 0x0d
	SenseKeyMiscompare     SenseKey = 0x0e
)

var senseKeyNames = map[SenseKey]string{
	SenseKeyNoSense:        "no sense",
	SenseKeyRecoveredError: "recovered error",
	SenseKeyNotReady:       "not ready",
	SenseKeyMediumError:    "medium error",
	SenseKeyHardwareError:  "hardware error",
	SenseKeyIllegalRequest: "illegal request",
	SenseKeyUnitAttention:  "unit attention",
	SenseKeyDataProtect:    "data protect",
	SenseKeyBlankCheck:     "blank check",
	SenseKeyVendorSpecific: "vendor specific",
	SenseKeyCopyAborted:    "copy aborted",
	SenseKeyAbortedCommand: "aborted command",
	SenseKeyVolumeOverflow: "volume overflow",
	SenseKeyMiscompare:     "miscompare",
}

func (k SenseKey) String() string {
	if name, ok := senseKeyNames[k]; ok {
		return name
	}

	return fmt.Sprintf("reserved (0x%02x)", byte(k))
}

// Sense is the decoded fixed-format sense data of a check condition.
type Sense struct {
	Key  SenseKey
	ASC  byte
	ASCQ byte

	Filemark bool
	EOM      bool
	// ILI together with SenseKeyNoSense signals a short final block and is
	// informational, never an error.
	ILI bool

	// Residue is the signed difference between the requested and the actual
	// transfer length, taken from the information field.
	Residue int32

	Raw []byte
}

// ParseSense decodes fixed-format sense data. Short or empty buffers decode
// to the zero Sense, which reads as "no sense".
func ParseSense(raw []byte) Sense {
	if len(raw) < 14 {
		return Sense{Raw: raw}
	}

	var residue int32
	for i := 3; i <= 6; i++ {
		residue <<= 8
		residue |= int32(raw[i])
	}

	return Sense{
		Key:  SenseKey(raw[2] & 0x0f),
		ASC:  raw[12],
		ASCQ: raw[13],

		Filemark: raw[2]&0x80 != 0,
		EOM:      raw[2]&0x40 != 0,
		ILI:      raw[2]&0x20 != 0,

		Residue: residue,

		Raw: raw,
	}
}

// Informational reports whether the condition is a control-flow signal
// rather than an actionable error.
func (s Sense) Informational() bool {
	return s.Key == SenseKeyNoSense || s.Key == SenseKeyRecoveredError
}

func (s Sense) String() string {
	return fmt.Sprintf(
		"key=%v asc=0x%02x ascq=0x%02x filemark=%v eom=%v ili=%v residue=%v",
		s.Key,
		s.ASC,
		s.ASCQ,
		s.Filemark,
		s.EOM,
		s.ILI,
		s.Residue,
	)
}
