// Package apptcode derives the short human-presentable appointment codes
// that get printed on confirmation slips and encoded into QR images.
package apptcode

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"

	"github.com/wexxqt/ecatsulta-api/pkg/errors"
)

// Pattern is the canonical shape of an appointment code. It is a wire
// contract: codes in this shape are already embedded in issued QR images,
// so the format must not change.
var Pattern = regexp.MustCompile(`^[A-Z0-9]{3}-\d{6}-[A-Z0-9]{3}$`)

const segmentAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate derives a code of the form AAA-NNNNNN-BBB from an appointment's
// storage identifier and the owning patient's storage identifier. The
// derivation is deterministic: the same pair of ids always yields the same
// code, so a code issued at booking time can be re-derived later without
// storing anything beyond the two ids.
func Generate(appointmentID, patientID string) (string, error) {
	appointmentID = strings.TrimSpace(appointmentID)
	patientID = strings.TrimSpace(patientID)
	if appointmentID == "" {
		return "", errors.BadRequest("appointment id is required", nil)
	}
	if patientID == "" {
		return "", errors.BadRequest("patient id is required", nil)
	}

	// Length-prefix each id so ("ab","c") and ("a","bc") cannot collide.
	h := sha256.New()
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(appointmentID)))
	h.Write(lenBuf[:])
	h.Write([]byte(appointmentID))
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(patientID)))
	h.Write(lenBuf[:])
	h.Write([]byte(patientID))
	sum := h.Sum(nil)

	head := segment(sum[0:3])
	tail := segment(sum[10:13])
	digits := binary.BigEndian.Uint32(sum[4:8]) % 1000000

	return fmt.Sprintf("%s-%06d-%s", head, digits, tail), nil
}

// IsValid reports whether code matches the canonical shape.
func IsValid(code string) bool {
	return Pattern.MatchString(code)
}

func segment(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = segmentAlphabet[int(c)%len(segmentAlphabet)]
	}
	return string(out)
}
