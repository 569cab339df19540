package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToneMapping is returned when parsing an unknown tone mapping name.
var ErrInvalidToneMapping = errors.New("invalid tone mapping")

// ToneMapping selects the operator that maps linear HDR color into displayable range.
// The numeric values are shared with the lit and background shaders.
type ToneMapping uint32

const (
	// ToneMappingNone passes linear color through, only clamping on output.
	ToneMappingNone ToneMapping = iota

	// ToneMappingLinear scales by exposure.
	ToneMappingLinear

	// ToneMappingReinhard applies exposure then x / (1 + x).
	ToneMappingReinhard

	// ToneMappingCineon applies the optimized Hejl-Dawson filmic curve.
	ToneMappingCineon

	// ToneMappingACESFilmic applies the fitted ACES RRT and ODT curve.
	ToneMappingACESFilmic
)

var toneMappingNames = map[ToneMapping]string{
	ToneMappingNone:       "none",
	ToneMappingLinear:     "linear",
	ToneMappingReinhard:   "reinhard",
	ToneMappingCineon:     "cineon",
	ToneMappingACESFilmic: "aces",
}

func (t ToneMapping) String() string {
	if name, ok := toneMappingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ToneMapping(%d)", uint32(t))
}

// ParseToneMapping resolves a tone mapping by name, case-insensitive.
// "acesfilmic" is accepted as an alias of "aces".
//
// Parameters:
//   - name: the tone mapping name
//
// Returns:
//   - ToneMapping: the parsed tone mapping
//   - error: ErrInvalidToneMapping wrapped with the offending name
func ParseToneMapping(name string) (ToneMapping, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "acesfilmic" {
		return ToneMappingACESFilmic, nil
	}
	for t, s := range toneMappingNames {
		if s == n {
			return t, nil
		}
	}
	return ToneMappingNone, fmt.Errorf("%w: %q", ErrInvalidToneMapping, name)
}
