package convert

import (
	"github.com/qcrbox/shelxcif/internal/afix"
	"github.com/qcrbox/shelxcif/internal/ins"
)

// RoundTrip decodes the constraint region of instruction text and
// re-encodes it, returning both streams so callers can compare them.
// Labels are kept exactly as written so a clean round trip is
// byte-identical.
func RoundTrip(text string) (original, regenerated []string, err error) {
	lines := ins.Lines(ins.Prepare(text))
	types, err := ins.ScatteringTypes(lines)
	if err != nil {
		return nil, nil, err
	}
	hydrogenIndex := ins.HydrogenIndex(types)

	region, err := ins.ConstraintRegion(lines)
	if err != nil {
		return nil, nil, err
	}

	records, catalog, err := afix.Decode(region, afix.DecodeOptions{
		IsHydrogen: func(typeIndex int) bool {
			return hydrogenIndex > 0 && typeIndex == hydrogenIndex
		},
	})
	if err != nil {
		return nil, nil, err
	}

	stream, err := afix.Encode(records, catalog)
	if err != nil {
		return nil, nil, err
	}
	return region, stream, nil
}
