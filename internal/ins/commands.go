package ins

import "strings"

// commands lists the instruction keywords a refinement file can open a
// line with. Lines starting with any of these are control lines, not
// atom lines.
var commands = []string{
	"ABIN", "ACTA", "AFIX", "ANIS", "ANSC", "ANSR", "BASF", "BIND", "BLOC",
	"BOND", "BUMP", "CELL", "CGLS", "CHIV", "CONF", "CONN", "DAMP", "DANG",
	"DEFS", "DELU", "DFIX", "DISP", "EADP", "END", "EQIV", "EXTI", "EXYZ",
	"FEND", "FLAT", "FMAP", "FRAG", "FREE", "FVAR", "GRID", "HFIX", "HKLF",
	"HTAB", "ISOR", "LATT", "LAUE", "LIST", "L.S.", "MERG", "MORE", "MOVE",
	"MPLA", "NCSY", "NEUT", "OMIT", "PART", "PLAN", "PRIG", "REM", "RESI",
	"RIGU", "RTAB", "SADI", "SAME", "SFAC", "SHEL", "SIMU", "SIZE", "SPEC",
	"STIR", "SUMP", "SWAT", "SYMM", "TEMP", "TITL", "TWIN", "TWST", "UNIT",
	"WGHT", "WIGL", "WPDB", "XNPD", "ZERR",
}

// opaqueInstructions lists the instructions the converter does not
// interpret. When any of them is present the embedded instruction text
// must survive the conversion verbatim so no information is lost.
var opaqueInstructions = []string{
	"ABIN", "ANSC", "ANSR", "BASF", "BLOC", "BUMP", "CHIV", "DAMP", "DANG",
	"DEFS", "DELU", "DFIX", "DISP", "EADP", "EXTI", "EXYZ", "FEND", "FLAT",
	"FRAG", "HFIX", "ISOR", "LAUE", "MOVE", "NCSY", "NEUT", "OMIT", "PART",
	"PRIG", "RESI", "RIGU", "SADI", "SAME", "SHEL", "SIMU", "STIR", "SUMP",
	"SWAT", "TWIN", "TWST", "WIGL", "XNPD",
}

// IsCommand reports whether a line opens with an instruction keyword.
func IsCommand(line string) bool {
	upper := strings.ToUpper(line)
	for _, cmd := range commands {
		if strings.HasPrefix(upper, cmd) {
			return true
		}
	}
	return false
}

// KeepInstructions reports whether the instruction text contains
// instructions outside the interpreted set. Such a file must ride along
// verbatim when converted.
func KeepInstructions(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		for _, cmd := range opaqueInstructions {
			if strings.HasPrefix(line, cmd) {
				return true
			}
		}
	}
	return false
}
