package cif

import "strings"

// aliases maps dotless legacy entry names (leading underscore stripped)
// to their unified dotted form. The list covers the entries the
// converter reads; unknown names pass through unchanged.
var aliases = map[string]string{
	"cell_length_a":                    "cell.length_a",
	"cell_length_b":                    "cell.length_b",
	"cell_length_c":                    "cell.length_c",
	"cell_angle_alpha":                 "cell.angle_alpha",
	"cell_angle_beta":                  "cell.angle_beta",
	"cell_angle_gamma":                 "cell.angle_gamma",
	"cell_formula_units_Z":             "cell.formula_units_z",
	"cell_volume":                      "cell.volume",
	"diffrn_radiation_wavelength":      "diffrn_radiation_wavelength.value",
	"diffrn_ambient_temperature":       "diffrn.ambient_temperature",
	"exptl_crystal_size_max":           "exptl_crystal.size_max",
	"exptl_crystal_size_mid":           "exptl_crystal.size_mid",
	"exptl_crystal_size_min":           "exptl_crystal.size_min",
	"space_group_name_H-M_alt":         "space_group.name_h-m_alt",
	"symmetry_space_group_name_H-M":    "space_group.name_h-m_alt",
	"refine_ls_weighting_details":      "refine_ls.weighting_details",
	"refine_ls_number_parameters":      "refine_ls.number_parameters",
	"atom_site_label":                  "atom_site.label",
	"atom_site_type_symbol":            "atom_site.type_symbol",
	"atom_site_fract_x":                "atom_site.fract_x",
	"atom_site_fract_y":                "atom_site.fract_y",
	"atom_site_fract_z":                "atom_site.fract_z",
	"atom_site_occupancy":              "atom_site.occupancy",
	"atom_site_adp_type":               "atom_site.adp_type",
	"atom_site_U_iso_or_equiv":         "atom_site.u_iso_or_equiv",
	"atom_site_aniso_label":            "atom_site_aniso.label",
	"atom_site_aniso_U_11":             "atom_site_aniso.u_11",
	"atom_site_aniso_U_22":             "atom_site_aniso.u_22",
	"atom_site_aniso_U_33":             "atom_site_aniso.u_33",
	"atom_site_aniso_U_23":             "atom_site_aniso.u_23",
	"atom_site_aniso_U_13":             "atom_site_aniso.u_13",
	"atom_site_aniso_U_12":             "atom_site_aniso.u_12",
	"iucr_refine_instructions_details": "iucr.refine_instructions_details",
}

// UnifyName converts one entry name to its unified form. Custom
// categories take precedence: with category "shelx", the legacy name
// "_shelx_res_file" becomes "_shelx.res_file". Names without an alias
// or category match are returned unchanged.
func UnifyName(name string, customCategories []string) string {
	cut := strings.TrimPrefix(name, "_")
	for _, category := range customCategories {
		if strings.HasPrefix(cut, category+"_") {
			return "_" + category + "." + cut[len(category)+1:]
		}
	}
	if unified, ok := aliases[cut]; ok {
		return "_" + unified
	}
	return name
}

// UnifyBlock returns a copy of the block with every entry and loop
// column renamed to its unified form. Ordering is retained.
func UnifyBlock(block *Block, customCategories []string) *Block {
	out := NewBlock(block.Name)
	for _, e := range block.entries {
		if e.loop == nil {
			out.Set(UnifyName(e.name, customCategories), e.value)
			continue
		}
		renamed := NewLoop()
		for _, name := range e.loop.Names() {
			vals, _ := e.loop.Column(name)
			// Renaming never collides for distinct source names, so the
			// error path is unreachable on well-formed input.
			_ = renamed.AddColumn(UnifyName(name, customCategories), vals)
		}
		out.AddLoop(renamed)
	}
	return out
}
