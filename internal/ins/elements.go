package ins

// elementsByNumber lists element symbols in atomic-number order. SFAC
// lines put carbon and hydrogen first and the remaining declared
// elements in this order.
var elementsByNumber = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm",
}

// SFACOrder returns the canonical declaration order for scattering
// types: C and H first, the rest by atomic number.
func SFACOrder() []string {
	order := []string{"C", "H"}
	for _, el := range elementsByNumber {
		if el != "C" && el != "H" {
			order = append(order, el)
		}
	}
	return order
}
