package hgvs

import (
	"fmt"
	"strings"
)

// Stop is the single-letter code for a stop codon.
const Stop = "*"

// Deletion marks a deleted residue.
const Deletion = "DEL"

// aminoAcidThreeToOne maps upper-cased three-letter amino acid codes and
// the alternative stop codon spellings to single-letter codes.
var aminoAcidThreeToOne = map[string]string{
	"ALA": "A", "ARG": "R", "ASN": "N", "ASP": "D",
	"CYS": "C", "GLN": "Q", "GLU": "E", "GLY": "G",
	"HIS": "H", "ILE": "I", "LEU": "L", "LYS": "K",
	"MET": "M", "PHE": "F", "PRO": "P", "SER": "S",
	"THR": "T", "TRP": "W", "TYR": "Y", "VAL": "V",

	"X": Stop, "XAA": Stop, "SCY": Stop,

	Deletion: Deletion,
}

// MapAACodes normalizes an amino acid code to upper-case single-letter
// form. Single letters (other than X) and "*" pass through; an empty
// code stays empty.
func MapAACodes(code string) (string, error) {
	code = strings.ToUpper(code)

	if code == Stop || code == "" {
		return code, nil
	}
	if len(code) == 1 && code != "X" {
		return code, nil
	}

	if one, ok := aminoAcidThreeToOne[code]; ok {
		return one, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedCode, code)
}
