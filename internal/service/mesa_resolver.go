package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolverReferenciaMesa normalizes the many equivalent spellings of a table
// reference into one canonical key. Numeric references ("7", "07", " 7 ")
// canonicalize to the zero-padded two-digit string ("07"); anything else
// (a database id) is used verbatim. An empty reference is a caller bug and
// fails with ErrReferenciaInvalida.
//
// Every lookup by reference must treat the canonical key, the unpadded
// numeric key and the opaque id as equivalent aliases — see
// ComandaRepository.FindAberta for the query side of this contract.
func ResolverReferenciaMesa(raw string) (string, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return "", ErrReferenciaInvalida
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 {
			return "", ErrReferenciaInvalida
		}
		return fmt.Sprintf("%02d", n), nil
	}
	return ref, nil
}

// AliasesMesa returns every spelling under which the reference may have been
// persisted: canonical zero-padded key, unpadded numeric key and the raw
// value itself. The repository queries all of them and loads at most one row.
func AliasesMesa(chave string) []string {
	aliases := []string{chave}
	if n, err := strconv.Atoi(chave); err == nil {
		unpadded := strconv.Itoa(n)
		if unpadded != chave {
			aliases = append(aliases, unpadded)
		}
	}
	return aliases
}
