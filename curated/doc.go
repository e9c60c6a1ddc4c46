// This file is part of reltools.
//
// reltools is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// reltools is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with reltools.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Every package in reltools reports failure with a curated error so that the
// command line front-end can tell a known failure (a missing anchor, an
// unresolvable relocation tag, an assembler that exited with an error) from
// an unexpected one.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The pattern is what identifies the error. Packages declare the patterns they
// use as exported constants, for example:
//
//	const UnresolvedSymbol = "reltag: unresolved symbol: %v"
//
//	err := curated.Errorf(UnresolvedSymbol, tag)
//
//	if curated.Is(err, UnresolvedSymbol) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain. A relocation failure wrapped by the module builder is still
// identifiable:
//
//	e := curated.Errorf(UnresolvedSymbol, tag)
//	f := curated.Errorf("builder: %v", e)
//
//	curated.Has(f, UnresolvedSymbol) // true
//	curated.Is(f, UnresolvedSymbol)  // false
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. In other words, the message for an error wrapped
// twice with the same prefix:
//
//	curated.Errorf("builder: %v", curated.Errorf("builder: %v", err))
//
// will be:
//
//	builder: <err>
//
// and not:
//
//	builder: builder: <err>
//
// Chain parts are separated by the sub-string ': ' as suggested on p239 of
// "The Go Programming Language" (Donovan, Kernighan).
//
// Curated errors also implement Unwrap() so that the errors package in the
// standard library can look through them, for example to find an
// *exec.ExitError or a *fs.PathError wrapped by a curated error.
package curated
