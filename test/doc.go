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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions compare values of the
// same comparable type. ExpectDeepEquality() compares arbitrary values using
// the go-cmp package and reports the difference on failure.
//
// The ExpectSuccess() and ExpectFailure() functions test for "success" and
// "failure" values. Success values are true for booleans and nil for errors.
//
// The Demand*() variants stop the test immediately on failure. Use them when
// the rest of the test makes no sense if the demand is not met, for example
// when a module build fails and the test goes on to inspect the output.
//
// The Writer type is an io.Writer that buffers everything written to it and
// which can be compared to a string.
package test
