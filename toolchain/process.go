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


package toolchain

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/reltools/reltools/curated"
)

// Sentinal error patterns.
const (
	ToolFailure = "toolchain: %s: %v"
)

// Result of running a program.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run the program with the arguments. The program's output is returned in the
// Result even if there is an error.
func Run(program string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	r := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	name := filepath.Base(program)

	if err != nil {
		var exit *exec.ExitError
		if !errors.As(err, &exit) {
			return r, curated.Errorf(ToolFailure, name, err)
		}
		r.ExitCode = exit.ExitCode()
		return r, curated.Errorf(ToolFailure, name, failure(r))
	}

	if strings.TrimSpace(r.Stderr) != "" {
		return r, curated.Errorf(ToolFailure, name, failure(r))
	}

	return r, nil
}

// failure returns the stderr text if there is any. otherwise the exit code
func failure(r Result) string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return curated.Errorf("exit code %d", r.ExitCode).Error()
}
