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


package batch_test

import (
	"sync/atomic"
	"testing"

	"github.com/reltools/reltools/batch"
	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/test"
)

func TestAllSucceed(t *testing.T) {
	var count atomic.Int32

	err := batch.Run([]string{"a", "b", "c"}, batch.Options{Jobs: 2}, func(target string, log *logger.Logger) error {
		count.Add(1)
		return nil
	})

	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, count.Load(), int32(3))
	test.ExpectEquality(t, len(batch.Errors(err)), 0)
}

func TestFailuresDoNotStopSiblings(t *testing.T) {
	var count atomic.Int32

	err := batch.Run([]string{"a", "b", "c", "d"}, batch.Options{Jobs: 1}, func(target string, log *logger.Logger) error {
		count.Add(1)
		if target == "b" || target == "d" {
			return curated.Errorf("failed")
		}
		return nil
	})

	test.ExpectFailure(t, err)
	test.ExpectEquality(t, count.Load(), int32(4))

	errs := batch.Errors(err)
	test.DemandEquality(t, len(errs), 2)
	test.ExpectEquality(t, errs[0].Error(), "b: failed")
	test.ExpectEquality(t, errs[1].Error(), "d: failed")
	test.ExpectSuccess(t, curated.Is(errs[0], batch.JobFailed))
}

func TestDone(t *testing.T) {
	logged := make(map[string]string)

	opts := batch.Options{
		Jobs: 4,
		Done: func(target string, log *logger.Logger, err error) {
			w := &test.Writer{}
			log.Write(w)
			logged[target] = w.String()
		},
	}

	err := batch.Run([]string{"x", "y"}, opts, func(target string, log *logger.Logger) error {
		log.Logf(logger.Allow, "job", "processing %s", target)
		return nil
	})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, logged["x"], "job: processing x\n")
	test.ExpectEquality(t, logged["y"], "job: processing y\n")
}

func TestZeroJobs(t *testing.T) {
	var count atomic.Int32

	err := batch.Run([]string{"a"}, batch.Options{}, func(target string, log *logger.Logger) error {
		count.Add(1)
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, count.Load(), int32(1))
}
