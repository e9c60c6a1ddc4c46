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


// Package batch runs a job for every target named on the command line. Jobs
// run in parallel up to a limit. The failure of one job does not stop the
// other jobs.
package batch

import (
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
)

// Sentinal error patterns.
const (
	JobFailed = "%s: %v"
)

// the maximum number of entries in each job's log
const maxJobLog = 1000

// Job processes a single target. Each job has its own log.
type Job func(target string, log *logger.Logger) error

// Options for Run().
type Options struct {
	// maximum number of jobs running at once. values less than one are
	// treated as one
	Jobs int

	// called with every job's log after the job has finished, in the order
	// the jobs finish. can be nil
	Done func(target string, log *logger.Logger, err error)
}

// Run the job for every target. The returned error combines the errors of
// every failed job in the order of the targets. Use Errors() to separate
// them.
func Run(targets []string, opts Options, job Job) error {
	var g errgroup.Group
	g.SetLimit(max(opts.Jobs, 1))

	errs := make([]error, len(targets))

	var crit sync.Mutex

	for i, t := range targets {
		g.Go(func() error {
			log := logger.NewLogger(maxJobLog)

			err := job(t, log)
			if err != nil {
				errs[i] = curated.Errorf(JobFailed, t, err)
			}

			if opts.Done != nil {
				crit.Lock()
				opts.Done(t, log, err)
				crit.Unlock()
			}

			// never fail the group. the other jobs must continue
			return nil
		})
	}

	_ = g.Wait()

	return multierr.Combine(errs...)
}

// Errors returns the individual job errors from the error returned by Run().
func Errors(err error) []error {
	return multierr.Errors(err)
}
