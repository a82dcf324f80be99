/*
 * main.go, part of qfield.
 *
 *
 * Copyright 2024 The qfield authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
 */

//qfield computes electron densities, molecular orbitals, electrostatic and lipophilicity
//potentials and NCI fields on grids, as described in YAML job files.
//
//Use:
//
//	qfield [FLAGS] job1.yaml [job2.yaml ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/rmera/qfield/job"
)

//If v is true, prints the d arguments to stderr
//otherwise, does nothing.
func LogV(v bool, d ...interface{}) {
	if v {
		fmt.Fprintln(os.Stderr, d...)
	}
}

func CErr(err error, info string) {
	if err != nil {
		log.Fatal(info, ": ", err)
	}
}

func main() {
	jobfile := flag.String("job", "", "a YAML job file. Further job files can be given as arguments")
	cpus := flag.Int("cpus", 1, "how many jobs to run at the same time. If a number <1 is given, all logical CPUs are used. Each MO job also uses its own mo.cpus")
	defaults := flag.Bool("defaults", false, "print the default job values and exit")
	check := flag.Bool("check", false, "only check the job files, printing them with the defaults applied")
	verbose := flag.Bool("verbose", false, "print a summary of each field computed")
	flag.Parse()
	if *defaults {
		fmt.Print(job.Defaults())
		return
	}
	names := flag.Args()
	if *jobfile != "" {
		names = append([]string{*jobfile}, names...)
	}
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "Use:\n  qfield [FLAGS] job.yaml [job2.yaml ...]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	jobs := make([]*job.Job, 0, len(names))
	for _, n := range names {
		J, err := job.Load(n)
		CErr(err, "main")
		jobs = append(jobs, J)
		if *check {
			y, err := J.YAML()
			CErr(err, "main")
			fmt.Printf("# %s\n%s", n, y)
		}
	}
	if *check {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := job.RunAll(ctx, jobs, *cpus)
	CErr(err, "main")
	for _, R := range results {
		LogV(*verbose, R.Job.Title+"\n"+R.Summary())
	}
}
