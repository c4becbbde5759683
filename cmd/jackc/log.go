package main

import (
	"flag"
	"strconv"
)

// initLogging hands the CLI's logging settings to glog, which only reads them
// from the standard flag set.
func initLogging(logToStderr bool, verbose int) error {
	if !flag.Parsed() {
		if err := flag.CommandLine.Parse([]string{}); err != nil {
			return err
		}
	}
	if logToStderr {
		if err := flag.Lookup("logtostderr").Value.Set("true"); err != nil {
			return err
		}
	}
	if verbose > 0 {
		if err := flag.Lookup("v").Value.Set(strconv.Itoa(verbose)); err != nil {
			return err
		}
	}
	return nil
}
